package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/echoself/backend/internal/directory"
	"github.com/echoself/backend/internal/model/chat"
	"github.com/echoself/backend/internal/model/profile"
)

var (
	ErrProfileRequired = errors.New("profile id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrResponsePending = errors.New("a response is already pending for this session")
)

const (
	trollModeOnMessage  = "Switching to Trolling Mode. Prepare for some attitude!"
	trollModeOffMessage = "Switching back to Serious Mode."
	failureMessage      = "Sorry, I had trouble responding. Please try again."
)

// Responder produces a persona reply for a user message. It never fails;
// failures inside degrade to fallback text.
type Responder interface {
	Respond(ctx context.Context, message string, persona profile.PersonaConfig) string
}

// Service owns the per-session transcripts and mediates user input through
// the responder. Transcripts are append-only for the session's lifetime.
type Service struct {
	responder Responder
	profiles  *directory.Directory

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	meta     chat.Session
	messages []chat.Message
	// pending guards the single in-flight generation per session; a new
	// send is rejected while a prior one is outstanding so replies land in
	// request order.
	pending bool
}

// NewService bootstraps the in-memory session service.
func NewService(responder Responder, profiles *directory.Directory) *Service {
	return &Service{
		responder: responder,
		profiles:  profiles,
		sessions:  make(map[string]*session),
	}
}

// CreateSession provisions a session bound to a persisted profile. The
// transcript opens with the synthetic welcome from the persona.
func (s *Service) CreateSession(ctx context.Context, profileID string) (chat.Session, []chat.Message, error) {
	if profileID == "" {
		return chat.Session{}, nil, ErrProfileRequired
	}

	prof, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return chat.Session{}, nil, err
	}

	meta := chat.Session{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		TrollMode: prof.TrollMode,
		CreatedAt: time.Now().UTC(),
	}

	welcome := newMessage(meta.ID, chat.SenderAI,
		fmt.Sprintf("Hi there! I'm %s's AI persona. How can I help you today?", prof.Name))

	s.mu.Lock()
	s.sessions[meta.ID] = &session{meta: meta, messages: []chat.Message{welcome}}
	s.mu.Unlock()

	return meta, []chat.Message{welcome}, nil
}

// GetSession retrieves session metadata.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return sess.meta, nil
}

// Transcript returns a copy of the stored messages.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(sess.messages))
	copy(copied, sess.messages)
	return copied, nil
}

// SendMessage appends the user message, obtains a reply, and appends it. The
// returned slice holds exactly the messages appended by this call. While a
// generation is outstanding for the session, further sends are rejected with
// ErrResponsePending.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) ([]chat.Message, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.pending {
		s.mu.Unlock()
		return nil, ErrResponsePending
	}
	sess.pending = true

	userMsg := newMessage(sessionID, chat.SenderUser, text)
	sess.messages = append(sess.messages, userMsg)
	profileID := sess.meta.ProfileID
	trollMode := sess.meta.TrollMode
	s.mu.Unlock()

	prof, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		// The profile vanished from under the session; the generation call
		// itself cannot run, which is the one terminal failure surfaced to
		// the transcript.
		log.Printf("[chat] profile %s unavailable for session %s: %v", profileID, sessionID, err)
		return s.finish(sessionID, userMsg, newMessage(sessionID, chat.SenderSystem, failureMessage)), nil
	}

	reply := s.responder.Respond(ctx, text, prof.PersonaConfig(trollMode))
	return s.finish(sessionID, userMsg, newMessage(sessionID, chat.SenderAI, reply)), nil
}

// ToggleTrollMode flips the session's tone, injects the mode system message,
// and persists the flag onto the stored profile. Persistence failure only
// logs; the session flag has already flipped.
func (s *Service) ToggleTrollMode(ctx context.Context, sessionID string) (bool, chat.Message, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return false, chat.Message{}, ErrSessionNotFound
	}

	sess.meta.TrollMode = !sess.meta.TrollMode
	enabled := sess.meta.TrollMode

	text := trollModeOffMessage
	if enabled {
		text = trollModeOnMessage
	}
	notice := newMessage(sessionID, chat.SenderSystem, text)
	sess.messages = append(sess.messages, notice)
	profileID := sess.meta.ProfileID
	s.mu.Unlock()

	if prof, err := s.profiles.Get(ctx, profileID); err != nil {
		log.Printf("[chat] troll mode not persisted, profile %s: %v", profileID, err)
	} else {
		prof.TrollMode = enabled
		if err := s.profiles.Save(ctx, prof); err != nil {
			log.Printf("[chat] troll mode not persisted, profile %s: %v", profileID, err)
		}
	}

	return enabled, notice, nil
}

func (s *Service) finish(sessionID string, userMsg, reply chat.Message) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.messages = append(sess.messages, reply)
		sess.pending = false
	}
	return []chat.Message{userMsg, reply}
}

func newMessage(sessionID, sender, text string) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}
