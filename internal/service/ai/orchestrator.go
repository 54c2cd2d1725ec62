package ai

import (
	"context"
	"log"
	"sync"

	"github.com/echoself/backend/internal/config"
	"github.com/echoself/backend/internal/model/profile"
)

const (
	trollTemperature   float32 = 0.9
	seriousTemperature float32 = 0.7

	emptyRemoteReply = "Sorry, I couldn't generate a response."
)

// Remote is a single generation attempt against the configured model.
type Remote interface {
	Generate(ctx context.Context, systemPrompt, userMessage string, trollMode bool) (string, error)
}

// CredentialSource yields the live remote credential, empty when unset.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// Orchestrator decides between the remote model and the fallback generator.
// Respond never returns an error: every remote failure degrades into a
// fallback reply, and the fallback itself is total.
type Orchestrator struct {
	cfg         config.AIConfig
	credentials CredentialSource
	fallback    *FallbackGenerator

	newRemote func(ctx context.Context, cfg config.AIConfig, apiKey string) (Remote, error)

	// The model handle is built lazily on first use and rebuilt only when
	// the credential changes.
	mu        sync.Mutex
	remote    Remote
	remoteKey string
}

// NewOrchestrator wires the orchestrator against the eino-backed remote.
func NewOrchestrator(cfg config.AIConfig, credentials CredentialSource, fallback *FallbackGenerator) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		credentials: credentials,
		fallback:    fallback,
		newRemote:   newEinoRemote,
	}
}

// Respond produces a persona reply for the user message. With a credential
// configured it makes exactly one remote attempt, no retry; on any failure or
// with no credential it falls back locally.
func (o *Orchestrator) Respond(ctx context.Context, message string, persona profile.PersonaConfig) string {
	apiKey := o.resolveCredential(ctx)
	if apiKey == "" {
		return o.fallback.Reply(message, persona)
	}

	remote, err := o.remoteFor(ctx, apiKey)
	if err != nil {
		log.Printf("[ai] remote model unavailable, falling back: %v", err)
		return o.fallback.Reply(message, persona)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	text, err := remote.Generate(callCtx, ComposeSystemPrompt(persona), message, persona.TrollMode)
	if err != nil {
		log.Printf("[ai] remote generation failed, falling back: %v", err)
		return o.fallback.Reply(message, persona)
	}
	if text == "" {
		return emptyRemoteReply
	}
	return text
}

func (o *Orchestrator) resolveCredential(ctx context.Context) string {
	apiKey, err := o.credentials.Credential(ctx)
	if err != nil {
		log.Printf("[ai] failed to read stored credential: %v", err)
		apiKey = ""
	}
	if apiKey == "" {
		apiKey = o.cfg.APIKey
	}
	return apiKey
}

func (o *Orchestrator) remoteFor(ctx context.Context, apiKey string) (Remote, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.remote != nil && o.remoteKey == apiKey {
		return o.remote, nil
	}

	remote, err := o.newRemote(ctx, o.cfg, apiKey)
	if err != nil {
		return nil, err
	}

	o.remote = remote
	o.remoteKey = apiKey
	return remote, nil
}
