package profile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Question keys every form submission carries. The questions map stays open
// to extra keys so externally edited records round-trip untouched.
const (
	QuestionFavoriteThings     = "favoriteThings"
	QuestionCommunicationStyle = "communicationStyle"
	QuestionHumorStyle         = "humorStyle"
	QuestionValues             = "values"
)

// ErrMalformed marks a stored record that cannot be decoded into a Profile.
var ErrMalformed = errors.New("malformed profile record")

// Ratings holds the browse-view vote counters.
type Ratings struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// Profile is a user-authored persona as persisted under its profile key.
// Only strings survive the store, so Resume carries a display name at most.
type Profile struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Bio         string            `json:"bio"`
	Interests   string            `json:"interests"`
	Personality string            `json:"personality,omitempty"`
	Resume      string            `json:"resume,omitempty"`
	Questions   map[string]string `json:"questions"`
	TrollMode   bool              `json:"trollMode"`
	Ratings     *Ratings          `json:"ratings,omitempty"`
}

// PersonaConfig is the narrow projection of a Profile consumed by response
// generation. It is derived fresh per call; the troll flag comes from the
// live session, which may have diverged from the persisted profile.
type PersonaConfig struct {
	Name               string
	Bio                string
	Interests          string
	CommunicationStyle string
	HumorStyle         string
	Values             string
	TrollMode          bool
}

// Question reads a questionnaire answer, tolerating a nil map.
func (p Profile) Question(key string) string {
	if p.Questions == nil {
		return ""
	}
	return p.Questions[key]
}

// PersonaConfig projects the profile into the shape generation consumes.
func (p Profile) PersonaConfig(trollMode bool) PersonaConfig {
	return PersonaConfig{
		Name:               p.Name,
		Bio:                p.Bio,
		Interests:          p.Interests,
		CommunicationStyle: p.Question(QuestionCommunicationStyle),
		HumorStyle:         p.Question(QuestionHumorStyle),
		Values:             p.Question(QuestionValues),
		TrollMode:          trollMode,
	}
}

// Parse decodes a persisted record. Loosely validated storage means records
// can be edited externally, so decoding failures surface as ErrMalformed
// instead of leaking partial values into generation logic. Empty text fields
// are tolerated; only a missing id is rejected.
func Parse(raw string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.ID == "" {
		return Profile{}, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	if p.Questions == nil {
		p.Questions = make(map[string]string)
	}
	return p, nil
}

// Encode serializes the profile for its store key.
func (p Profile) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	return string(data), nil
}
