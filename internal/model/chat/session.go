package chat

import "time"

// Session binds a transient conversation to a persona profile. TrollMode is
// the live tone switch; it starts from the persisted profile and may diverge
// from it until a toggle persists it back.
type Session struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	TrollMode bool      `json:"trollMode"`
	CreatedAt time.Time `json:"createdAt"`
}
