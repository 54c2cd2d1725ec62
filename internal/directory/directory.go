package directory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/echoself/backend/internal/model/profile"
	"github.com/echoself/backend/internal/store"
)

const (
	profileKeyPrefix = "profile-"
	credentialKey    = "openai_api_key"
)

// VoteKind names the rating counter a vote increments.
type VoteKind string

const (
	Upvote   VoteKind = "upvotes"
	Downvote VoteKind = "downvotes"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidVoteKind = errors.New("invalid vote kind")
)

// Directory enumerates persisted personas and mutates their vote counters.
// It also owns the well-known credential key of the same store.
type Directory struct {
	kv store.KV

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a directory over the supplied store. A nil rng gets a
// time-seeded source; tests pass their own to pin the rating backfill.
func New(kv store.KV, rng *rand.Rand) *Directory {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Directory{kv: kv, rng: rng}
}

// Save persists a profile under its key.
func (d *Directory) Save(ctx context.Context, p profile.Profile) error {
	raw, err := p.Encode()
	if err != nil {
		return err
	}
	if err := d.kv.Set(ctx, profileKeyPrefix+p.ID, raw); err != nil {
		return fmt.Errorf("persist profile %s: %w", p.ID, err)
	}
	return nil
}

// Get loads and parses one profile.
func (d *Directory) Get(ctx context.Context, id string) (profile.Profile, error) {
	raw, err := d.kv.Get(ctx, profileKeyPrefix+id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("load profile %s: %w", id, err)
	}
	return profile.Parse(raw)
}

// ListAll returns every parseable profile in store enumeration order.
// Profiles without ratings get a fresh random seed in the returned copies
// only; nothing is written back by listing, so re-listing may reseed. Only a
// later Vote persists a seeded baseline.
func (d *Directory) ListAll(ctx context.Context) ([]profile.Profile, error) {
	keys, err := d.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate store keys: %w", err)
	}

	profiles := make([]profile.Profile, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, profileKeyPrefix) {
			continue
		}

		raw, err := d.kv.Get(ctx, key)
		if err != nil {
			// Lost a race with a concurrent remove; skip.
			continue
		}

		p, err := profile.Parse(raw)
		if err != nil {
			log.Printf("[directory] skipping malformed record %s: %v", key, err)
			continue
		}

		if p.Ratings == nil {
			p.Ratings = d.seedRatings()
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// Vote increments one counter by exactly 1, persists the full profile, and
// returns the updated record. Unknown ids report ErrProfileNotFound without
// writing anything. The read-modify-write is last-writer-wins across
// concurrent voters.
func (d *Directory) Vote(ctx context.Context, id string, kind VoteKind) (profile.Profile, error) {
	if kind != Upvote && kind != Downvote {
		return profile.Profile{}, fmt.Errorf("%w: %q", ErrInvalidVoteKind, kind)
	}

	p, err := d.Get(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}

	if p.Ratings == nil {
		p.Ratings = d.seedRatings()
	}
	switch kind {
	case Upvote:
		p.Ratings.Upvotes++
	case Downvote:
		p.Ratings.Downvotes++
	}

	if err := d.Save(ctx, p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

// Credential returns the stored remote API key, empty when unset.
func (d *Directory) Credential(ctx context.Context) (string, error) {
	value, err := d.kv.Get(ctx, credentialKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load credential: %w", err)
	}
	return value, nil
}

// SetCredential stores the remote API key under its well-known key.
func (d *Directory) SetCredential(ctx context.Context, apiKey string) error {
	if err := d.kv.Set(ctx, credentialKey, apiKey); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

// ClearCredential removes the stored API key.
func (d *Directory) ClearCredential(ctx context.Context) error {
	if err := d.kv.Remove(ctx, credentialKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// seedRatings produces the cosmetic baseline for records persisted before
// ratings existed: upvotes in [0,9], downvotes in [0,2].
func (d *Directory) seedRatings() *profile.Ratings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &profile.Ratings{
		Upvotes:   d.rng.Intn(10),
		Downvotes: d.rng.Intn(3),
	}
}
