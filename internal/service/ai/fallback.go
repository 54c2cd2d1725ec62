package ai

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/echoself/backend/internal/analysis/intent"
	"github.com/echoself/backend/internal/model/profile"
)

var trollSuffixes = []string{
	" But honestly, do you even care?",
	" I mean, that's what a normal person would say, right?",
	" But what do I know? I'm just a digital version of myself!",
	" Anyway, what's your excuse?",
	" *eye roll* But sure, let's go with that.",
}

var seriousSuffixes = []string{
	" I hope that helps answer your question!",
	" What are your thoughts on this?",
	" I'd love to hear your perspective too.",
	" Does that make sense?",
	" Feel free to ask me more about it.",
}

// FallbackGenerator synthesizes persona-flavored replies from keyword intent
// and profile fields. It is total: any message and any persona, including one
// with empty interests or values, yields a non-empty reply.
type FallbackGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallbackGenerator returns a generator with a time-seeded source.
func NewFallbackGenerator() *FallbackGenerator {
	return NewSeededFallbackGenerator(time.Now().UnixNano())
}

// NewSeededFallbackGenerator pins the randomness source so tests can fix the
// exact reply for a given seed.
func NewSeededFallbackGenerator(seed int64) *FallbackGenerator {
	return &FallbackGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Reply builds the base sentence for the matched intent and appends exactly
// one mode-dependent suffix.
func (g *FallbackGenerator) Reply(message string, persona profile.PersonaConfig) string {
	var base string
	switch intent.Classify(message) {
	case intent.Greeting:
		base = fmt.Sprintf("Hey there! I'm %s. Nice to meet you!", persona.Name)
	case intent.Interests:
		base = fmt.Sprintf("I'm really passionate about %s.", firstToken(persona.Interests))
	case intent.Work:
		base = fmt.Sprintf("Well, professionally speaking, I'd say I'm the kind of person who %s.", workClause(persona.Bio))
	case intent.Values:
		base = fmt.Sprintf("I strongly believe in %s. That's really important to me.", firstToken(persona.Values))
	default:
		base = g.defaultReply(persona)
	}

	suffixes := seriousSuffixes
	if persona.TrollMode {
		suffixes = trollSuffixes
	}
	return base + suffixes[g.intn(len(suffixes))]
}

func (g *FallbackGenerator) defaultReply(persona profile.PersonaConfig) string {
	templates := []string{
		fmt.Sprintf("That's an interesting perspective. Given my background in %s, I'd say...", firstToken(persona.Interests)),
		fmt.Sprintf("You know, that reminds me of something related to %s.", firstToken(persona.Interests)),
		fmt.Sprintf("Hmm, if I were to answer based on my values around %s, I'd say...", firstToken(persona.Values)),
		fmt.Sprintf("Let me think about that from my perspective as someone who %s...", bioSnippet(persona.Bio)),
	}
	return templates[g.intn(len(templates))]
}

// intn serializes access to the shared source; rand.Rand is not safe for
// concurrent use.
func (g *FallbackGenerator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// firstToken returns the primary entry of a comma-separated list. An empty
// list splits into a single empty token, giving a degenerate but safe
// substitution.
func firstToken(list string) string {
	return strings.Split(list, ",")[0]
}

// workClause extracts the bio text between the literal token "work" and the
// next period. The bio match is case-sensitive on purpose; only the incoming
// message is matched case-insensitively.
func workClause(bio string) string {
	idx := strings.Index(bio, "work")
	if idx < 0 {
		return "values hard work and dedication"
	}
	clause := bio[idx+len("work"):]
	if dot := strings.Index(clause, "."); dot >= 0 {
		clause = clause[:dot]
	}
	return clause
}

// bioSnippet takes the first eight space-separated words of the bio, or the
// whole bio when it has no space.
func bioSnippet(bio string) string {
	if !strings.Contains(bio, " ") {
		return bio
	}
	words := strings.Split(bio, " ")
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}
