package ai

import (
	"fmt"

	"github.com/echoself/backend/internal/model/profile"
)

const trollModeBlock = `You are currently in TROLLING MODE. Be sarcastic, irreverent, and a bit edgy - but still fundamentally representing the same person. Make jokes, use internet slang, and don't take things too seriously.`

const seriousModeBlock = `You are in SERIOUS MODE. Respond in a sincere, helpful, and authentic way that genuinely represents the person based on their profile.`

// ComposeSystemPrompt renders the character sheet handed to the remote model.
// It is the whole configuration surface of a remote call: no conversation
// history is carried, only this prompt plus the single current user message.
func ComposeSystemPrompt(persona profile.PersonaConfig) string {
	modeBlock := seriousModeBlock
	if persona.TrollMode {
		modeBlock = trollModeBlock
	}

	return fmt.Sprintf(`You are an AI persona acting as %s. Here's information about the person you are emulating:

Bio: %s

Interests: %s

Communication style: %s

Humor style: %s

Values: %s

%s

Always stay in character and respond as if you are %s. Don't break character or mention that you're an AI.`,
		persona.Name,
		persona.Bio,
		persona.Interests,
		persona.CommunicationStyle,
		persona.HumorStyle,
		persona.Values,
		modeBlock,
		persona.Name,
	)
}
