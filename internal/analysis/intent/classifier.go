package intent

import "strings"

// Label names the topic a user message is steering toward.
type Label string

const (
	Greeting  Label = "greeting"
	Interests Label = "interests"
	Work      Label = "work"
	Values    Label = "values"
	General   Label = "general"
)

// keywordBuckets are checked in order; the first bucket with a matching
// keyword wins. The order is part of the contract: a message containing both
// "hello" and "work" is always a greeting.
var keywordBuckets = []struct {
	label    Label
	keywords []string
}{
	{Greeting, []string{"hello", "hi"}},
	{Interests, []string{"interest", "hobby"}},
	{Work, []string{"work", "job"}},
	{Values, []string{"value", "believe"}},
}

// Classify matches the lowercased message against the keyword buckets and
// returns General when nothing matches.
func Classify(message string) Label {
	normalized := strings.ToLower(message)
	for _, bucket := range keywordBuckets {
		for _, word := range bucket.keywords {
			if strings.Contains(normalized, word) {
				return bucket.label
			}
		}
	}
	return General
}
