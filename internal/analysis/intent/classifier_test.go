package intent

import "testing"

func TestClassifyBuckets(t *testing.T) {
	cases := []struct {
		message string
		want    Label
	}{
		{"Hello there", Greeting},
		{"HI!", Greeting},
		{"what are your hobbies?", Interests},
		{"tell me about your interests", Interests},
		{"where do you work?", Work},
		{"what's your job like", Work},
		{"what do you value most?", Values},
		{"do you believe in luck?", Values},
		{"tell me a story", General},
		{"", General},
	}

	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Greeting outranks every later bucket even when their keywords appear.
	if got := Classify("hello, how is work going?"); got != Greeting {
		t.Fatalf("expected greeting to win, got %s", got)
	}
	if got := Classify("my hobby is my job"); got != Interests {
		t.Fatalf("expected interests to outrank work, got %s", got)
	}
}
