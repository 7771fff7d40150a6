package chat

import (
	"strings"

	"salita/internal/nlp"
)

type cannedReply struct {
	triggers []string
	reply    string
}

// cannedReplies are checked in order; the first matching trigger wins.
var cannedReplies = []cannedReply{
	{
		triggers: []string{"kumusta", "kamusta", "hello", "hi", "magandang umaga", "magandang hapon", "magandang gabi"},
		reply:    "Mabuti naman, salamat! Ikaw, kumusta ka?\nEnglish: I'm fine, thanks! How about you?",
	},
	{
		triggers: []string{"salamat", "thank"},
		reply:    "Walang anuman! Gusto mo bang magpatuloy?\nEnglish: You're welcome! Do you want to continue?",
	},
	{
		triggers: []string{"paalam", "bye", "ingat"},
		reply:    "Paalam! Kita tayo bukas.\nEnglish: Goodbye! See you tomorrow.",
	},
	{
		triggers: []string{"pangalan"},
		reply:    "Ako si Salita. Ano ang pangalan mo?\nEnglish: I am Salita. What is your name?",
	},
	{
		triggers: []string{"kumain", "pagkain", "gutom"},
		reply:    "Ako ay kumain na. Ano ang paborito mong pagkain?\nEnglish: I have eaten already. What is your favorite food?",
	},
}

const (
	questionReply = "Magandang tanong! Subukan nating sagutin iyan nang dahan-dahan.\nEnglish: Good question! Let's try to answer that slowly."
	defaultReply  = "Magaling! Ituloy mo lang. Ano pa ang gusto mong sabihin?\nEnglish: Great! Keep going. What else would you like to say?"
	emptyReply    = "Kumusta! Ano ang gusto mong pag-usapan?\nEnglish: Hello! What would you like to talk about?"
)

// FallbackReply picks a canned reply for the last learner message. The choice
// depends only on the message text.
func FallbackReply(messages []Message) string {
	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			last = messages[i].Content
			break
		}
	}
	folded := nlp.Fold(strings.TrimSpace(last))
	if folded == "" {
		return emptyReply
	}
	wordsSeen := strings.FieldsFunc(folded, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '\''
	})
	for _, canned := range cannedReplies {
		for _, trigger := range canned.triggers {
			if containsPhrase(wordsSeen, trigger) {
				return canned.reply
			}
		}
	}
	if strings.HasSuffix(folded, "?") {
		return questionReply
	}
	return defaultReply
}

// containsPhrase reports whether the space-separated phrase appears as whole
// words in seen. Longer trigger words also match inflected forms
// ("salamat" in "salamatsss", "thank" in "thanks").
func containsPhrase(seen []string, phrase string) bool {
	parts := strings.Fields(phrase)
	for i := 0; i+len(parts) <= len(seen); i++ {
		match := true
		for j, part := range parts {
			if !wordMatches(seen[i+j], part) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func wordMatches(word, trigger string) bool {
	if word == trigger || word == trigger+"ng" {
		return true
	}
	return len(trigger) >= 5 && strings.HasPrefix(word, trigger)
}
