package chatbot

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	replyGreeting    = "Hello! How can I help you with time tracking or PTO management today?"
	replyThanks      = "You're welcome! Is there anything else I can help you with?"
	replyGoodbye     = "Goodbye! Have a great day!"
	replyStatus      = "I'm doing well, thank you! I'm here to help you with time tracking and PTO management."
	replyHelp        = "I can help you with time tracking, PTO requests, filtering logs, and answer general knowledge questions!"
	replyNotFound    = "I couldn't find a clear answer to that question. For general questions, try asking about time tracking or PTO management instead."
	replyUnavailable = "I'm temporarily unable to answer general questions, but I can still help you with time tracking and PTO management!"
)

var (
	greetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(hi|hello|hey|bonjour|salut|hola|ciao|greetings?|good\s+(morning|afternoon|evening))\b`),
		regexp.MustCompile(`(?i)\b(what'?s?\s+up|how'?s?\s+it\s+going|sup)\b`),
	}
	thanksPattern = regexp.MustCompile(`(?i)\b(thanks?|thank\s+you|thx|ty|appreciate|gracias|merci)\b`)
	byePattern    = regexp.MustCompile(`(?i)\b(bye|goodbye|see\s+you|later|farewell|adios|au\s+revoir)\b`)
	statusPattern = regexp.MustCompile(`(?i)\b(how\s+are\s+you|how\s+do\s+you\s+do|how'?s?\s+it\s+going)\b`)
	helpPattern   = regexp.MustCompile(`(?i)\b(what\s+can\s+you\s+do|help|capabilities?|features?)\b`)

	// Questions are never greetings, even when they open with one. Matched
	// case-sensitively, so "Hello, How are you" still greets.
	questionMarkers = []string{"?", "how", "what", "who", "where", "when", "why"}
)

// smallTalk answers greetings, thanks, goodbyes, status and help questions.
func smallTalk(input string) (string, bool) {
	if isGreeting(input) {
		return replyGreeting, true
	}
	if thanksPattern.MatchString(input) {
		return replyThanks, true
	}
	if byePattern.MatchString(input) {
		return replyGoodbye, true
	}
	if statusPattern.MatchString(input) {
		return replyStatus, true
	}
	if helpPattern.MatchString(input) {
		return replyHelp, true
	}
	return "", false
}

func isGreeting(input string) bool {
	matched := false
	for _, p := range greetingPatterns {
		if p.MatchString(input) {
			matched = true
			break
		}
	}
	if !matched || utf8.RuneCountInString(input) >= 30 {
		return false
	}
	for _, m := range questionMarkers {
		if strings.Contains(input, m) {
			return false
		}
	}
	return true
}
