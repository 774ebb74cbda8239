package chatbot

import (
	"context"
	"strings"
)

const (
	// Welcome opens every conversation.
	Welcome = "Hello! I'm your TechTreck assistant. How can I help you today?"
	// ErrorReply replaces an answer that could not be produced.
	ErrorReply = "Sorry, I encountered an error. Please try again."
)

// Sender identifies who wrote a message.
type Sender string

const (
	FromUser Sender = "user"
	FromBot  Sender = "bot"
)

// Message is one line of a conversation.
type Message struct {
	Text string `json:"text"`
	From Sender `json:"type"`
}

// Answerer produces replies. *Bot and the API client both satisfy it.
type Answerer interface {
	FindAnswer(ctx context.Context, input string) (string, error)
}

// Session is a conversation transcript with the bot.
type Session struct {
	answerer Answerer
	messages []Message
}

// NewSession starts a conversation with the welcome message.
func NewSession(a Answerer) *Session {
	return &Session{
		answerer: a,
		messages: []Message{{Text: Welcome, From: FromBot}},
	}
}

// Send records text and the bot reply, which it also returns. Blank input is
// ignored and reports false.
func (s *Session) Send(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	s.messages = append(s.messages, Message{Text: text, From: FromUser})
	reply, err := s.answerer.FindAnswer(ctx, text)
	if err != nil {
		reply = ErrorReply
	}
	s.messages = append(s.messages, Message{Text: reply, From: FromBot})
	return reply, true
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
