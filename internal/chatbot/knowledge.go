package chatbot

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// QAPair is one help answer.
type QAPair struct {
	Question string    `yaml:"question"`
	Answer   string    `yaml:"answer"`
	Keywords []string  `yaml:"keywords"`
	Match    MatchRule `yaml:"match"`
}

// MatchRule selects a pair by substrings of the lowercased input. Every
// All term must appear and, when Any is set, at least one Any term.
type MatchRule struct {
	All []string `yaml:"all"`
	Any []string `yaml:"any"`
}

func (r MatchRule) empty() bool { return len(r.All) == 0 && len(r.Any) == 0 }

func (r MatchRule) matches(lower string) bool {
	if r.empty() {
		return false
	}
	for _, term := range r.All {
		if !strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, term := range r.Any {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// KnowledgeBase holds the local help answers.
type KnowledgeBase struct {
	Entries []QAPair `yaml:"entries"`
}

// DefaultKnowledgeBase returns the embedded help answers.
func DefaultKnowledgeBase() (*KnowledgeBase, error) {
	return parseKnowledgeBase(defaultKnowledge)
}

// LoadKnowledgeBase reads a YAML knowledge base from path. An empty path
// selects the embedded default.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return DefaultKnowledgeBase()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	return parseKnowledgeBase(b)
}

func parseKnowledgeBase(b []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(b, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	for i, e := range kb.Entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("knowledge base entry %d: question and answer are required", i)
		}
	}
	return &kb, nil
}

// Exact returns the answer whose question equals lower, ignoring case.
func (kb *KnowledgeBase) Exact(lower string) (string, bool) {
	for _, e := range kb.Entries {
		if strings.ToLower(e.Question) == lower {
			return e.Answer, true
		}
	}
	return "", false
}

// Match returns the first answer whose rule matches lower.
func (kb *KnowledgeBase) Match(lower string) (string, bool) {
	for _, e := range kb.Entries {
		if e.Match.matches(lower) {
			return e.Answer, true
		}
	}
	return "", false
}
