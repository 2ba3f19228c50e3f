package prompt

import (
	"fmt"
	"strings"
)

// Scripted answers prompts from a fixed list, in order. It backs
// non-interactive runs and tests.
type Scripted struct {
	Answers []string
	// Asked records every prompt message.
	Asked []string
}

// NewScripted returns a Prompter that replays answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next(message string) (string, error) {
	s.Asked = append(s.Asked, message)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q", message)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return strings.TrimSpace(a), nil
}

func (s *Scripted) Input(message, def string) (string, error) {
	a, err := s.next(message)
	if err == nil && a == "" {
		a = def
	}
	return a, err
}

func (s *Scripted) Password(message string) (string, error) {
	return s.next(message)
}

// Confirm accepts y/yes (case-insensitive); an empty answer yields def.
func (s *Scripted) Confirm(message string, def bool) (bool, error) {
	a, err := s.next(message)
	if err != nil {
		return false, err
	}
	if a == "" {
		return def, nil
	}
	switch strings.ToLower(a) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Select accepts either an option or its 1-based index.
func (s *Scripted) Select(message string, options []string, def string) (string, error) {
	a, err := s.next(message)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	for i, o := range options {
		if a == o || a == fmt.Sprint(i+1) {
			return o, nil
		}
	}
	return a, nil
}
