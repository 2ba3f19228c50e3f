// Package prompt asks the operator questions on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the operator aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("prompt interrupted")

// Prompter is the question surface used by the setup wizard and the submit command.
type Prompter interface {
	Input(message, def string) (string, error)
	Password(message string) (string, error)
	Confirm(message string, def bool) (bool, error)
	Select(message string, options []string, def string) (string, error)
}

// Survey implements Prompter on an interactive terminal.
type Survey struct {
	opts []survey.AskOpt
}

// NewSurvey returns a terminal Prompter.
func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts}
}

func (s *Survey) Input(message, def string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message, Default: def}, &answer, s.opts...)
	return strings.TrimSpace(answer), mapErr(err)
}

func (s *Survey) Password(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Password{Message: message}, &answer, s.opts...)
	return strings.TrimSpace(answer), mapErr(err)
}

func (s *Survey) Confirm(message string, def bool) (bool, error) {
	var answer bool
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &answer, s.opts...)
	return answer, mapErr(err)
}

func (s *Survey) Select(message string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select %q: no options", message)
	}
	q := &survey.Select{Message: message, Options: options}
	if def != "" {
		q.Default = def
	}
	var answer string
	err := survey.AskOne(q, &answer, s.opts...)
	return answer, mapErr(err)
}

func mapErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}
