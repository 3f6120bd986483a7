// Package prompt is the terminal input layer the views talk through
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt (Ctrl+C / Ctrl+D)
var ErrAborted = errors.New("prompt aborted")

// InputOptions tunes a single-line input
type InputOptions struct {
	Default  string
	Mask     bool
	Validate func(string) error
}

// Prompter asks the user for input
type Prompter interface {
	Input(label string, opts InputOptions) (string, error)
	Select(label string, items []string) (int, error)
	Confirm(label string) (bool, error)
}

// Terminal is a Prompter on the process's terminal
type Terminal struct{}

// NewTerminal returns a terminal prompter
func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Input(label string, opts InputOptions) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   opts.Default,
		AllowEdit: opts.Default != "",
		Validate:  opts.Validate,
	}
	if opts.Mask {
		p.Mask = '*'
	}

	value, err := p.Run()
	if err != nil {
		return "", wrap(err)
	}
	return value, nil
}

func (t *Terminal) Select(label string, items []string) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	p := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      10,
	}

	index, _, err := p.Run()
	if err != nil {
		return -1, wrap(err)
	}
	return index, nil
}

func (t *Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := p.Run()
	if err == nil {
		return true, nil
	}
	// promptui reports a "no" answer as ErrAbort
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	return false, wrap(err)
}

func wrap(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}
