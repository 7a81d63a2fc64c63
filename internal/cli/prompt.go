package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned by a Prompter when the user backs out (Ctrl+C or
// end of input).
var ErrAborted = errors.New("aborted")

type Prompter interface {
	Choose(title string, options []string) (int, error)
	Input(title, placeholder string) (string, error)
	Secret(title string) (string, error)
}

// HuhPrompter renders each prompt as a one-field huh form.
type HuhPrompter struct {
	accessible bool
}

func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{accessible: accessible}
}

func (p *HuhPrompter) Choose(title string, options []string) (int, error) {
	choice := 0
	opts := make([]huh.Option[int], 0, len(options))
	for i, label := range options {
		opts = append(opts, huh.NewOption(label, i))
	}
	field := huh.NewSelect[int]().Title(title).Options(opts...).Value(&choice)
	return choice, p.run(field)
}

func (p *HuhPrompter) Input(title, placeholder string) (string, error) {
	value := ""
	field := huh.NewInput().Title(title).Placeholder(placeholder).Value(&value)
	return value, p.run(field)
}

func (p *HuhPrompter) Secret(title string) (string, error) {
	value := ""
	field := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&value)
	return value, p.run(field)
}

func (p *HuhPrompter) run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.accessible).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
