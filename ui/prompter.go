package ui

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrQuit is returned by a Prompter when the user interrupts input or the
// input stream ends.
var ErrQuit = errors.New("interrupted by user")

// Prompter collects raw answers from the user
type Prompter interface {
	Ask(label string, defaultValue string) (string, error)
	Select(label string, items []string) (int, error)
	// Confirm defaults to no
	Confirm(label string) (bool, error)
}

// TerminalPrompter asks on the terminal through promptui
type TerminalPrompter struct{}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

func (p *TerminalPrompter) Ask(label string, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", quit(err)
	}
	return strings.TrimSpace(answer), nil
}

func (p *TerminalPrompter) Select(label string, items []string) (int, error) {
	selector := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	index, _, err := selector.Run()
	if err != nil {
		return -1, quit(err)
	}
	return index, nil
}

func (p *TerminalPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, quit(err)
	}
	return true, nil
}

func quit(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrQuit
	}
	return err
}
