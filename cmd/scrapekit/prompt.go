package main

import (
	"strings"

	"github.com/tcnksm/go-input"
)

// asker asks for a value on the terminal.
type asker interface {
	Ask(query string, opts *input.Options) (string, error)
}

var ui asker = input.DefaultUI()

// askIfEmpty returns value, or prompts for it when value is blank.
func askIfEmpty(value, query string, required bool) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	answer, err := ui.Ask(query, &input.Options{Required: required, Loop: required, HideOrder: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
