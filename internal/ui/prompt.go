package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrSelectionCancelled is returned when the user aborts a prompt.
var ErrSelectionCancelled = errors.New("selection cancelled by user")

// Selector picks one item from a list.
type Selector interface {
	Select(label string, items []string) (int, string, error)
}

// PromptSelector is the interactive promptui implementation of Selector.
type PromptSelector struct {
	Size int
}

// Select presents items with fuzzy type-to-filter search.
func (p PromptSelector) Select(label string, items []string) (int, string, error) {
	size := p.Size
	if size <= 0 {
		size = 10
	}

	prompt := promptui.Select{
		Label:    label,
		Items:    items,
		Size:     size,
		Searcher: FuzzySearcher(items),
	}

	index, result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return -1, "", ErrSelectionCancelled
		}
		return -1, "", fmt.Errorf("prompt: %w", err)
	}

	return index, result, nil
}

// FuzzySearcher returns a promptui searcher matching input against items.
func FuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if index < 0 || index >= len(items) {
			return false
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return true
		}
		return fuzzy.MatchNormalizedFold(input, items[index])
	}
}
