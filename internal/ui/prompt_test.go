package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzySearcher(t *testing.T) {
	items := []string{"1.10.0", "1.5.7", "0.15.5"}
	search := FuzzySearcher(items)

	assert.True(t, search("", 0))
	assert.True(t, search("157", 1))
	assert.True(t, search("1.5", 1))
	assert.False(t, search("9", 1))
	assert.False(t, search("1", -1))
	assert.False(t, search("1", 3))
}

func TestPromptSelectorImplementsSelector(t *testing.T) {
	var _ Selector = PromptSelector{}
}
