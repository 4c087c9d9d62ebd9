package command

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	never := newStyles(&buf, "never")
	assert.False(t, never.enabled)
	assert.Equal(t, "scout", never.Action("scout"))
	assert.Equal(t, "plancost = 4", never.Header("plancost = 4"))

	always := newStyles(&buf, "ALWAYS")
	assert.True(t, always.enabled)
	assert.Contains(t, always.Failure("boom"), "boom")
	assert.Equal(t, "", always.State(""))

	// a buffer is never a terminal
	auto := newStyles(&buf, "auto")
	assert.False(t, auto.enabled)
	assert.False(t, strings.ContainsRune(auto.Muted("x"), '\x1b'))
}
