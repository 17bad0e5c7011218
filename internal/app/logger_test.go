package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerHandlerSelection(t *testing.T) {
	h := NewLogger(&Config{LogFormat: "json"}).Handler()
	_, ok := h.(*slog.JSONHandler)
	assert.True(t, ok, "json format selects the JSON handler")

	h = NewLogger(&Config{LogFormat: "pretty"}).Handler()
	_, ok = h.(*slog.TextHandler)
	assert.True(t, ok, "any other format selects the text handler")

	h = NewLogger(nil).Handler()
	_, ok = h.(*slog.TextHandler)
	assert.True(t, ok, "nil config still yields a usable logger")
}
