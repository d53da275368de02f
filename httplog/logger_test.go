package httplog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("ignored", "k", "v")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")
	assert.Equal(t, l, l.With("a", 1))
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogAdapter(slog.New(handler))

	logger.Info("resolved reference", "ref", "base.json#/request")
	out := buf.String()
	assert.True(t, strings.Contains(out, "resolved reference"))
	assert.True(t, strings.Contains(out, "base.json#/request"))
}

func TestSlogAdapterNilUsesDefault(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	assert.NotNil(t, adapter)
}

func TestSlogAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogAdapter(slog.New(handler)).With("scenario", "login")

	logger.Debug("loading")
	assert.True(t, strings.Contains(buf.String(), "scenario=login"))
}
