package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGenerateID(t *testing.T) {
	t.Run("returns unique values", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			id := GenerateID()
			if seen[id] {
				t.Fatalf("duplicate id generated: %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("uuid shape", func(t *testing.T) {
		id := GenerateID()
		if len(id) != 36 {
			t.Errorf("expected 36 character uuid, got %d (%s)", len(id), id)
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("writes to provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !bytes.Contains(buf.Bytes(), []byte("hello")) {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger")
		}
	})

	t.Run("child logger carries fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		child := WithLogger(logger, "component", "test")
		child.Info("tagged")

		if !bytes.Contains(buf.Bytes(), []byte("component")) {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("suppressed")

		if bytes.Contains(buf.Bytes(), []byte("suppressed")) {
			t.Errorf("expected info output to be suppressed, got %q", buf.String())
		}
	})
}
