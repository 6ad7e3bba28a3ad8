package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("output missing message: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	ctx := WithContext(context.Background(), log)

	ctxLog := FromContext(ctx)
	ctxLog.Info().Msg("via context")

	if !strings.Contains(buf.String(), "via context") {
		t.Error("logger from context did not write to the attached writer")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("fallback logger must be enabled")
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	fieldLog := WithFields(log, map[string]interface{}{
		"document_id": "123",
		"action":      "analyze",
	})
	fieldLog.Info().Msg("field test")

	out := buf.String()
	if !strings.Contains(out, "document_id") || !strings.Contains(out, "analyze") {
		t.Errorf("output missing fields: %s", out)
	}
}
