package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithCartID(ctx, "cart-1")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-123"`)) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"cart_id":"cart-1"`)) {
		t.Fatalf("expected cart_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack when warn stack enabled")
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Output: buf})
	quiet.Warn(context.Background(), "warny")
	if bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("did not expect stack when warn stack disabled")
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}

func TestFieldsDoNotLeakBetweenContexts(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})

	base := context.Background()
	_ = log.WithUserID(base, "user-1")
	log.Info(base, "plain")

	if bytes.Contains(buf.Bytes(), []byte("user-1")) {
		t.Fatalf("parent context should not carry child fields; entry=%s", buf.String())
	}
}

func TestSensitiveFieldsAreRedacted(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})

	ctx := log.WithField(context.Background(), "refresh_token", "secret-refresh")
	ctx = log.WithFields(ctx, map[string]any{"Password": "hunter22", "email": "kai@example.com"})
	log.Info(ctx, "login")

	if bytes.Contains(buf.Bytes(), []byte("secret-refresh")) || bytes.Contains(buf.Bytes(), []byte("hunter22")) {
		t.Fatalf("sensitive values leaked; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"email":"kai@example.com"`)) {
		t.Fatalf("expected non-sensitive field; entry=%s", buf.String())
	}
}

func TestConsoleFormatAndEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: "console", Level: zerolog.WarnLevel})
	log.Warn(context.Background(), "careful")

	if bytes.HasPrefix(buf.Bytes(), []byte("{")) {
		t.Fatalf("expected console output; entry=%s", buf.String())
	}
	if log.Enabled(zerolog.InfoLevel) || !log.Enabled(zerolog.ErrorLevel) {
		t.Fatalf("unexpected Enabled result for warn logger")
	}
	if Nop().Enabled(zerolog.ErrorLevel) {
		t.Fatalf("nop logger should be disabled")
	}
}
