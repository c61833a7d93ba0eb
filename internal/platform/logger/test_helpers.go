package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// credentialFragmentLen is the shortest credential fragment treated as a leak.
const credentialFragmentLen = 8

// LogEntry is one decoded JSON log line.
type LogEntry map[string]any

// Message returns the entry's msg attribute.
func (e LogEntry) Message() string {
	msg, _ := e[slog.MessageKey].(string)
	return msg
}

// TestLogBuffer collects JSON log lines written by concurrent callers.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset drops everything captured so far.
func (b *TestLogBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// GetLogEntries decodes every non-blank line in the buffer.
func (b *TestLogBuffer) GetLogEntries() ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(strings.NewReader(b.String()))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("decode log line %q: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// FindEntry returns the first entry whose message equals msg.
func (b *TestLogBuffer) FindEntry(msg string) (LogEntry, bool) {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil, false
	}
	for _, e := range entries {
		if e.Message() == msg {
			return e, true
		}
	}
	return nil, false
}

// GetTestLogger returns a debug-level JSON logger and the buffer it writes to.
func GetTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()

	buf := &TestLogBuffer{}
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, buf
}

func AssertLogContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()

	if logs := buf.String(); !strings.Contains(logs, content) {
		t.Errorf("expected log to contain %q\nlogs:\n%s", content, logs)
	}
}

func AssertLogNotContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()

	if logs := buf.String(); strings.Contains(logs, content) {
		t.Errorf("expected log not to contain %q\nlogs:\n%s", content, logs)
	}
}

// AssertCredentialAbsent fails when the credential, or any fragment of it at
// least credentialFragmentLen runes long, shows up in the captured logs.
func AssertCredentialAbsent(t *testing.T, buf *TestLogBuffer, credential string) {
	t.Helper()

	logs := buf.String()
	runes := []rune(credential)
	if len(runes) < credentialFragmentLen {
		AssertLogNotContains(t, buf, credential)
		return
	}
	for i := 0; i+credentialFragmentLen <= len(runes); i++ {
		fragment := string(runes[i : i+credentialFragmentLen])
		if strings.Contains(logs, fragment) {
			t.Errorf("credential fragment %q leaked into logs\nlogs:\n%s", fragment, logs)
			return
		}
	}
}
