package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pagereader/internal/config"
	"pagereader/internal/pager"
	"pagereader/internal/storage"
)

type memoryRecorder struct {
	events []*storage.FetchEvent
	err    error
}

func (m *memoryRecorder) Record(_ context.Context, event *storage.FetchEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func newTestReader(t *testing.T, content string, recorder Recorder) *Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write book: %v", err)
	}
	return NewReader(&config.Config{Path: path, Size: 2, Mark: true}, recorder)
}

func TestReaderRead(t *testing.T) {
	ctx := context.Background()

	t.Run("Records successful reads", func(t *testing.T) {
		recorder := &memoryRecorder{}
		reader := newTestReader(t, "a\n\nb\nc\n", recorder)

		lines, err := reader.Read(ctx, "req-1", 1)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !reflect.DeepEqual(lines, []string{"a  n", "b"}) {
			t.Errorf("Unexpected lines: %q", lines)
		}

		if len(recorder.events) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(recorder.events))
		}
		event := recorder.events[0]
		if event.RequestID != "req-1" || event.Page != 1 || event.Size != 2 || event.Lines != 2 {
			t.Errorf("Unexpected event: %+v", event)
		}
		if event.Outcome != storage.OutcomeOK || event.ErrorMessage != nil {
			t.Errorf("Expected ok outcome without message, got %s / %v", event.Outcome, event.ErrorMessage)
		}
	})

	t.Run("Records failures with message", func(t *testing.T) {
		recorder := &memoryRecorder{}
		reader := newTestReader(t, "a\n", recorder)

		_, err := reader.ReadWithSize(ctx, "req-2", 0, 2)
		if !errors.Is(err, pager.ErrInvalidArgument) {
			t.Fatalf("Expected ErrInvalidArgument, got %v", err)
		}
		event := recorder.events[0]
		if event.Outcome != storage.OutcomeInvalidArgument {
			t.Errorf("Expected invalid_argument outcome, got %s", event.Outcome)
		}
		if event.ErrorMessage == nil || *event.ErrorMessage != err.Error() {
			t.Errorf("Expected error message %q, got %v", err.Error(), event.ErrorMessage)
		}
	})

	t.Run("Journal failure does not fail the read", func(t *testing.T) {
		recorder := &memoryRecorder{err: errors.New("disk full")}
		reader := newTestReader(t, "a\n", recorder)

		lines, err := reader.Read(ctx, "req-3", 1)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(lines) != 1 {
			t.Errorf("Expected 1 line, got %d", len(lines))
		}
	})

	t.Run("Nil recorder", func(t *testing.T) {
		reader := newTestReader(t, "a\nb\nc\n", nil)
		lines, err := reader.ReadWithSize(ctx, "req-4", 2, 2)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !reflect.DeepEqual(lines, []string{"c"}) {
			t.Errorf("Unexpected lines: %q", lines)
		}
	})
}
