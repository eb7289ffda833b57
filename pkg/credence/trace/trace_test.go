package trace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBufferCollectsAndResets(t *testing.T) {
	var b Buffer

	b.Write("one")
	b.Write("two")
	if got := b.Lines(); len(got) != 2 || got[0] != "one" {
		t.Fatalf("unexpected lines %v", got)
	}

	b.Reset()
	if got := b.Lines(); len(got) != 0 {
		t.Errorf("expected no lines after reset, got %v", got)
	}
}

func TestBufferLinesIsACopy(t *testing.T) {
	var b Buffer
	b.Write("one")

	lines := b.Lines()
	lines[0] = "mutated"

	if got := b.Lines()[0]; got != "one" {
		t.Errorf("mutating the returned slice changed the buffer: %q", got)
	}
}

func TestFileSinkHoldsOnlyLatestRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	sink := NewFileSink(path)
	defer sink.Close()

	first := NewRecorder(sink)
	first.Stepf("old line %d", 1)
	first.Stepf("old line %d", 2)

	second := NewRecorder(sink)
	second.Stepf("fresh line")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "old line") {
		t.Errorf("file still holds the first recording:\n%s", content)
	}
	if content != "fresh line\n" {
		t.Errorf("file content = %q, want %q", content, "fresh line\n")
	}
}

func TestFileSinkAppendsWithoutReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	sink := NewFileSink(path)

	sink.Write("a")
	sink.Write("b")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "a\nb\n" {
		t.Errorf("file content = %q, want %q", string(data), "a\nb\n")
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b Buffer
	sink := Multi(&a, nil, &b)

	if err := sink.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := sink.Write("line"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if got := a.Lines(); len(got) != 1 || got[0] != "line" {
		t.Errorf("first sink got %v", got)
	}
	if got := b.Lines(); len(got) != 1 || got[0] != "line" {
		t.Errorf("second sink got %v", got)
	}
}

func TestRecorderWithoutSink(t *testing.T) {
	r := NewRecorder(nil)
	r.Stepf("P(%s=%s) = %.4f", "Rain", "true", 0.2)
	r.Blank()

	got := r.Lines()
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %v", got)
	}
	if got[0] != "P(Rain=true) = 0.2000" {
		t.Errorf("line = %q", got[0])
	}
	if got[1] != "" {
		t.Errorf("expected a blank separator, got %q", got[1])
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

// failSink fails every write after the first
type failSink struct {
	writes int
}

func (f *failSink) Reset() error { return nil }

func (f *failSink) Write(line string) error {
	f.writes++
	if f.writes > 1 {
		return errors.New("disk full")
	}
	return nil
}

func TestRecorderSticksOnSinkFailure(t *testing.T) {
	sink := &failSink{}
	r := NewRecorder(sink)

	r.Stepf("ok")
	r.Stepf("fails")
	r.Stepf("never reaches the sink")

	if r.Err() == nil {
		t.Fatal("expected a sticky error")
	}
	if sink.writes != 2 {
		t.Errorf("sink saw %d writes after the failure, want 2", sink.writes)
	}

	// The in-memory record is still complete
	if got := r.Lines(); len(got) != 3 {
		t.Errorf("expected all 3 lines in memory, got %v", got)
	}
}
