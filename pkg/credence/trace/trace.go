package trace

import (
	"fmt"
	"os"
)

// Sink receives the lines of one inference computation. Reset is called at
// the start of every computation so a sink only ever holds the latest one.
type Sink interface {
	Reset() error
	Write(line string) error
}

// Buffer is an in-memory sink
type Buffer struct {
	lines []string
}

// Reset discards previously collected lines
func (b *Buffer) Reset() error {
	b.lines = b.lines[:0]
	return nil
}

// Write appends one line
func (b *Buffer) Write(line string) error {
	b.lines = append(b.lines, line)
	return nil
}

// Lines returns a copy of the collected lines
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// FileSink appends trace lines to a file. Reset truncates the file, so it
// holds exactly the lines of the latest computation.
type FileSink struct {
	path string
	f    *os.File
}

// NewFileSink creates a sink writing to path. The file is only touched on
// the first Reset or Write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Reset truncates the file, creating it if needed
func (s *FileSink) Reset() error {
	if s.f != nil {
		if err := s.f.Close(); err != nil {
			return err
		}
		s.f = nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	s.f = f
	return nil
}

// Write appends one line to the file
func (s *FileSink) Write(line string) error {
	if s.f == nil {
		f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		s.f = f
	}
	_, err := fmt.Fprintln(s.f, line)
	return err
}

// Close releases the file handle. The sink can be reused; the next Reset or
// Write reopens the file.
func (s *FileSink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

type multi []Sink

// Multi returns a sink that forwards to every given sink, skipping nils.
// The first error stops the fan-out.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Reset() error {
	for _, s := range m {
		if err := s.Reset(); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Write(line string) error {
	for _, s := range m {
		if err := s.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// Recorder formats and distributes the steps of one computation. It keeps
// every line in memory and forwards each to an optional sink. Sink failures
// stick: the first one is kept and reported by Err, later steps stop
// reaching the sink.
type Recorder struct {
	sink  Sink
	lines []string
	err   error
}

// NewRecorder starts a recording. When a sink is given it is reset here, so
// the recording owns the sink's contents from this point on.
func NewRecorder(sink Sink) *Recorder {
	r := &Recorder{sink: sink}
	if sink != nil {
		r.err = sink.Reset()
	}
	return r
}

// Stepf records one formatted line
func (r *Recorder) Stepf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	r.lines = append(r.lines, line)
	if r.sink != nil && r.err == nil {
		r.err = r.sink.Write(line)
	}
}

// Blank records an empty separator line
func (r *Recorder) Blank() {
	r.Stepf("")
}

// Lines returns a copy of everything recorded so far
func (r *Recorder) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Err returns the first sink failure, if any
func (r *Recorder) Err() error {
	return r.err
}
