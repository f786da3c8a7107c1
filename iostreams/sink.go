package iostreams

import (
	"bytes"
	"io"
	"os"
)

// Sink is a uniform write interface over streams, an in-memory buffer
// (for test capture), and files.
type Sink interface {
	Write(p []byte) error
	Flush() error
	Name() string
}

// StreamSink wraps an io.Writer, such as os.Stdout or a pipe end.
type StreamSink struct {
	name string
	w    io.Writer
}

// NewStreamSink wraps w as a Sink named name.
func NewStreamSink(name string, w io.Writer) *StreamSink {
	return &StreamSink{name: name, w: w}
}

func (s *StreamSink) Name() string { return s.name }

func (s *StreamSink) Write(p []byte) error {
	_, err := s.w.Write(p)
	if err != nil {
		return &IOError{Name: s.name, Err: err}
	}
	return nil
}

func (s *StreamSink) Flush() error {
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// StringSink accumulates writes into an in-memory buffer, for test
// capture of a statement's or a session's output.
type StringSink struct {
	name string
	buf  bytes.Buffer
}

// NewStringSink returns a StringSink named name.
func NewStringSink(name string) *StringSink {
	return &StringSink{name: name}
}

func (s *StringSink) Name() string { return s.name }

func (s *StringSink) Write(p []byte) error {
	s.buf.Write(p)
	return nil
}

func (s *StringSink) Flush() error { return nil }

// String returns everything written so far.
func (s *StringSink) String() string { return s.buf.String() }

// FileSink writes to a path on disk, either truncating or appending.
type FileSink struct {
	path string
	f    *os.File
}

// NewFileSink opens path for writing. append selects O_APPEND over
// O_TRUNC; both create the file if missing.
func NewFileSink(path string, append bool) (*FileSink, error) {
	flag := os.O_WRONLY | os.O_CREATE
	if append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, &IOError{Name: path, Err: err}
	}
	return &FileSink{path: path, f: f}, nil
}

func (s *FileSink) Name() string { return s.path }

func (s *FileSink) Write(p []byte) error {
	if _, err := s.f.Write(p); err != nil {
		return &IOError{Name: s.path, Err: err}
	}
	return nil
}

func (s *FileSink) Flush() error {
	return s.f.Sync()
}

// Close flushes and closes the underlying file. File sinks flush on
// close, per the output-destination contract.
func (s *FileSink) Close() error {
	s.Flush()
	return s.f.Close()
}
