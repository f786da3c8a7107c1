package iostreams

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/wsollers/wshell/policy"
)

func TestStringSourceRead(t *testing.T) {
	c := qt.New(t)
	src := NewStringSource("test", "hello world", policy.Default())
	got, err := src.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hello world")
}

func TestStringSourceTooLarge(t *testing.T) {
	c := qt.New(t)
	pol := &policy.Policy{MaxContentSize: 4, MaxLineLength: 100}
	src := NewStringSource("test", "hello world", pol)
	_, err := src.Read()
	c.Assert(err, qt.Equals, ErrTooLarge)
}

func TestStreamSourceReadLine(t *testing.T) {
	c := qt.New(t)
	src := NewStreamSource("stdin", strings.NewReader("one\ntwo\nthree"), policy.Default())
	for _, want := range []string{"one", "two", "three"} {
		got, err := src.ReadLine()
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, want)
	}
	_, err := src.ReadLine()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestFileSourceBoundary(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "rc")

	pol := &policy.Policy{MaxContentSize: 8, MaxLineLength: 100}
	c.Assert(os.WriteFile(path, []byte("12345678"), 0o644), qt.IsNil)
	src := NewFileSource(path, pol)
	got, err := src.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "12345678")

	c.Assert(os.WriteFile(path, []byte("123456789"), 0o644), qt.IsNil)
	_, err = src.Read()
	c.Assert(err, qt.Not(qt.IsNil))
}
