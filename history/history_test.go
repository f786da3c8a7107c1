package history

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPushAndItems(t *testing.T) {
	c := qt.New(t)
	r := New(3)
	r.Push("a")
	r.Push("b")
	c.Assert(r.Items(), qt.DeepEquals, []string{"a", "b"})
	c.Assert(r.Len(), qt.Equals, 2)
	c.Assert(r.Empty(), qt.IsFalse)
}

func TestEvictionIsFIFO(t *testing.T) {
	c := qt.New(t)
	r := New(2)
	r.Push("a")
	r.Push("b")
	r.Push("c")
	c.Assert(r.Items(), qt.DeepEquals, []string{"b", "c"})
	c.Assert(r.Len(), qt.Equals, 2)
}

func TestSetMaxZeroResetsToDefault(t *testing.T) {
	c := qt.New(t)
	r := New(5)
	r.SetMax(0)
	c.Assert(r.Max(), qt.Equals, DefaultMax)
}

func TestSetMaxShrinkKeepsNewest(t *testing.T) {
	c := qt.New(t)
	r := New(5)
	r.Push("a")
	r.Push("b")
	r.Push("c")
	r.SetMax(2)
	c.Assert(r.Items(), qt.DeepEquals, []string{"b", "c"})
	c.Assert(r.Max(), qt.Equals, 2)
}

func TestSetMaxGrowPreservesOrder(t *testing.T) {
	c := qt.New(t)
	r := New(2)
	r.Push("a")
	r.Push("b")
	r.SetMax(4)
	r.Push("c")
	c.Assert(r.Items(), qt.DeepEquals, []string{"a", "b", "c"})
}

func TestEmptyRing(t *testing.T) {
	c := qt.New(t)
	r := New(3)
	c.Assert(r.Empty(), qt.IsTrue)
	c.Assert(r.Items(), qt.DeepEquals, []string{})
}

func TestSaveAndLoadFile(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	r := New(5)
	r.Push("echo one")
	r.Push("echo two")
	c.Assert(r.SaveFile(path), qt.IsNil)

	loaded := New(5)
	c.Assert(loaded.LoadFile(path), qt.IsNil)
	c.Assert(loaded.Items(), qt.DeepEquals, []string{"echo one", "echo two"})
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	c := qt.New(t)
	r := New(5)
	c.Assert(r.LoadFile(filepath.Join(t.TempDir(), "nope")), qt.IsNil)
	c.Assert(r.Empty(), qt.IsTrue)
}
