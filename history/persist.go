package history

import (
	"bufio"
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// SaveFile writes the ring's entries to path, one per line, atomically:
// the file is written to a temporary sibling and renamed into place,
// so a crash or concurrent reader never observes a half-written
// history file. This is not part of §4.H's core contract; it is the
// persistence layer a real interactive session needs between runs,
// built the way the donor values crash-safe file replacement.
func (r *Ring) SaveFile(path string) error {
	var sb strings.Builder
	for _, line := range r.Items() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return renameio.WriteFile(path, []byte(sb.String()), 0o600)
}

// LoadFile replaces the ring's contents with the lines stored at path,
// preserving the ring's configured maximum. A missing file is treated
// as empty history, not an error.
func (r *Ring) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	max := r.max
	if max <= 0 {
		max = DefaultMax
	}
	fresh := New(max)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fresh.Push(line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	*r = *fresh
	return nil
}
