// Package syscall adapts the nachosfs facade to the outward syscall table
// of spec.md §6: Create, Open, Read, Write, Close, Halt. It is a thin
// dispatch layer with no storage logic of its own, mirroring the shape of
// go-diskfs's serve-image example, which adapts the same facade to an
// outward HTTP surface instead of a syscall table.
package syscall

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/PinYuan/nachosfs"
	"github.com/PinYuan/nachosfs/fserrors"
	"github.com/PinYuan/nachosfs/openfile"
)

// Table is the open-file-descriptor-keyed syscall surface a Nachos user
// program sees, backed by one nachosfs.FileSystem.
type Table struct {
	fs  *nachosfs.FileSystem
	log logrus.FieldLogger
}

// New wraps fs as a syscall Table.
func New(fs *nachosfs.FileSystem) *Table {
	return &Table{fs: fs, log: logrus.StandardLogger()}
}

// Create implements the Create syscall: make a regular file of size bytes
// at path. Size is fixed at creation — spec.md's Non-goals exclude
// file-size growth after creation, so callers must size the file for
// everything they intend to Write.
func (t *Table) Create(path string, size int) error {
	return t.fs.Create(path, size, false)
}

// Open implements the Open syscall, returning the descriptor id a
// subsequent Read/Write/Close call addresses.
func (t *Table) Open(path string) (int, error) {
	_, id, err := t.fs.Open(path)
	if err != nil {
		return -1, err
	}
	return id, nil
}

// Read implements the Read syscall: up to len(buf) bytes from descriptor id
// at its current cursor.
func (t *Table) Read(id int, buf []byte) (int, error) {
	f, err := t.handle(id)
	if err != nil {
		return 0, err
	}
	n, err := f.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

// Write implements the Write syscall: writes buf to descriptor id at its
// current cursor.
func (t *Table) Write(id int, buf []byte) (int, error) {
	f, err := t.handle(id)
	if err != nil {
		return 0, err
	}
	return f.Write(buf)
}

// Close implements the Close syscall.
func (t *Table) Close(id int) error {
	if !t.fs.Close(id) {
		return fmt.Errorf("syscall: close: %w", fserrors.ErrNotFound)
	}
	return nil
}

// Halt implements the Halt syscall: nachosfs keeps no process-independent
// state beyond the FileSystem itself, so Halt is a log line and nothing
// else — there is no user-program scheduler in this module to stop.
func (t *Table) Halt() {
	t.log.Info("syscall: halt")
}

func (t *Table) handle(id int) (*openfile.File, error) {
	f := t.fs.Descriptor(id)
	if f == nil {
		return nil, fmt.Errorf("syscall: %w", fserrors.ErrNotFound)
	}
	return f, nil
}
