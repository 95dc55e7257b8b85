// Package engine implements the command engine: it interprets the
// five editing commands, owns the arena and version index, and
// collapses runs of undo/redo commands to their net displacement.
//
// The shape of Engine.Run — a loop reading one Command at a time and
// dispatching on its Kind, with undo/redo breaking into a dedicated
// sub-loop rather than scattered flag checks — follows the same
// "Do" dispatch the teacher's edit.Editor.Do uses to separate the
// ordinary edit path from its undo/redo path (edit/editor.go).
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/fkessler/vedit/arena"
	"github.com/fkessler/vedit/command"
	"github.com/fkessler/vedit/version"
)

// ErrBadChange is returned when a change command's start address
// leaves a gap beyond the current document length. spec.md leaves this
// case outside the grammar; this implementation rejects it rather than
// silently doing something unspecified.
var ErrBadChange = errors.New("engine: change leaves a gap past the end of the document")

// An Engine holds one document's arena and version index and
// interprets commands against it.
type Engine struct {
	arena    *arena.Arena
	versions *version.Index
}

// New returns a new Engine with an empty document at version 0.
func New() *Engine {
	return &Engine{arena: arena.New(), versions: version.New()}
}

// Cursor returns the current version number, for tests and the
// server's change-notification channel.
func (e *Engine) Cursor() int64 { return e.versions.Cursor() }

// Run reads commands from r and writes Print output to w until it
// reads q or reaches the end of r. A rejected change (ErrBadChange) is
// reported to w and the loop continues, the same way ted.go prints an
// edit error and keeps reading rather than exiting. Run returns the
// first I/O or syntax error encountered, or nil on a clean q/EOF.
func (e *Engine) Run(r io.Reader, w io.Writer) error {
	sc := command.NewScanner(r)
	var pending *command.Command
	for {
		var cmd command.Command
		if pending != nil {
			cmd = *pending
			pending = nil
		} else {
			c, err := sc.ReadCommand()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			cmd = c
		}

		switch cmd.Kind {
		case command.Quit:
			return nil

		case command.Undo, command.Redo:
			next, err := e.runBatch(sc, cmd)
			if err != nil {
				return err
			}
			pending = next

		case command.Change:
			lines, err := sc.ReadLines(cmd.End - cmd.Start + 1)
			if err != nil {
				return err
			}
			if err := e.Change(cmd.Start, cmd.End, lines); err != nil {
				fmt.Fprintln(w, err)
				continue
			}

		case command.Delete:
			e.Delete(cmd.Start, cmd.End)

		case command.Print:
			e.Print(w, cmd.Start, cmd.End)
		}
	}
}

// Change implements the "start,end c" command (spec.md §4.3).
// len(lines) must equal end-start+1.
func (e *Engine) Change(start, end int64, lines [][]byte) error {
	if start < 1 || end < start {
		return ErrBadChange
	}
	cur := e.versions.Current()
	l := cur.Length()
	if start > l+1 {
		return ErrBadChange
	}

	e.dropFuture(cur)

	newBegin := e.arena.Len()
	for i := int64(1); i < start; i++ {
		e.arena.AppendRef(e.arena.Get(cur.Begin + i - 1))
	}
	for i := start; i <= end; i++ {
		e.arena.AppendRef(arena.Line(lines[i-start]))
	}
	for i := end + 1; i <= l; i++ {
		e.arena.AppendRef(e.arena.Get(cur.Begin + i - 1))
	}
	newEnd := e.arena.Len() - 1

	e.versions.Push(version.Range{Begin: newBegin, End: newEnd})
	return nil
}

// Delete implements the "start,end d" command (spec.md §4.3).
//
// Whenever the resulting document would be empty — either because the
// whole document was deleted (s==1 && en==l) or because the addressed
// range was already out of range on an already-empty document — the
// new version is given the single-slot sentinel encoding, which
// unifies what spec.md describes as two separate cases into one: both
// are exactly "the new length is zero".
func (e *Engine) Delete(start, end int64) {
	cur := e.versions.Current()
	l := cur.Length()
	s, en := start, end
	if s < 1 {
		s = 1
	}
	if en > l {
		en = l
	}
	outOfRange := en < 1 || start > l

	e.dropFuture(cur)

	var newLen int64
	if outOfRange {
		newLen = l
	} else {
		newLen = l - (en - s + 1)
	}

	if newLen == 0 {
		slot := e.arena.AppendRef(arena.SentinelLine)
		e.versions.Push(version.Range{Begin: slot, End: slot, Empty: true})
		return
	}

	newBegin := e.arena.Len()
	if outOfRange {
		for i := int64(1); i <= l; i++ {
			e.arena.AppendRef(e.arena.Get(cur.Begin + i - 1))
		}
	} else {
		for i := int64(1); i < s; i++ {
			e.arena.AppendRef(e.arena.Get(cur.Begin + i - 1))
		}
		for i := en + 1; i <= l; i++ {
			e.arena.AppendRef(e.arena.Get(cur.Begin + i - 1))
		}
	}
	newEnd := e.arena.Len() - 1
	e.versions.Push(version.Range{Begin: newBegin, End: newEnd})
}

// dropFuture discards any redo future in the version index and
// truncates the arena's logical length back down to exactly the slots
// owned by cur (the version about to be mutated from), so that the
// next AppendRef reuses the stale tail left by an undone edit instead
// of growing the arena unboundedly. This is what keeps a
// mutate-after-undo proportional to the data it touches, per
// spec.md §8's "monotone arena" property.
func (e *Engine) dropFuture(cur version.Range) {
	e.versions.DropFuture()
	n := cur.End + 1
	if cur.Begin > cur.End {
		n = 0
	}
	e.arena.TruncateTo(n)
}

// Print implements the "start,end p" command (spec.md §4.3).
// Out-of-range positions are printed as the literal line ".\n".
func (e *Engine) Print(w io.Writer, start, end int64) {
	cur := e.versions.Current()
	l := cur.Length()
	for i := start; i <= end; i++ {
		if i < 1 || i > l {
			io.WriteString(w, ".\n")
			continue
		}
		w.Write(e.arena.Get(cur.Begin + i - 1))
	}
}

// runBatch consumes a run of consecutive undo/redo commands starting
// with first, collapsing them to their net displacement per
// spec.md §4.3, then commits that displacement in a single cursor
// move. It returns the first non-undo/redo command it read (to be
// processed by the caller's main loop) or nil at EOF.
func (e *Engine) runBatch(sc *command.Scanner, first command.Command) (*command.Command, error) {
	undoAvail := e.versions.Cursor()
	redoAvail := e.versions.High() - e.versions.Cursor()
	var net int64

	cmd := first
	for {
		switch cmd.Kind {
		case command.Undo:
			accepted := min(cmd.Start, undoAvail)
			net += accepted
			undoAvail -= accepted
			redoAvail += accepted
		case command.Redo:
			accepted := min(cmd.Start, redoAvail)
			net -= accepted
			redoAvail -= accepted
			undoAvail += accepted
		default:
			e.versions.SetCursor(e.versions.Cursor() - net)
			c := cmd
			return &c, nil
		}

		c, err := sc.ReadCommand()
		if err == io.EOF {
			e.versions.SetCursor(e.versions.Cursor() - net)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		cmd = c
	}
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
