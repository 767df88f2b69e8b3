// Package env implements the nested binding environment that scope
// analysis builds and later phases read from.
//
// Following spec.md §9's design note, entries live in a single arena
// (EntryID is a stable, never-reused index) so that VarSet can be a
// bitset indexed by EntryID instead of a hash set of pointers.
package env

import "github.com/minilang/minic/internal/types"

// EntryID is a stable index into an Env's entry arena.
type EntryID int

// ErrEntry is the synthetic binding used by scope analysis to recover
// from an UndeclaredId error, so downstream phases keep running.
const ErrEntry EntryID = -1

// Entry records one resolved binding: its declared type and, once
// codegen has run, its stack frame slot (a negative byte offset from
// %ebp).
type Entry struct {
	Name string
	Type types.Type
	// Slot is the frame offset assigned during codegen; zero until set.
	Slot int
}

// Env is a stack of frames over a shared entry arena. Frames are
// pushed on block entry and popped on block exit, including on error
// paths, by the caller using Push/Pop in a defer.
type Env struct {
	arena  []Entry
	frames []frame
}

type frame struct {
	names map[string]EntryID
}

// New creates an environment with a single top-level frame.
func New() *Env {
	e := &Env{}
	e.Push()
	return e
}

// Push opens a new, innermost frame.
func (e *Env) Push() {
	e.frames = append(e.frames, frame{names: make(map[string]EntryID)})
}

// Pop discards the innermost frame. It is a no-op below the root frame.
func (e *Env) Pop() {
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

// Depth reports the number of frames currently on the stack.
func (e *Env) Depth() int { return len(e.frames) }

// DeclaredLocally reports whether name is already bound in the innermost
// frame, the condition scope analysis uses to raise DuplicateDecl.
func (e *Env) DeclaredLocally(name string) bool {
	_, ok := e.frames[len(e.frames)-1].names[name]
	return ok
}

// Declare adds a new entry for name/typ to the innermost frame and
// returns its id. Callers must have already checked DeclaredLocally.
func (e *Env) Declare(name string, typ types.Type) EntryID {
	id := EntryID(len(e.arena))
	e.arena = append(e.arena, Entry{Name: name, Type: typ})
	e.frames[len(e.frames)-1].names[name] = id
	return id
}

// Lookup walks outer frames from innermost to outermost, returning the
// first match, or ErrEntry if name is unbound anywhere.
func (e *Env) Lookup(name string) EntryID {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if id, ok := e.frames[i].names[name]; ok {
			return id
		}
	}
	return ErrEntry
}

// Entry returns the arena record for id. Looking up ErrEntry panics:
// callers must check for ErrEntry before dereferencing.
func (e *Env) Entry(id EntryID) *Entry {
	return &e.arena[id]
}

// NumEntries returns the total number of entries ever declared, i.e.
// the size VarSet's bitset must be able to index.
func (e *Env) NumEntries() int { return len(e.arena) }

// SetSlot records a stack frame offset for id, assigned by codegen.
func (e *Env) SetSlot(id EntryID, slot int) {
	if id == ErrEntry {
		return
	}
	e.arena[id].Slot = slot
}
