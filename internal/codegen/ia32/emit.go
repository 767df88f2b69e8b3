// Package ia32 implements the emitter and code generator of spec.md
// §4.5/§4.6: a register-allocation-aware IA-32 code generator that
// produces AT&T-syntax 32-bit assembly text.
package ia32

import (
	"fmt"
	"strings"
)

// WORDSIZE is the size in bytes of a 32-bit word on this target.
const WORDSIZE = 4

// NREGS is the number of general-purpose registers the generator
// treats as allocatable.
const NREGS = 4

// registerNames maps register indices 0..NREGS-1 to their IA-32 names,
// per spec.md §6's fixed, non-overlapping mapping.
var registerNames = [NREGS]string{"%eax", "%ecx", "%edx", "%ebx"}

// Emitter accumulates assembly text and hands out fresh labels. It
// owns an append-only buffer, matching spec.md §5's resource model.
type Emitter struct {
	buf       strings.Builder
	labelNext int
}

// NewEmitter returns an Emitter with an empty output buffer.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// NewLabel returns a fresh, monotonically-numbered label name.
func (e *Emitter) NewLabel() string {
	lab := fmt.Sprintf(".L%d", e.labelNext)
	e.labelNext++
	return lab
}

// Reg returns the assembly name of register index i.
func (e *Emitter) Reg(i int) string {
	return registerNames[i]
}

// Emit writes one instruction line: an opcode followed by comma-joined
// operands.
func (e *Emitter) Emit(op string, args ...string) {
	e.buf.WriteString("\t")
	e.buf.WriteString(op)
	if len(args) > 0 {
		e.buf.WriteString("\t")
		e.buf.WriteString(strings.Join(args, ", "))
	}
	e.buf.WriteByte('\n')
}

// EmitLabel writes a label definition line.
func (e *Emitter) EmitLabel(lab string) {
	e.buf.WriteString(lab)
	e.buf.WriteString(":\n")
}

// EmitRaw writes a line verbatim (used for directives and comments).
func (e *Emitter) EmitRaw(line string) {
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Call emits a call to name. argBytes is unused by the instruction
// itself (the caller has already pushed arguments); it exists so call
// sites read like the alignment bookkeeping they require.
func (e *Emitter) Call(name string, argBytes int) {
	e.Emit("call", name)
}

// AlignmentAdjust returns the smallest n >= 0 such that
// (bytes + n) is a multiple of 16, spec.md §4.6's alignmentAdjust.
func (e *Emitter) AlignmentAdjust(bytes int) int {
	rem := bytes % 16
	if rem == 0 {
		return 0
	}
	return 16 - rem
}

// InsertAdjust emits a stack-pointer decrement of n bytes, if n > 0.
func (e *Emitter) InsertAdjust(n int) {
	if n > 0 {
		e.Emit("subl", fmt.Sprintf("$%d", n), "%esp")
	}
}

// RemoveAdjust emits a stack-pointer increment of n bytes, if n > 0.
func (e *Emitter) RemoveAdjust(n int) {
	if n > 0 {
		e.Emit("addl", fmt.Sprintf("$%d", n), "%esp")
	}
}

// String returns the accumulated assembly text.
func (e *Emitter) String() string {
	return e.buf.String()
}
