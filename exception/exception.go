// Package exception implements typed exceptions, the per-thread sink that
// accumulates them, and call-stack frame enrichment on unwind (spec §4.8).
package exception

import (
	"fmt"
	"strings"

	"github.com/qorelang/qcore/value"
	"golang.org/x/xerrors"
)

// Kind distinguishes runtime-raised exceptions (always a string err code)
// from user-raised ones (err may be any value).
type Kind int

const (
	KindSystem Kind = iota
	KindUser
)

// FrameKind tags a call-stack entry's origin.
type FrameKind int

const (
	FrameCall FrameKind = iota
	FrameMethodCall
	FrameRethrow
	FrameSignalHandler
)

// Frame is one call-stack entry, pushed on each evaluator frame unwind
// while an exception is live (spec §4.8).
type Frame struct {
	FrameKind FrameKind
	Class     string // empty for a plain function frame
	Function  string
	File      string
	Source    string
	StartLine int
	EndLine   int
}

// Exception is the typed, chainable error value the evaluator raises and
// propagates. It implements the standard error interface plus
// xerrors.Wrapper so errors.Is/errors.As and golang.org/x/xerrors both
// see through the Next chain.
type Exception struct {
	ExceptionKind Kind
	Err           string // always set for KindSystem; optional label for KindUser
	ErrValue      value.Value
	Desc          string
	Arg           value.Value
	CallStack     []Frame
	Location      string

	// Next chains a cause exception (spec: exceptions may wrap an earlier
	// one when rethrown across a catch boundary that adds context).
	Next *Exception
}

func (e *Exception) Error() string {
	if e.ExceptionKind == KindSystem {
		return fmt.Sprintf("%s: %s", e.Err, e.Desc)
	}
	if e.Err != "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Desc)
	}
	return e.Desc
}

// Unwrap exposes the cause chain to errors.Is/errors.As.
func (e *Exception) Unwrap() error {
	if e.Next == nil {
		return nil
	}
	return e.Next
}

// System constructs a runtime-raised exception with a string err code.
func System(err, desc string, arg value.Value) *Exception {
	return &Exception{ExceptionKind: KindSystem, Err: err, Desc: desc, Arg: arg}
}

// User constructs a user-raised exception carrying an arbitrary error
// value (spec: "User — raised by user code, may carry any err value").
func User(errValue value.Value, desc string, arg value.Value) *Exception {
	return &Exception{ExceptionKind: KindUser, ErrValue: errValue, Desc: desc, Arg: arg}
}

// Wrapf builds a new system exception whose description is produced via
// xerrors.Errorf (so a %w verb wrapping a plain Go error keeps that
// error's frame/Is/As behavior reachable through Desc's formatting),
// chaining cause as Next.
func Wrapf(cause *Exception, err, format string, args ...any) *Exception {
	desc := xerrors.Errorf(format, args...).Error()
	e := System(err, desc, value.Nothing())
	e.Next = cause
	return e
}

// outOfMemory is the pre-allocated exception so that raising "out of
// memory" never itself needs to allocate (spec §4.8). It is one
// package-level instance shared by all threads, not one per thread.
var outOfMemory = System("OUT-OF-MEMORY", "memory allocation failed", value.Nothing())

// OutOfMemory returns the shared pre-allocated out-of-memory exception.
func OutOfMemory() *Exception { return outOfMemory }

// PushFrame appends a call-stack frame to this exception (and every
// exception in its Next chain, matching the source's "every live
// exception in the sink" unwind semantics) — called once per evaluator
// frame as an exception unwinds (spec §4.8).
func (e *Exception) PushFrame(f Frame) {
	for cur := e; cur != nil; cur = cur.Next {
		cur.CallStack = append(cur.CallStack, f)
	}
}

// Rethrow takes the current exception and prepends a Rethrow frame,
// sharing the original exception object rather than copying it.
func Rethrow(e *Exception, loc string) *Exception {
	e.CallStack = append([]Frame{{FrameKind: FrameRethrow}}, e.CallStack...)
	e.Location = loc
	return e
}

// FormatChain renders the exception chain outermost-cause-first, as the
// top-level handler does when no user catch consumes it (spec §4.8).
func FormatChain(e *Exception) string {
	var chain []*Exception
	for cur := e; cur != nil; cur = cur.Next {
		chain = append(chain, cur)
	}
	var b strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		fmt.Fprintf(&b, "%s\n", c.Error())
		for _, f := range c.CallStack {
			fmt.Fprintf(&b, "  at %s (%s:%d-%d)\n", f.Function, f.File, f.StartLine, f.EndLine)
		}
	}
	return b.String()
}
