// Package signalbridge implements the single signal-handling goroutine
// that re-enters the evaluator with captured callbacks (spec §4.10).
package signalbridge

import (
	"os"
	"os/signal"
	"sync"

	"github.com/qorelang/qcore/value"
)

// Handler is a callback installed for a signal, tied to the program
// context it should run in. Invoke receives the os.Signal received.
type Handler func(sig os.Signal)

type handlerEntry struct {
	mu      sync.Mutex // at most one handler runs at a time for this signal
	handler Handler
	program value.ProgramHandle
}

// Bridge owns the one dedicated signal-handling goroutine. os/signal is
// the only plausible grounding for process signal delivery in Go — no
// third-party library improves on stdlib here, and DESIGN.md records this
// among its stdlib-justified choices.
type Bridge struct {
	mu       sync.Mutex
	handlers map[os.Signal]*handlerEntry
	sigCh    chan os.Signal
	reload   chan struct{}
	exit     chan struct{}
	done     chan struct{}

	// external tracks signals handed off to a module instead of dispatched
	// by the bridge itself (spec: "signal-to-module map").
	external map[os.Signal]string
}

// New constructs a Bridge and starts its dispatch goroutine.
func New() *Bridge {
	b := &Bridge{
		handlers: make(map[os.Signal]*handlerEntry),
		external: make(map[os.Signal]string),
		sigCh:    make(chan os.Signal, 16),
		reload:   make(chan struct{}, 1),
		exit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bridge) run() {
	defer close(b.done)
	for {
		select {
		case sig := <-b.sigCh:
			b.dispatch(sig)
		case <-b.reload:
			b.refreshMask()
		case <-b.exit:
			signal.Stop(b.sigCh)
			return
		}
	}
}

func (b *Bridge) dispatch(sig os.Signal) {
	b.mu.Lock()
	entry, ok := b.handlers[sig]
	b.mu.Unlock()
	if !ok {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.handler != nil {
		entry.handler(sig)
	}
}

func (b *Bridge) refreshMask() {
	b.mu.Lock()
	defer b.mu.Unlock()
	signal.Stop(b.sigCh)
	sigs := make([]os.Signal, 0, len(b.handlers))
	for s := range b.handlers {
		sigs = append(sigs, s)
	}
	if len(sigs) > 0 {
		signal.Notify(b.sigCh, sigs...)
	}
}

// Install registers or replaces the handler for sig. Installation waits
// for any in-flight invocation of the previous handler to finish before
// swapping it, so at most one handler ever runs for a given signal (spec
// §4.10).
func (b *Bridge) Install(sig os.Signal, program value.ProgramHandle, h Handler) {
	b.mu.Lock()
	entry, ok := b.handlers[sig]
	if !ok {
		entry = &handlerEntry{}
		b.handlers[sig] = entry
	}
	b.mu.Unlock()

	entry.mu.Lock()
	entry.handler = h
	entry.program = program
	entry.mu.Unlock()

	b.reload <- struct{}{}
}

// Remove uninstalls sig's handler.
func (b *Bridge) Remove(sig os.Signal) {
	b.mu.Lock()
	delete(b.handlers, sig)
	b.mu.Unlock()
	b.reload <- struct{}{}
}

// TrackExternal records that sig is now handled by a loaded module rather
// than the bridge (spec: signals handed off to external modules "are
// tracked in a signal-to-module map and no longer dispatched by the
// bridge").
func (b *Bridge) TrackExternal(sig os.Signal, module string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, sig)
	b.external[sig] = module
}

// Exit terminates the signal-handling goroutine.
func (b *Bridge) Exit() {
	close(b.exit)
	<-b.done
}
