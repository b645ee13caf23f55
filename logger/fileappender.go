package logger

import (
	"fmt"
	"os"
	"sync"
)

// FileAppender writes formatted events to an owned file handle,
// implementing Open/Close/Reopen/Log directly (spec §4.11: "The file
// appender implements these against an owned file handle").
type FileAppender struct {
	mu     sync.Mutex
	path   string
	layout Layout
	file   *os.File
}

// NewFileAppender constructs an appender bound to path; Open must be
// called (directly, or via ProcessEvent(EventOpen, ...)) before Append.
func NewFileAppender(path string, layout Layout) *FileAppender {
	if layout == nil {
		layout = DefaultLayout{}
	}
	return &FileAppender{path: path, layout: layout}
}

func (a *FileAppender) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	a.file = f
	return nil
}

func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

func (a *FileAppender) Reopen() error {
	if err := a.Close(); err != nil {
		return err
	}
	return a.Open()
}

// Append writes e directly; used when this appender has no queue
// attached (synchronous delivery, the common case).
func (a *FileAppender) Append(e Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return
	}
	fmt.Fprintln(a.file, a.layout.Format(e))
}

// ProcessEvent drives this appender from a queue pump goroutine.
func (a *FileAppender) ProcessEvent(kind EventKind, params Event) error {
	switch kind {
	case EventOpen:
		return a.Open()
	case EventClose:
		return a.Close()
	case EventReopen:
		return a.Reopen()
	case EventLog:
		a.Append(params)
		return nil
	default:
		return nil
	}
}
