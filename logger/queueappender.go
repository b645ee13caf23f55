package logger

import (
	"github.com/qorelang/qcore/container"
)

// queueRecord is the in-process {event_kind, params} record a
// QueueAppender queues; the target appender is not stored in it, since it
// is always the QueueAppender's own (kept as a plain Go struct rather than a
// value.Hash, since §6 notes the queue wire format is in-process only and
// never serialized).
type queueRecord struct {
	kind   EventKind
	params Event
}

// QueueAppender decouples event production from the underlying
// appender's I/O: Append enqueues a record instead of writing
// synchronously; a dedicated pump goroutine dequeues and drives the
// target appender's ProcessEvent (spec §4.11). Built on container.Queue
// (C2), the same blocking queue type used for the C9 thread model's
// async channel.
type QueueAppender struct {
	target Appender
	queue  *container.Queue[queueRecord]
	done   chan struct{}
}

// NewQueueAppender wraps target with a queue of the given capacity (0 for
// unbounded) and starts its pump goroutine.
func NewQueueAppender(target Appender, capacity int) *QueueAppender {
	qa := &QueueAppender{
		target: target,
		queue:  container.NewQueue[queueRecord](capacity),
		done:   make(chan struct{}),
	}
	go qa.pump()
	return qa
}

func (qa *QueueAppender) pump() {
	defer close(qa.done)
	for {
		rec, err := qa.queue.Shift(-1, nil)
		if err != nil {
			return
		}
		qa.target.ProcessEvent(rec.kind, rec.params)
	}
}

// Append enqueues a Log record for the pump goroutine.
func (qa *QueueAppender) Append(e Event) {
	qa.queue.Push(queueRecord{kind: EventLog, params: e}, -1, nil)
}

// ProcessEvent enqueues a lifecycle command (Open/Close/Reopen) alongside
// Log records so ordering against in-flight log events is preserved.
func (qa *QueueAppender) ProcessEvent(kind EventKind, params Event) error {
	qa.queue.Push(queueRecord{kind: kind, params: params}, -1, nil)
	return nil
}

// Destroy sets the queue to Deleted, waking the pump goroutine, which
// then exits once QUEUE-ERROR propagates from Shift.
func (qa *QueueAppender) Destroy() {
	qa.queue.Destroy()
	<-qa.done
}
