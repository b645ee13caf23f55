package logger

// EventKind distinguishes the lifecycle commands a queued appender's pump
// goroutine drives (spec §4.11: "supported kinds are Open, Close, Reopen,
// Log").
type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventReopen
	EventLog
)

// Layout formats an Event into the text an appender writes out.
type Layout interface {
	Format(e Event) string
}

// DefaultLayout renders "time [level] logger: message".
type DefaultLayout struct{}

func (DefaultLayout) Format(e Event) string {
	return e.Time.Format("2006-01-02T15:04:05.000") + " [" + e.Level.String() + "] " + e.Logger + ": " + e.Message
}

// Appender receives routed events. Append is called synchronously by
// Logger.Log for an appender with no queue; a queued appender instead
// enqueues a {kind, params} record for its pump goroutine,
// matching spec §4.11's queue wire format (§6: "in-process only ... a
// hash, not serialized" — here a plain Go struct, the in-process
// equivalent).
type Appender interface {
	Append(e Event)
	ProcessEvent(kind EventKind, params Event) error
}
