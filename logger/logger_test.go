package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureAppender struct{ events []Event }

func (c *captureAppender) Append(e Event)                             { c.events = append(c.events, e) }
func (c *captureAppender) ProcessEvent(kind EventKind, params Event) error { return nil }

func TestEffectiveLevelWalksParentChain(t *testing.T) {
	root := Root()
	root.SetLevel(Warn)
	child := root.Child("child")

	assert.Equal(t, Warn, child.EffectiveLevel())
	child.SetLevel(Debug)
	assert.Equal(t, Debug, child.EffectiveLevel())
}

func TestAdditivityRoutesToAncestors(t *testing.T) {
	root := Root()
	rootCap := &captureAppender{}
	root.AddAppender(rootCap)

	child := root.Child("child")
	childCap := &captureAppender{}
	child.AddAppender(childCap)

	child.Info("hello %s", "world")

	require.Len(t, childCap.events, 1)
	require.Len(t, rootCap.events, 1)
	assert.Equal(t, "hello world", rootCap.events[0].Message)
}

func TestNonAdditiveLoggerStopsAtItself(t *testing.T) {
	root := Root()
	rootCap := &captureAppender{}
	root.AddAppender(rootCap)

	child := root.Child("child")
	child.SetAdditivity(false)
	childCap := &captureAppender{}
	child.AddAppender(childCap)

	child.Info("hello")

	require.Len(t, childCap.events, 1)
	assert.Len(t, rootCap.events, 0)
}

func TestBelowThresholdEventsAreDropped(t *testing.T) {
	root := Root()
	root.SetLevel(Error)
	capt := &captureAppender{}
	root.AddAppender(capt)

	root.Info("ignored")
	assert.Len(t, capt.events, 0)

	root.Error("kept")
	assert.Len(t, capt.events, 1)
}
