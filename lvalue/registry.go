package lvalue

import (
	"errors"
	"sync"

	"github.com/qorelang/qcore/value"
)

// ErrObjectLockDeadlock is returned instead of blocking when acquiring an
// object's member lock would complete a wait-for cycle (spec §4.3
// "Failure modes: deadlock detection (OBJECT-LOCK-DEADLOCK)").
var ErrObjectLockDeadlock = errors.New("OBJECT-LOCK-DEADLOCK")

// registry tracks, process-wide, which thread currently holds which
// object's member lock and which object each blocked thread is waiting
// on, so a would-be-blocking acquire can be checked for cycles before it
// actually blocks.
var registry = struct {
	mu         sync.Mutex
	holder     map[*value.ObjectPayload]value.ThreadID
	waitingFor map[value.ThreadID]*value.ObjectPayload
}{
	holder:     make(map[*value.ObjectPayload]value.ThreadID),
	waitingFor: make(map[value.ThreadID]*value.ObjectPayload),
}

// wouldDeadlockLocked walks the wait-for chain starting at blockerOwner;
// if it leads back to thread, granting this wait would create a cycle.
// Must be called with registry.mu held.
func wouldDeadlockLocked(thread, blockerOwner value.ThreadID) bool {
	visited := map[value.ThreadID]bool{thread: true}
	cur := blockerOwner
	for {
		if visited[cur] {
			return cur == thread
		}
		visited[cur] = true
		obj, waiting := registry.waitingFor[cur]
		if !waiting {
			return false
		}
		owner, held := registry.holder[obj]
		if !held {
			return false
		}
		cur = owner
	}
}

// acquireObject locks obj's recursive member lock on behalf of thread,
// registering wait-for edges so concurrent acquisitions elsewhere can
// detect a forming cycle instead of deadlocking silently.
func acquireObject(obj *value.ObjectPayload, thread value.ThreadID) error {
	registry.mu.Lock()
	owner, held := registry.holder[obj]
	if held && owner != thread {
		if wouldDeadlockLocked(thread, owner) {
			registry.mu.Unlock()
			return ErrObjectLockDeadlock
		}
		registry.waitingFor[thread] = obj
		registry.mu.Unlock()

		obj.MemberLock().Lock(thread)

		registry.mu.Lock()
		delete(registry.waitingFor, thread)
		registry.holder[obj] = thread
		registry.mu.Unlock()
		return nil
	}
	registry.holder[obj] = thread
	registry.mu.Unlock()

	obj.MemberLock().Lock(thread)
	return nil
}

// releaseObject unwinds one level of thread's hold on obj, clearing the
// holder entry once the recursive lock's depth returns to zero.
func releaseObject(obj *value.ObjectPayload, thread value.ThreadID) {
	obj.MemberLock().Unlock(thread)

	registry.mu.Lock()
	if _, stillHeld := obj.MemberLock().HeldBy(); !stillHeld {
		if registry.holder[obj] == thread {
			delete(registry.holder, obj)
		}
	}
	registry.mu.Unlock()
}
