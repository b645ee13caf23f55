package value

import "sync"

// ThreadID identifies the logical (not OS) thread a lock is held on,
// assigned by the thread package. value stays ignorant of the thread
// package's Slot type; a bare numeric id is all recursive locking needs.
type ThreadID uint64

// RecursiveLock is a same-thread-reentrant mutex: the thread already
// holding it may lock it again without blocking, and must unlock the same
// number of times to release it. Built on a condition variable rather than
// sync.Mutex since Go's mutex has no notion of "owner". Backs Object's
// member-access lock (spec §5 "Every Object has a recursive lock").
type RecursiveLock struct {
	guard    sync.Mutex
	cond     *sync.Cond
	hasOwner bool
	owner    ThreadID
	depth    int
}

func NewRecursiveLock() *RecursiveLock {
	l := &RecursiveLock{}
	l.cond = sync.NewCond(&l.guard)
	return l
}

// Lock blocks until the lock is free or already held by thread.
func (l *RecursiveLock) Lock(thread ThreadID) {
	l.guard.Lock()
	defer l.guard.Unlock()
	for l.hasOwner && l.owner != thread {
		l.cond.Wait()
	}
	l.owner = thread
	l.hasOwner = true
	l.depth++
}

// TryLock attempts a non-blocking acquire, returning false if another
// thread currently holds it.
func (l *RecursiveLock) TryLock(thread ThreadID) bool {
	l.guard.Lock()
	defer l.guard.Unlock()
	if l.hasOwner && l.owner != thread {
		return false
	}
	l.owner = thread
	l.hasOwner = true
	l.depth++
	return true
}

// Unlock releases one level of the calling thread's hold; once depth
// reaches zero the lock becomes available and a waiter is woken.
func (l *RecursiveLock) Unlock(thread ThreadID) {
	l.guard.Lock()
	defer l.guard.Unlock()
	if !l.hasOwner || l.owner != thread {
		return
	}
	l.depth--
	if l.depth == 0 {
		l.hasOwner = false
		l.cond.Signal()
	}
}

// HeldBy reports the current owner, if any.
func (l *RecursiveLock) HeldBy() (ThreadID, bool) {
	l.guard.Lock()
	defer l.guard.Unlock()
	return l.owner, l.hasOwner
}
