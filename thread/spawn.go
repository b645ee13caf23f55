package thread

import "golang.org/x/sync/errgroup"

// Spawner runs background ("background expr;") and explicit thread_spawn
// calls. It wraps golang.org/x/sync/errgroup the same way the teacher's
// database/concurrent.go ConcurrentMapFuncWithError does — one eg.Go per
// logical unit of work — generalized from "bounded concurrent DDL
// application" to "one OS goroutine per spawned qcore thread", with no
// concurrency limit (the slot table itself bounds how many threads may
// exist at once).
type Spawner struct {
	table *Table
	eg    errgroup.Group
}

// NewSpawner binds a Spawner to a thread table.
func NewSpawner(table *Table) *Spawner {
	return &Spawner{table: table}
}

// SpawnDetached allocates a slot and runs fn in a new goroutine, detaching
// it immediately so no caller can join it later (the "background" keyword
// supplemented feature, SPEC_FULL.md §5). fn receives its own Slot so it
// can push call frames, declare locals and observe cancellation.
func (sp *Spawner) SpawnDetached(program any, fn func(*Slot)) error {
	slot, err := sp.table.Spawn(program)
	if err != nil {
		return err
	}
	slot.Detach()
	sp.eg.Go(func() error {
		defer slot.Exit()
		fn(slot)
		return nil
	})
	return nil
}

// SpawnJoinable allocates a slot and runs fn, returning a function the
// caller invokes to join it (blocking until fn returns, then running the
// slot's resource-tracker exit sweep).
func (sp *Spawner) SpawnJoinable(program any, fn func(*Slot)) (join func() []error, err error) {
	slot, err := sp.table.Spawn(program)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(slot)
	}()
	return func() []error {
		<-done
		if !slot.Join() {
			return nil
		}
		excs := slot.Exit()
		errs := make([]error, len(excs))
		for i, e := range excs {
			errs[i] = e
		}
		return errs
	}, nil
}

// Wait blocks until every SpawnDetached goroutine launched through this
// Spawner has returned.
func (sp *Spawner) Wait() error {
	return sp.eg.Wait()
}
