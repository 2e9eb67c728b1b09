// Package worker adapts the teacher's co package (goroutine-group and
// fan-out helpers built on channels and sync.WaitGroup) into the
// process-wide task runtime the spec treats as an external collaborator
// (spec Design Notes: "a parallel task scheduler providing spawn/sync/
// together"), plus the per-worker in-flight stacks of spec component F.
//
// This is a cooperative approximation, not a true work-stealing scheduler
// (out of scope per spec §1): Spawn always hands work to a fresh goroutine
// rather than queuing it for a specific idle worker to steal, so every
// spawned Task reports Stolen() == true as soon as it is created. That is
// enough to satisfy the GC mark-phase contract in spec §4.5/§4.7, which
// only needs to know whether a task has been handed off and whether it has
// finished.
package worker

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/colibri-dd/mtbdd/encoding"
)

// Task is a unit of asynchronous work whose result is an MTBDD handle.
type Task struct {
	done      chan struct{}
	result    encoding.MTBDD
	err       error
	stolen    bool
	completed boolFlag
}

type boolFlag struct {
	mu sync.Mutex
	v  bool
}

func (f *boolFlag) set(v bool) {
	f.mu.Lock()
	f.v = v
	f.mu.Unlock()
}

func (f *boolFlag) get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v
}

// Stolen reports whether this task has been handed off for execution away
// from the spawning worker's own call stack. Always true for this pool's
// Spawn, per the package doc.
func (t *Task) Stolen() bool { return t.stolen }

// Completed reports whether the task's function has returned.
func (t *Task) Completed() bool { return t.completed.get() }

// Result returns the task's handle if it has completed; ok is false
// otherwise. Used by the GC mark phase (spec §4.5) to root
// completed-and-stolen spawns without blocking.
func (t *Task) Result() (h encoding.MTBDD, ok bool) {
	if !t.Completed() {
		return encoding.False, false
	}
	return t.result, true
}

// Locals is one worker's in-flight state (spec component F): a stack of
// handles currently held across a call that may trigger GC, and a stack of
// outstanding spawns. Both are unsynchronized — only the owning worker
// goroutine touches them; the GC mark phase reads them only during the
// stop-the-world barrier, when the owner is itself blocked inside
// Together.
type Locals struct {
	results []encoding.MTBDD
	spawns  []*Task
}

// Push appends h to the results stack, rooting it until a matching Pop.
func (l *Locals) Push(h encoding.MTBDD) {
	l.results = append(l.results, h)
}

// Pop drops the top n entries of the results stack.
func (l *Locals) Pop(n int) {
	l.results = l.results[:len(l.results)-n]
}

// Results returns the live results stack (read-only use by GC marking).
func (l *Locals) Results() []encoding.MTBDD { return l.results }

// SpawnRecord appends t to the spawns stack.
func (l *Locals) SpawnRecord(t *Task) {
	l.spawns = append(l.spawns, t)
}

// Spawns returns the live spawns stack (read-only use by GC marking).
func (l *Locals) Spawns() []*Task { return l.spawns }

// DropSpawns drops the top n entries of the spawns stack once their tasks
// have been synced.
func (l *Locals) DropSpawns(n int) {
	l.spawns = l.spawns[:len(l.spawns)-n]
}

// Pool is the process-wide task runtime: a fixed set of workers, each with
// its own Locals, supporting Spawn/Sync (asynchronous task execution) and
// Together (the all-worker GC barrier).
type Pool struct {
	locals []*Locals
}

// NewPool creates a Pool with the given number of logical workers.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{locals: make([]*Locals, size)}
	for i := range p.locals {
		p.locals[i] = &Locals{}
	}
	return p
}

// Size returns the number of logical workers.
func (p *Pool) Size() int { return len(p.locals) }

// Locals returns worker id's in-flight state.
func (p *Pool) Locals(id int) *Locals { return p.locals[id] }

// Spawn runs fn asynchronously, recording the task on worker id's spawns
// stack (F) so a subsequent GC cycle can root it if it is stolen and
// finishes before the spawning call reaches Sync.
func (p *Pool) Spawn(id int, fn func() (encoding.MTBDD, error)) *Task {
	t := &Task{done: make(chan struct{}), stolen: true}
	p.locals[id].SpawnRecord(t)
	go func() {
		defer close(t.done)
		r, err := fn()
		t.result = r
		t.err = err
		t.completed.set(true)
	}()
	return t
}

// Sync blocks until t completes and returns its result. The caller must
// have already pushed any locally-computed handle it still needs onto its
// own Locals (spec §4.6.2) before calling Sync, since waiting here may run
// arbitrary other work that triggers GC.
func (p *Pool) Sync(t *Task) (encoding.MTBDD, error) {
	<-t.done
	return t.result, t.err
}

// Together runs fn once on every worker and blocks until all have
// returned. This is the GC stop-the-world barrier (spec §4.7): every
// registered marking callback (external refs, protections, per-worker
// Locals) runs inside one Together call.
func (p *Pool) Together(fn func(id int) error) error {
	var g errgroup.Group
	for i := range p.locals {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
