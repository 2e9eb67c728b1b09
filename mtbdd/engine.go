// Package mtbdd implements a parallel multi-terminal binary decision
// diagram engine: a shared, content-addressed store of reduced diagram
// nodes (spec components A-D), external and internal rooting (E, F), a
// parallel mark-sweep collector (G), and the recursive diagram operators
// that define the rooting discipline (H).
package mtbdd

import (
	"github.com/colibri-dd/mtbdd/encoding"
	"github.com/colibri-dd/mtbdd/gc"
	"github.com/colibri-dd/mtbdd/refs"
	"github.com/colibri-dd/mtbdd/unique"
	"github.com/colibri-dd/mtbdd/worker"

	golog "github.com/ethereum/go-ethereum/log"
)

// MTBDD is the 64-bit diagram handle (spec §3.1). It is a type alias for
// encoding.MTBDD so that every exported function in this package, and in
// mtbdd/dot which only depends on this package's public surface, shares
// one identical handle type.
type MTBDD = encoding.MTBDD

// Re-exported sentinels and the complement bit (spec §6.2).
const (
	False      = encoding.False
	True       = encoding.True
	Complement = encoding.Complement
)

// nodeSize is the contractual size in bytes of a node; Init aborts if this
// ever stops holding (spec §6.1).
const nodeSize = 16 // two uint64 words, a and b

// WorkerID identifies a logical worker in the task runtime (spec §4.5).
// Go has no implicit thread-local storage, so unlike the C source this
// engine is modeled on, WorkerID is an explicit argument to every call
// that may push onto a worker's in-flight stack, rather than recovered
// from the calling thread. Single-worker callers (tests, simple CLI use)
// pass worker 0.
type WorkerID int

// Worker0 is the conventional identity for callers that don't run inside
// the task runtime's own worker goroutines.
const Worker0 WorkerID = 0

// Engine bundles every component the engine needs: the canonical table
// (B), the two rooting stores (E), the worker pool and its per-worker
// in-flight stacks (F), and the collector (G). The package keeps one
// process-wide default Engine, matching spec §6.1's description of a
// single global init()/quit() lifecycle; construction is still exposed
// (New) for tests that want an isolated instance.
type Engine struct {
	table   *unique.Table
	refs    *refs.RefTable
	protect *refs.ProtectTable
	pool    *worker.Pool
	gc      *gc.Collector
}

// Config controls engine construction.
type Config struct {
	TableCapacity uint32
	TableShards   uint32
	Workers       int
}

func defaultConfig() Config {
	return Config{TableCapacity: 1 << 20, TableShards: 64, Workers: 4}
}

// New constructs a standalone Engine. Most callers use the package-level
// Init/Quit and the free functions below, which operate on a shared
// default Engine; New exists for tests and for embedding multiple
// independent engines in one process (itself a non-goal for the shared
// API, since spec §6.1 describes one process-wide instance, but harmless
// to support at the type level).
func New(cfg Config) *Engine {
	if cfg.TableCapacity == 0 {
		cfg = defaultConfig()
	}
	t := unique.New(unique.Config{Capacity: cfg.TableCapacity, Shards: cfg.TableShards})
	r := refs.NewRefTable()
	p := refs.Default() // reused, not replaced: see refs.Default's doc.
	pool := worker.NewPool(cfg.Workers)
	return &Engine{
		table:   t,
		refs:    r,
		protect: p,
		pool:    pool,
		gc: &gc.Collector{
			Table:   t,
			Refs:    r,
			Protect: p,
			Pool:    pool,
		},
	}
}

var defaultEngine *Engine

// Init registers the engine's GC marking callbacks, sanity-checks the node
// size, and brings up the worker pool (spec §6.1). It aborts the process
// through golog.Crit — spec §7's NodeSizeMismatch policy — if the packed
// node size assumption this package was built against ever changes.
func Init(cfg Config) {
	if nodeSize != 16 {
		golog.Crit("mtbdd: node size mismatch", "want", 16, "have", nodeSize)
	}
	defaultEngine = New(cfg)
}

// Quit drops the default engine, releasing its counted refs. The
// process-wide protections table (refs.Default) is not cleared: addresses
// protected before Quit stay registered and are seen by the next Init.
func Quit() {
	defaultEngine = nil
}

func engine() *Engine {
	if defaultEngine == nil {
		panic("mtbdd: Init not called")
	}
	return defaultEngine
}
