// Package agent implements spec.md §3/§5/§4.9: the process-wide execution
// context stack, the FIFO job queue that is the engine's sole concurrency
// mechanism, and the feature-flag set. The teacher has no equivalent
// singleton (DWScript's Interpreter owns its own call stack directly,
// internal/interp/interpreter.go's callStack field); this package is
// grounded instead on that same "plain slice, push on enter, pop on every
// exit path" discipline, generalised to own execution contexts rather than
// stack-trace strings, plus the job queue spec.md §4.9 requires.
package agent

import (
	"fmt"
	"io"
	"os"
)

// Context is spec.md §3's Execution Context: {Function, Realm, LexicalEnv,
// VariableEnv, ScriptOrModule} plus feature-specific slots. Function, Realm,
// LexicalEnv and VariableEnv are `any` here (rather than concrete
// *object.Object / *realm.Realm / environment.Record types) purely to avoid
// an import cycle: internal/evaluator, which populates and reads these
// fields, already imports internal/object, internal/realm and
// internal/environment directly, so it downcasts on read.
type Context struct {
	Function      any // *object.Object of the running function, or nil at script/module top level
	Realm         any // *realm.Realm
	LexicalEnv    any // environment.Record
	VariableEnv   any // environment.Record
	ScriptOrModule any

	// GeneratorState and AsyncContinuation are the "feature-specific slots"
	// spec.md §3 calls out for generator/async execution contexts
	// (internal/evaluator/generator.go populates these).
	GeneratorState    any
	AsyncContinuation any
}

// Job is spec.md §4.9's {realm, thunk} pair: a deferred unit of work run
// after the context stack empties.
type Job struct {
	Realm any
	Thunk func()
}

// Diagnostics is the teacher's error-reporting shape generalised into a
// sink: the teacher has no structured logger (spec.md's AMBIENT STACK note
// for this engine) and instead writes positioned errors straight to an
// io.Writer (internal/interp/interpreter.go's `output io.Writer`); ecmax
// keeps that exactly, just split into its own field so it can be swapped
// independently of a realm's console output.
type Diagnostics struct {
	w io.Writer
}

// NewDiagnostics wraps w (typically os.Stderr) as a line logger.
func NewDiagnostics(w io.Writer) *Diagnostics { return &Diagnostics{w: w} }

func (d *Diagnostics) Logf(format string, args ...any) {
	if d == nil || d.w == nil {
		return
	}
	fmt.Fprintf(d.w, format+"\n", args...)
}

// Agent is spec.md §3's Agent: "process-wide state: context stack, job
// queue, feature flag set, and a hosting hook interface. Singleton per
// logical execution." Nothing here actually forces a single process-wide
// instance — an embedder may run several Agents in one process (spec.md
// §6's `new Agent({features})`) — "singleton per logical execution" means
// one Agent per independent evaluation, not one per os.Process.
type Agent struct {
	stack   []*Context
	jobs    []Job
	features map[string]bool
	diag     *Diagnostics
}

// New constructs an Agent with the given feature flags enabled. Unknown
// flag names are rejected by ValidateFeatures (spec.md §6: "unknown flags
// are errors"), which callers should run before passing features here.
func New(features map[string]bool) *Agent {
	if features == nil {
		features = map[string]bool{}
	}
	return &Agent{features: features, diag: NewDiagnostics(os.Stderr)}
}

func (a *Agent) SetDiagnostics(d *Diagnostics) { a.diag = d }
func (a *Agent) Diagnostics() *Diagnostics     { return a.diag }

// KnownFeatures enumerates the stage-3-class feature flags this engine
// recognises (spec.md §6's "enumerated, each mapping to a guarded
// syntactic/semantic extension"). `list` mode (ListFeatures) returns the
// {name, url} pairs spec.md requires.
var KnownFeatures = map[string]string{
	"top-level-await":    "https://github.com/tc39/proposal-top-level-await",
	"optional-chaining":  "https://github.com/tc39/proposal-optional-chaining",
	"nullish-coalescing": "https://github.com/tc39/proposal-nullish-coalescing",
	"bigint":             "https://github.com/tc39/proposal-bigint",
	"logical-assignment": "https://github.com/tc39/proposal-logical-assignment",
}

type FeatureEntry struct {
	Name string
	URL  string
}

// ListFeatures is spec.md §6's `list` mode.
func ListFeatures() []FeatureEntry {
	out := make([]FeatureEntry, 0, len(KnownFeatures))
	for name, url := range KnownFeatures {
		out = append(out, FeatureEntry{Name: name, URL: url})
	}
	return out
}

// ValidateFeatures rejects any name not in KnownFeatures, per spec.md §6:
// "unknown flags are errors".
func ValidateFeatures(features map[string]bool) error {
	for name := range features {
		if _, ok := KnownFeatures[name]; !ok {
			return fmt.Errorf("agent: unknown feature flag %q", name)
		}
	}
	return nil
}

func (a *Agent) HasFeature(name string) bool { return a.features[name] }

// --- Execution context stack (spec.md §5: "every pushed execution context
// must be popped on every exit path, including thrown completions and
// abrupt returns from the evaluator"). ---

// Push makes ctx the running context.
func (a *Agent) Push(ctx *Context) { a.stack = append(a.stack, ctx) }

// Pop removes the running context. Callers must pair every Push with
// exactly one Pop, typically via `defer a.Pop()` immediately after Push so
// the pop runs on every exit path including a panic unwind — this is the
// engine's one scoped-acquisition-with-guaranteed-release discipline
// (spec.md §5).
func (a *Agent) Pop() {
	if len(a.stack) == 0 {
		return
	}
	a.stack = a.stack[:len(a.stack)-1]
}

// Running returns the top of the context stack, or nil if the stack is
// empty (no execution in progress — the Agent is between top-level
// evaluations or draining the job queue).
func (a *Agent) Running() *Context {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

func (a *Agent) StackDepth() int { return len(a.stack) }

// --- Job queue (spec.md §4.9). ---

// EnqueueJob appends a job to the FIFO queue. A job itself may call
// EnqueueJob again (e.g. a PromiseReactionJob scheduling the next `.then`),
// which is why DrainJobs re-reads a.jobs on every iteration rather than
// ranging over a snapshot.
func (a *Agent) EnqueueJob(j Job) { a.jobs = append(a.jobs, j) }

// DrainJobs runs every queued job to completion, FIFO, including jobs
// enqueued by jobs already running, until the queue is empty (spec.md §5:
// "the job queue drains completely before the Agent returns control to the
// host"). It must only be called once the context stack is empty (spec.md
// §4.9: "After the running context stack empties, the Agent dequeues
// jobs...").
func (a *Agent) DrainJobs() {
	for len(a.jobs) > 0 {
		j := a.jobs[0]
		a.jobs = a.jobs[1:]
		j.Thunk()
	}
}

func (a *Agent) PendingJobs() int { return len(a.jobs) }
