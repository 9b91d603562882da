package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// generatorState implements spec.md §5's "single-threaded cooperative
// concurrency" for generator and async function bodies as a goroutine
// paired with two unbuffered channels: the body goroutine and its resumer
// are never both runnable, so only one of them ever touches the running
// EvalContext at a time, matching the spec's one-agent-at-a-time execution
// model even though Go code is physically running on another stack.
type generatorState struct {
	resume chan resumeMsg
	yield  chan yieldMsg
	done   bool
}

type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeThrow
	resumeReturn
)

type resumeMsg struct {
	kind  resumeKind
	value values.Value
}

type yieldMsg struct {
	c    completion.Completion
	done bool
}

func newGeneratorState() *generatorState {
	return &generatorState{resume: make(chan resumeMsg), yield: make(chan yieldMsg)}
}

// start launches body on its own goroutine, bound to ec. The goroutine
// blocks on the first resume before running a single statement of body,
// since a generator object exists (and can be passed around) before its
// body starts executing (spec's GeneratorStart: the body only runs once
// something calls next()).
func (g *generatorState) start(ec *EvalContext, body func(*EvalContext) completion.Completion) {
	go func() {
		msg := <-g.resume
		if msg.kind == resumeReturn {
			g.done = true
			g.yield <- yieldMsg{c: completion.Ok(msg.value), done: true}
			return
		}
		result := body(ec)
		g.done = true
		if result.Type == completion.Throw {
			g.yield <- yieldMsg{c: result, done: true}
			return
		}
		var v values.Value = values.Undefined
		if result.Type == completion.Return {
			v = result.Value.(values.Value)
		}
		g.yield <- yieldMsg{c: completion.Ok(v), done: true}
	}()
}

// yieldValue is called from inside the generator goroutine (by evalYield)
// to suspend execution and hand a value back to whichever of
// next/throw/return is waiting on resumeWith. The completion it returns is
// what `yield expr` evaluates to once resumed, or the abrupt completion a
// `.throw()`/`.return()` injects at the suspension point (spec's
// GeneratorYield resuming with a completion, not just a plain value).
func (g *generatorState) yieldValue(v values.Value) completion.Completion {
	g.yield <- yieldMsg{c: completion.Ok(v), done: false}
	msg := <-g.resume
	switch msg.kind {
	case resumeThrow:
		return completion.Thrown(msg.value)
	case resumeReturn:
		return completion.Returned(msg.value)
	default:
		return completion.Ok(msg.value)
	}
}

// resumeWith drives the generator goroutine with one of next(v)/throw(v)/
// return(v), blocking until the body suspends again or runs to completion.
// Once done is true every subsequent call returns immediately without
// waking the goroutine again: next() gives {undefined, true}, return(v)
// gives {v, true} and throw(v) rethrows v (spec's "once a generator is
// completed it stays completed").
func (g *generatorState) resumeWith(kind resumeKind, v values.Value) (completion.Completion, bool) {
	if g.done {
		if kind == resumeThrow {
			return completion.Thrown(v), true
		}
		if kind == resumeReturn {
			return completion.Ok(v), true
		}
		return completion.Ok(values.Undefined), true
	}
	g.resume <- resumeMsg{kind: kind, value: v}
	msg := <-g.yield
	return msg.c, msg.done
}
