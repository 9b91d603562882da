package ops

import (
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// PromiseState mirrors spec.md §4.9's three-state promise lifecycle.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

type promiseReaction struct {
	onFulfilled func(values.Value)
	onRejected  func(values.Value)
}

// PromiseData is the internal slot set a Promise-classed Object carries in
// its Internal field (spec's [[PromiseState]]/[[PromiseResult]]/reaction
// lists). Enqueue is a host hook the evaluator wires to the Agent's job
// queue (spec.md §4.9's PromiseReactionJob), keeping this package free of
// an internal/agent import.
type PromiseData struct {
	State     PromiseState
	Result    values.Value
	reactions []promiseReaction
	Enqueue   func(func())
}

func NewPromiseData(enqueue func(func())) *PromiseData {
	return &PromiseData{State: PromisePending, Enqueue: enqueue}
}

// NewPromiseObject creates a Promise-classed object whose Internal slot is
// a fresh pending PromiseData.
func NewPromiseObject(proto values.Value, realm object.RealmHandle, enqueue func(func())) *object.Object {
	o := object.NewObject(proto, realm)
	o.Class = "Promise"
	o.Internal = NewPromiseData(enqueue)
	return o
}

// PromiseDataOf recovers o's PromiseData, if o is a promise.
func PromiseDataOf(o *object.Object) (*PromiseData, bool) {
	pd, ok := o.Internal.(*PromiseData)
	return pd, ok
}

// Fulfill implements spec's FulfillPromise: settling is idempotent, a
// promise already settled ignores a second resolution attempt.
func (p *PromiseData) Fulfill(v values.Value) {
	if p.State != PromisePending {
		return
	}
	p.State, p.Result = PromiseFulfilled, v
	reactions := p.reactions
	p.reactions = nil
	for _, r := range reactions {
		r := r
		p.Enqueue(func() {
			if r.onFulfilled != nil {
				r.onFulfilled(v)
			}
		})
	}
}

// Reject implements spec's RejectPromise.
func (p *PromiseData) Reject(v values.Value) {
	if p.State != PromisePending {
		return
	}
	p.State, p.Result = PromiseRejected, v
	reactions := p.reactions
	p.reactions = nil
	for _, r := range reactions {
		r := r
		p.Enqueue(func() {
			if r.onRejected != nil {
				r.onRejected(v)
			}
		})
	}
}

// Then implements the scheduling half of spec's PerformPromiseThen: a
// pending promise queues the reaction for later, an already-settled one
// enqueues the matching callback as its own job right away (still a
// microtask tick later, never synchronously, per spec.md §4.9).
func (p *PromiseData) Then(onFulfilled, onRejected func(values.Value)) {
	switch p.State {
	case PromisePending:
		p.reactions = append(p.reactions, promiseReaction{onFulfilled, onRejected})
	case PromiseFulfilled:
		v := p.Result
		p.Enqueue(func() {
			if onFulfilled != nil {
				onFulfilled(v)
			}
		})
	case PromiseRejected:
		v := p.Result
		p.Enqueue(func() {
			if onRejected != nil {
				onRejected(v)
			}
		})
	}
}
