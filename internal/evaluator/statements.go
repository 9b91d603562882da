package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// EvalStatements runs a statement list in order, stopping at the first
// abrupt completion (spec's "a StatementList's value is its last non-empty
// completion, except an abrupt completion always stops the list").
func (ec *EvalContext) EvalStatements(stmts []ast.Statement) completion.Completion {
	result := completion.Empty
	for _, s := range stmts {
		c := ec.EvalStatement(s)
		if c.IsAbrupt() {
			return c
		}
		if c.Value != nil {
			result = c
		}
	}
	return result
}

// EvalStatement evaluates one statement to a completion, threading break/
// continue/return/throw up to whatever loop/try/switch/function frame
// handles it (spec.md §4.7).
func (ec *EvalContext) EvalStatement(stmt ast.Statement) completion.Completion {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		v, c := ops.Q(ec.EvalExpression(s.Expression))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Ok(v)
	case *ast.EmptyStatement:
		return completion.Empty
	case *ast.BlockStatement:
		return ec.evalBlock(s.Body)
	case *ast.VariableDeclaration:
		return ec.evalVariableDeclaration(s)
	case *ast.FunctionDeclaration:
		return completion.Empty // handled entirely by declaration instantiation
	case *ast.ClassDeclaration:
		return ec.evalClassDeclaration(s)
	case *ast.IfStatement:
		return ec.evalIfStatement(s)
	case *ast.WhileStatement:
		return ec.evalWhileStatement(s, "")
	case *ast.DoWhileStatement:
		return ec.evalDoWhileStatement(s, "")
	case *ast.ForStatement:
		return ec.evalForStatement(s, "")
	case *ast.ForInStatement:
		return ec.evalForInStatement(s, "")
	case *ast.ForOfStatement:
		return ec.evalForOfStatement(s, "")
	case *ast.BreakStatement:
		return completion.BreakTo(s.Label)
	case *ast.ContinueStatement:
		return completion.ContinueTo(s.Label)
	case *ast.ReturnStatement:
		if s.Argument == nil {
			return completion.Returned(values.Undefined)
		}
		v, c := ops.Q(ec.EvalExpression(s.Argument))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Returned(v.(values.Value))
	case *ast.ThrowStatement:
		v, c := ops.Q(ec.EvalExpression(s.Argument))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Thrown(v.(values.Value))
	case *ast.TryStatement:
		return ec.evalTryStatement(s)
	case *ast.SwitchStatement:
		return ec.evalSwitchStatement(s, "")
	case *ast.LabeledStatement:
		return ec.evalLabeledStatement(s)
	case *ast.ImportDeclaration:
		// Binding resolution happened during Link (internal/module); nothing
		// runs at evaluation time.
		return completion.Empty
	case *ast.ExportAllDeclaration:
		return completion.Empty
	case *ast.ExportNamedDeclaration:
		if s.Declaration != nil {
			return ec.EvalStatement(s.Declaration)
		}
		return completion.Empty
	case *ast.ExportDefaultDeclaration:
		return ec.evalExportDefault(s)
	}
	return ec.ThrowSyntaxError("unsupported statement")
}

// evalExportDefault implements spec's `export default` evaluation: a named
// function or class declaration binds its own name (ordinary
// FunctionDeclaration/ClassDeclaration semantics) in addition to aliasing
// "*default*"; an anonymous one, or a bare expression, only ever binds
// "*default*" (moduleDeclarationInstantiation, declarations.go, pre-creates
// that binding so this only ever initializes it).
func (ec *EvalContext) evalExportDefault(s *ast.ExportDefaultDeclaration) completion.Completion {
	switch d := s.Declaration.(type) {
	case *ast.FunctionDeclaration:
		fnObj := ec.makeFunctionObject(d.Params, d.Body, "normal", d.Async, d.Generator, nil, ec.Lexical, funcName(d.ID))
		if d.ID != nil {
			ec.Lexical.InitializeBinding(d.ID.Name, fnObj)
		}
		ec.Lexical.InitializeBinding("*default*", fnObj)
		return completion.Empty
	case *ast.ClassDeclaration:
		ctor, c := ec.buildClass(d)
		if c.IsAbrupt() {
			return c
		}
		if d.ID != nil {
			ec.Lexical.InitializeBinding(d.ID.Name, ctor)
		}
		ec.Lexical.InitializeBinding("*default*", ctor)
		return completion.Empty
	case ast.Expression:
		v, c := ops.Q(ec.EvalExpression(d))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		ec.Lexical.InitializeBinding("*default*", v.(values.Value))
		return completion.Empty
	}
	return completion.Empty
}

// evalBlock implements spec's Block evaluation: a fresh declarative
// environment hosts the block's own let/const/function-declaration
// bindings (hoistBlockScope, internal/evaluator/declarations.go), restored
// on every exit path.
func (ec *EvalContext) evalBlock(body []ast.Statement) completion.Completion {
	env := environment.NewDeclarative(ec.Lexical)
	if c := ec.hoistBlockScope(body, env); c.IsAbrupt() {
		return c
	}
	return ec.WithLexical(env).EvalStatements(body)
}

func (ec *EvalContext) evalVariableDeclaration(s *ast.VariableDeclaration) completion.Completion {
	for _, d := range s.Declarations {
		var v values.Value = values.Undefined
		if d.Init != nil {
			rv, c := ops.Q(ec.EvalExpression(d.Init))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			v = rv.(values.Value)
		} else if s.Kind == ast.Var {
			continue // re-initializing an already-undefined var binding is a no-op
		}
		if s.Kind == ast.Var {
			if c := ec.assignPattern(d.ID, v); c.IsAbrupt() {
				return c
			}
			continue
		}
		if c := ec.bindPatternInit(ec.Lexical, d.ID, v); c.IsAbrupt() {
			return c
		}
	}
	return completion.Empty
}

func (ec *EvalContext) evalIfStatement(s *ast.IfStatement) completion.Completion {
	testV, c := ops.Q(ec.EvalExpression(s.Test))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if ops.ToBoolean(testV.(values.Value)) {
		return ec.EvalStatement(s.Consequent)
	}
	if s.Alternate != nil {
		return ec.EvalStatement(s.Alternate)
	}
	return completion.Empty
}

// loopResult interprets a loop body's completion against the label this
// particular loop construct answers to: a break/continue targeting this
// label (or unlabelled) is absorbed here; anything else propagates.
func loopResult(c completion.Completion, label string) (cont bool, out completion.Completion) {
	switch c.Type {
	case completion.Break:
		if c.Target == "" || c.Target == label {
			return false, completion.Empty
		}
		return false, c
	case completion.Continue:
		if c.Target == "" || c.Target == label {
			return true, completion.Empty
		}
		return false, c
	case completion.Throw, completion.Return:
		return false, c
	default:
		return true, completion.Empty
	}
}

func (ec *EvalContext) evalWhileStatement(s *ast.WhileStatement, label string) completion.Completion {
	result := completion.Empty
	for {
		testV, c := ops.Q(ec.EvalExpression(s.Test))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if !ops.ToBoolean(testV.(values.Value)) {
			return result
		}
		bc := ec.EvalStatement(s.Body)
		cont, out := loopResult(bc, label)
		if bc.Value != nil && !bc.IsAbrupt() {
			result = bc
		}
		if !cont {
			return out
		}
	}
}

func (ec *EvalContext) evalDoWhileStatement(s *ast.DoWhileStatement, label string) completion.Completion {
	result := completion.Empty
	for {
		bc := ec.EvalStatement(s.Body)
		cont, out := loopResult(bc, label)
		if bc.Value != nil && !bc.IsAbrupt() {
			result = bc
		}
		if !cont {
			return out
		}
		testV, c := ops.Q(ec.EvalExpression(s.Test))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if !ops.ToBoolean(testV.(values.Value)) {
			return result
		}
	}
}

func (ec *EvalContext) evalForStatement(s *ast.ForStatement, label string) completion.Completion {
	loopEnv := ec.Lexical
	perIteration := false
	if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
		if decl.Kind != ast.Var {
			loopEnv = environment.NewDeclarative(ec.Lexical)
			perIteration = true
			for _, d := range decl.Declarations {
				for _, n := range patternBoundNames(d.ID) {
					if decl.Kind == ast.Const {
						loopEnv.CreateImmutableBinding(n, true)
					} else {
						loopEnv.CreateMutableBinding(n, false)
					}
				}
			}
		}
	}
	loopCtx := ec.WithLexical(loopEnv)
	if s.Init != nil {
		switch init := s.Init.(type) {
		case *ast.VariableDeclaration:
			if c := loopCtx.evalVariableDeclaration(init); c.IsAbrupt() {
				return c
			}
		case ast.Expression:
			if _, c := ops.Q(loopCtx.EvalExpression(init)); c.IsAbrupt() {
				return c
			}
		}
	}
	result := completion.Empty
	for {
		if perIteration {
			next := environment.NewDeclarative(ec.Lexical)
			for _, n := range loopEnv.(*environment.Declarative).BindingNames() {
				v, _ := loopEnv.GetBindingValue(n, false).Value.(values.Value)
				next.CreateMutableBinding(n, false)
				next.InitializeBinding(n, v)
			}
			loopEnv = next
			loopCtx = ec.WithLexical(loopEnv)
		}
		if s.Test != nil {
			testV, c := ops.Q(loopCtx.EvalExpression(s.Test))
			if ac, bad := loopCtx.abrupt(c); bad {
				return ac
			}
			if !ops.ToBoolean(testV.(values.Value)) {
				return result
			}
		}
		bc := loopCtx.EvalStatement(s.Body)
		cont, out := loopResult(bc, label)
		if bc.Value != nil && !bc.IsAbrupt() {
			result = bc
		}
		if !cont {
			return out
		}
		if s.Update != nil {
			if _, c := ops.Q(loopCtx.EvalExpression(s.Update)); c.IsAbrupt() {
				return c
			}
		}
	}
}

func (ec *EvalContext) bindForTarget(target ast.Node, declKind ast.VariableKind, env environment.Record, v values.Value) completion.Completion {
	if decl, ok := target.(*ast.VariableDeclaration); ok {
		id := decl.Declarations[0].ID
		if decl.Kind == ast.Var {
			return ec.assignPattern(id, v)
		}
		return ec.bindPatternInit(env, id, v)
	}
	return ec.assignPattern(target, v)
}

func (ec *EvalContext) evalForInStatement(s *ast.ForInStatement, label string) completion.Completion {
	rightV, c := ops.Q(ec.EvalExpression(s.Right))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if isNullish(rightV.(values.Value)) {
		return completion.Empty
	}
	obj, c := ops.Q(ops.ToObject(ec.Realm, rightV.(values.Value)))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	keys := enumerateKeys(obj.(values.Value).(*object.Object))
	result := completion.Empty
	for _, k := range keys {
		iterEnv := ec.Lexical
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok && decl.Kind != ast.Var {
			iterEnv = environment.NewDeclarative(ec.Lexical)
			for _, n := range patternBoundNames(decl.Declarations[0].ID) {
				iterEnv.CreateMutableBinding(n, false)
			}
		}
		iterCtx := ec.WithLexical(iterEnv)
		if c := iterCtx.bindForTarget(s.Left, ast.Let, iterEnv, values.NewString(k.Str)); c.IsAbrupt() {
			return c
		}
		bc := iterCtx.EvalStatement(s.Body)
		cont, out := loopResult(bc, label)
		if bc.Value != nil && !bc.IsAbrupt() {
			result = bc
		}
		if !cont {
			return out
		}
	}
	return result
}

// enumerateKeys walks the prototype chain collecting enumerable string
// keys, skipping one already seen further down the chain (spec's
// EnumerateObjectProperties — ecmax doesn't track per-object deletion
// during enumeration, which is an implementation-defined edge case per
// spec.md §4.7).
func enumerateKeys(o *object.Object) []values.PropertyKey {
	seen := map[string]bool{}
	var out []values.PropertyKey
	for cur := o; cur != nil; {
		for _, k := range cur.OwnPropertyKeys() {
			if k.IsSym || seen[k.Str] {
				continue
			}
			seen[k.Str] = true
			desc, _ := cur.GetOwnProperty(k)
			if desc.Enumerable {
				out = append(out, k)
			}
		}
		protoV := cur.GetPrototypeOf()
		next, ok := protoV.(*object.Object)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

func (ec *EvalContext) evalForOfStatement(s *ast.ForOfStatement, label string) completion.Completion {
	rightV, c := ops.Q(ec.EvalExpression(s.Right))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	hint := ops.SyncIterator
	if s.Await {
		hint = ops.AsyncIterator
	}
	recV, c := ops.Q(ops.GetIterator(rightV.(values.Value), hint))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	rec := recV.(*ops.IteratorRecord)
	result := completion.Empty
	for {
		stepResult, c := ops.IteratorStep(rec)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if stepResult == nil {
			return result
		}
		v, c := ops.Q(ops.IteratorValue(stepResult))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}

		iterEnv := ec.Lexical
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok && decl.Kind != ast.Var {
			iterEnv = environment.NewDeclarative(ec.Lexical)
			for _, n := range patternBoundNames(decl.Declarations[0].ID) {
				iterEnv.CreateMutableBinding(n, false)
			}
		}
		iterCtx := ec.WithLexical(iterEnv)
		if bc := iterCtx.bindForTarget(s.Left, ast.Let, iterEnv, v.(values.Value)); bc.IsAbrupt() {
			return ec.realize(ops.IteratorClose(rec, bc))
		}

		bc := iterCtx.EvalStatement(s.Body)
		cont, out := loopResult(bc, label)
		if bc.Value != nil && !bc.IsAbrupt() {
			result = bc
		}
		if !cont {
			if out.IsAbrupt() {
				return ec.realize(ops.IteratorClose(rec, out))
			}
			return ec.realize(ops.IteratorClose(rec, completion.Empty))
		}
	}
}

// evalLabeledStatement dispatches to the label-aware loop evaluators so a
// labelled `continue outer` can target an enclosing loop by name; a
// labelled non-loop statement just absorbs a same-named break.
func (ec *EvalContext) evalLabeledStatement(s *ast.LabeledStatement) completion.Completion {
	switch body := s.Body.(type) {
	case *ast.WhileStatement:
		return ec.evalWhileStatement(body, s.Label)
	case *ast.DoWhileStatement:
		return ec.evalDoWhileStatement(body, s.Label)
	case *ast.ForStatement:
		return ec.evalForStatement(body, s.Label)
	case *ast.ForInStatement:
		return ec.evalForInStatement(body, s.Label)
	case *ast.ForOfStatement:
		return ec.evalForOfStatement(body, s.Label)
	case *ast.SwitchStatement:
		return ec.evalSwitchStatement(body, s.Label)
	}
	c := ec.EvalStatement(s.Body)
	if c.Type == completion.Break && (c.Target == "" || c.Target == s.Label) {
		return completion.Empty
	}
	return c
}

// evalTryStatement implements spec's TryStatement evaluation: the
// finally block always runs (even over a return/throw/break/continue from
// try or catch), and an abrupt completion from finally itself overrides
// whatever try/catch produced (spec's "Completion(B) is returned unless it
// is a throw completion, in which case finally's own completion wins").
func (ec *EvalContext) evalTryStatement(s *ast.TryStatement) completion.Completion {
	result := ec.evalBlock(s.Block.Body)
	if result.Type == completion.Throw && s.Handler != nil {
		catchEnv := ec.Lexical
		catchCtx := ec
		if s.Handler.Param != nil {
			catchEnv = environment.NewDeclarative(ec.Lexical)
			for _, n := range patternBoundNames(s.Handler.Param) {
				catchEnv.CreateMutableBinding(n, false)
			}
			catchCtx = ec.WithLexical(catchEnv)
			if c := catchCtx.bindPatternInit(catchEnv, s.Handler.Param, result.Value.(values.Value)); c.IsAbrupt() {
				result = c
				goto finally
			}
		}
		result = catchCtx.evalBlock(s.Handler.Body.Body)
	}
finally:
	if s.Finalizer != nil {
		fc := ec.evalBlock(s.Finalizer.Body)
		if fc.IsAbrupt() {
			return fc
		}
	}
	return result
}

// evalSwitchStatement implements spec's SwitchStatement evaluation: a
// strict-equals search for a matching case, falling through into
// subsequent clauses (including `default`, wherever it appears) once a
// match — or the default — is found, per spec's CaseBlockEvaluation.
func (ec *EvalContext) evalSwitchStatement(s *ast.SwitchStatement, label string) completion.Completion {
	discV, c := ops.Q(ec.EvalExpression(s.Discriminant))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	disc := discV.(values.Value)

	env := environment.NewDeclarative(ec.Lexical)
	var allStmts []ast.Statement
	for _, cs := range s.Cases {
		allStmts = append(allStmts, cs.Consequent...)
	}
	if c := ec.hoistBlockScope(allStmts, env); c.IsAbrupt() {
		return c
	}
	switchCtx := ec.WithLexical(env)

	matchIdx := -1
	defaultIdx := -1
	for i, cs := range s.Cases {
		if cs.Test == nil {
			defaultIdx = i
			continue
		}
		testV, c := ops.Q(switchCtx.EvalExpression(cs.Test))
		if ac, bad := switchCtx.abrupt(c); bad {
			return ac
		}
		if ops.StrictEquals(disc, testV.(values.Value)) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		matchIdx = defaultIdx
	}
	if matchIdx == -1 {
		return completion.Empty
	}

	result := completion.Empty
	for i := matchIdx; i < len(s.Cases); i++ {
		bc := switchCtx.EvalStatements(s.Cases[i].Consequent)
		if bc.Value != nil && !bc.IsAbrupt() {
			result = bc
		}
		if bc.Type == completion.Break && (bc.Target == "" || bc.Target == label) {
			return result
		}
		if bc.IsAbrupt() {
			return bc
		}
	}
	return result
}
