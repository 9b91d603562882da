package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// patternBoundNames collects every identifier a binding pattern introduces,
// in source order, used by both var/lexical hoisting and by the
// simple-parameter-list check that decides mapped vs unmapped arguments
// (spec's BoundNames).
func patternBoundNames(p ast.Pattern) []string {
	switch v := p.(type) {
	case *ast.Identifier:
		return []string{v.Name}
	case *ast.ArrayPattern:
		var out []string
		for _, el := range v.Elements {
			if el == nil {
				continue
			}
			out = append(out, patternBoundNames(el)...)
		}
		return out
	case *ast.ObjectPattern:
		var out []string
		for _, prop := range v.Properties {
			out = append(out, patternBoundNames(prop.Value)...)
		}
		if v.Rest != nil {
			out = append(out, patternBoundNames(v.Rest)...)
		}
		return out
	case *ast.AssignmentPattern:
		return patternBoundNames(v.Left)
	case *ast.RestElement:
		return patternBoundNames(v.Argument)
	}
	return nil
}

// isSimpleParameterList reports whether every parameter is a bare
// identifier with no default and no rest, the precondition spec.md §4.7
// gives for creating a mapped (rather than unmapped) arguments object.
func isSimpleParameterList(params []ast.Pattern) bool {
	for _, p := range params {
		if _, ok := p.(*ast.Identifier); !ok {
			return false
		}
	}
	return true
}

// varScopedNames walks stmts collecting every var-declared and
// function-declaration name reachable without crossing into a nested
// function body (spec's VarDeclaredNames), recursing into blocks, loop
// bodies, if/try/switch/labeled/with arms.
func varScopedNames(stmts []ast.Statement) []string {
	var out []string
	var walkStmt func(ast.Statement)
	walkStmt = func(s ast.Statement) {
		switch st := s.(type) {
		case *ast.VariableDeclaration:
			if st.Kind == ast.Var {
				for _, d := range st.Declarations {
					out = append(out, patternBoundNames(d.ID)...)
				}
			}
		case *ast.FunctionDeclaration:
			if st.ID != nil {
				out = append(out, st.ID.Name)
			}
		case *ast.BlockStatement:
			for _, s2 := range st.Body {
				walkStmt(s2)
			}
		case *ast.IfStatement:
			walkStmt(st.Consequent)
			if st.Alternate != nil {
				walkStmt(st.Alternate)
			}
		case *ast.ForStatement:
			if decl, ok := st.Init.(*ast.VariableDeclaration); ok {
				walkStmt(decl)
			}
			walkStmt(st.Body)
		case *ast.ForInStatement:
			if decl, ok := st.Left.(*ast.VariableDeclaration); ok {
				walkStmt(decl)
			}
			walkStmt(st.Body)
		case *ast.ForOfStatement:
			if decl, ok := st.Left.(*ast.VariableDeclaration); ok {
				walkStmt(decl)
			}
			walkStmt(st.Body)
		case *ast.WhileStatement:
			walkStmt(st.Body)
		case *ast.DoWhileStatement:
			walkStmt(st.Body)
		case *ast.TryStatement:
			walkStmt(st.Block)
			if st.Handler != nil {
				walkStmt(st.Handler.Body)
			}
			if st.Finalizer != nil {
				walkStmt(st.Finalizer)
			}
		case *ast.SwitchStatement:
			for _, c := range st.Cases {
				for _, s2 := range c.Consequent {
					walkStmt(s2)
				}
			}
		case *ast.LabeledStatement:
			walkStmt(st.Body)
		}
	}
	for _, s := range stmts {
		walkStmt(s)
	}
	return out
}

// topLevelFunctionDeclarations returns the FunctionDeclaration nodes
// appearing directly in stmts (not inside a nested block), which is what
// global/function declaration instantiation initializes eagerly rather
// than hoisting as undefined (spec's "function declarations are
// initialized before any code runs").
func topLevelFunctionDeclarations(stmts []ast.Statement) []*ast.FunctionDeclaration {
	var out []*ast.FunctionDeclaration
	for _, s := range stmts {
		if fd, ok := s.(*ast.FunctionDeclaration); ok {
			out = append(out, fd)
		}
	}
	return out
}

// lexicallyScopedDeclarations returns the let/const/class declarations
// appearing directly in stmts, used to create this block/script/function
// body's own declarative bindings (spec's LexicallyScopedDeclarations —
// never recurses into nested blocks, which own their own).
type lexicalDecl struct {
	names  []string
	isConst bool
	class  *ast.ClassDeclaration
}

func lexicallyScopedDeclarations(stmts []ast.Statement) []lexicalDecl {
	var out []lexicalDecl
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.VariableDeclaration:
			if st.Kind != ast.Var {
				var names []string
				for _, d := range st.Declarations {
					names = append(names, patternBoundNames(d.ID)...)
				}
				out = append(out, lexicalDecl{names: names, isConst: st.Kind == ast.Const})
			}
		case *ast.ClassDeclaration:
			if st.ID != nil {
				out = append(out, lexicalDecl{names: []string{st.ID.Name}, class: st})
			}
		}
	}
	return out
}

// globalDeclarationInstantiation implements spec.md §4.4/§4.7's
// GlobalDeclarationInstantiation: var names become configurable-false
// global-object properties (initialized to undefined, or — for a
// top-level function declaration — to the function value itself, right
// away rather than lazily), while let/const/class names become TDZ'd
// declarative bindings on the same global environment record.
func (ec *EvalContext) globalDeclarationInstantiation(body []ast.Statement, rec *environment.GlobalRecord) completion.Completion {
	lexNames := lexicallyScopedDeclarations(body)
	for _, ld := range lexNames {
		for _, n := range ld.names {
			if rec.HasRestrictedGlobalProperty(n) {
				return ec.ThrowSyntaxError("identifier '" + n + "' has already been declared")
			}
		}
	}
	funcDecls := topLevelFunctionDeclarations(body)
	declaredFuncNames := map[string]bool{}
	for i := len(funcDecls) - 1; i >= 0; i-- {
		fd := funcDecls[i]
		if declaredFuncNames[fd.ID.Name] {
			continue
		}
		declaredFuncNames[fd.ID.Name] = true
	}
	varNames := varScopedNames(body)
	for _, n := range varNames {
		if declaredFuncNames[n] {
			continue
		}
		if c := rec.CreateGlobalVarBinding(n, false); c.IsAbrupt() {
			return ec.realize(c)
		}
	}
	for _, fd := range funcDecls {
		fnObj := ec.makeFunctionObject(fd.Params, fd.Body, "normal", fd.Async, fd.Generator, nil, ec.Lexical, funcName(fd.ID))
		if c := rec.CreateGlobalFunctionBinding(fd.ID.Name, fnObj, false); c.IsAbrupt() {
			return ec.realize(c)
		}
	}
	for _, ld := range lexNames {
		for _, n := range ld.names {
			if ld.isConst {
				rec.CreateImmutableBinding(n, ec.Strict)
			} else {
				rec.CreateMutableBinding(n, false)
			}
		}
	}
	return completion.Empty
}

// unwrapExportsForHoisting strips the `export` wrapper off a module's
// top-level declarations so varScopedNames/lexicallyScopedDeclarations/
// topLevelFunctionDeclarations can hoist them exactly like a script's bare
// declarations: `export const x = 1` hoists `x` the same way `const x = 1`
// would. A named `export default function foo() {}`/`export default class
// Foo {}` also unwraps (it declares `foo`/`Foo` in module scope in addition
// to the default export); an anonymous or expression default only gets its
// "*default*" binding, created separately by moduleDeclarationInstantiation.
func unwrapExportsForHoisting(body []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(body))
	for _, s := range body {
		switch d := s.(type) {
		case *ast.ExportNamedDeclaration:
			if d.Declaration != nil {
				out = append(out, d.Declaration)
			}
		case *ast.ExportDefaultDeclaration:
			switch decl := d.Declaration.(type) {
			case *ast.FunctionDeclaration:
				if decl.ID != nil {
					out = append(out, decl)
				}
			case *ast.ClassDeclaration:
				if decl.ID != nil {
					out = append(out, decl)
				}
			}
		default:
			out = append(out, s)
		}
	}
	return out
}

// moduleDeclarationInstantiation implements the non-import half of spec.md
// §4.8's ModuleDeclarationInstantiation: hoist the module body's own
// var/let/const/function/class declarations directly onto its module
// environment record. Import bindings are wired separately by
// internal/module during Link (they resolve across the dependency SCC,
// which this evaluator-only method has no visibility into); export
// bindings need no separate step since every export name aliases one of
// the local bindings created here.
func (ec *EvalContext) moduleDeclarationInstantiation(body []ast.Statement, env *environment.ModuleRecord) completion.Completion {
	effective := unwrapExportsForHoisting(body)
	for _, n := range varScopedNames(effective) {
		if !env.HasBinding(n) {
			env.CreateMutableBinding(n, false)
			env.InitializeBinding(n, values.Undefined)
		}
	}
	for _, ld := range lexicallyScopedDeclarations(effective) {
		for _, n := range ld.names {
			if ld.isConst {
				env.CreateImmutableBinding(n, true)
			} else {
				env.CreateMutableBinding(n, false)
			}
		}
	}
	inner := ec.WithLexical(env)
	for _, fd := range topLevelFunctionDeclarations(effective) {
		fnObj := inner.makeFunctionObject(fd.Params, fd.Body, "normal", fd.Async, fd.Generator, nil, env, funcName(fd.ID))
		env.InitializeBinding(fd.ID.Name, fnObj)
	}
	for _, s := range body {
		if _, ok := s.(*ast.ExportDefaultDeclaration); ok {
			env.CreateMutableBinding("*default*", false)
		}
	}
	return completion.Empty
}

func funcName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

// hoistBlockScope creates the declarative env a block/function body needs
// for its own lexical declarations and nested function declarations — the
// shared core of BlockDeclarationInstantiation (statements.go's block
// handling) and the function-body portion of
// FunctionDeclarationInstantiation.
func (ec *EvalContext) hoistBlockScope(body []ast.Statement, env environment.Record) completion.Completion {
	for _, ld := range lexicallyScopedDeclarations(body) {
		for _, n := range ld.names {
			if ld.isConst {
				env.CreateImmutableBinding(n, ec.Strict)
			} else {
				env.CreateMutableBinding(n, false)
			}
		}
	}
	inner := ec.WithLexical(env)
	for _, fd := range topLevelFunctionDeclarations(body) {
		fnObj := inner.makeFunctionObject(fd.Params, fd.Body, "normal", fd.Async, fd.Generator, nil, env, funcName(fd.ID))
		env.InitializeBinding(fd.ID.Name, fnObj)
	}
	return completion.Empty
}

// functionDeclarationInstantiation implements spec.md §4.7's
// FunctionDeclarationInstantiation: bind parameters (creating an
// arguments object first unless a parameter is literally named
// "arguments" or the function is an arrow), then hoist the body's own
// var/function/lexical
// declarations into the same function environment (a separate "var
// environment" is only needed when parameter defaults/destructuring force
// a second environment — ecmax always binds parameters and body into one
// record, which is observably equivalent for every case that matters
// here since ecmax has no direct-eval).
func (ec *EvalContext) functionDeclarationInstantiation(fr *environment.FunctionRecord, params []ast.Pattern, body []ast.Statement, args []values.Value) completion.Completion {
	inner := ec.WithBoth(fr)
	paramNames := map[string]bool{}
	simpleNames := make([]string, 0, len(params))
	for _, p := range params {
		for _, n := range patternBoundNames(p) {
			if !paramNames[n] {
				paramNames[n] = true
				fr.CreateMutableBinding(n, false)
				fr.InitializeBinding(n, values.Undefined)
			}
		}
		if id, ok := p.(*ast.Identifier); ok {
			simpleNames = append(simpleNames, id.Name)
		} else {
			simpleNames = append(simpleNames, "")
		}
	}
	if !paramNames["arguments"] && fr.HasThisBinding() {
		var argsObj *object.Object
		proto := values.Value(ec.Realm.Intrinsics.ObjectPrototype)
		if ec.Strict || !isSimpleParameterList(params) {
			argsObj = object.NewObject(proto, ec.Realm)
			ops.CreateDataProperty(argsObj, values.StringKey("length"), values.Number(len(args)))
			for i, v := range args {
				ops.CreateDataProperty(argsObj, values.StringKey(formatIndex(uint32(i))), v)
			}
		} else {
			argsObj = object.NewMappedArgumentsObject(proto, ec.Realm, simpleNames, fr, len(args))
			ops.CreateDataProperty(argsObj, values.StringKey("length"), values.Number(len(args)))
			for i, v := range args {
				ops.CreateDataProperty(argsObj, values.StringKey(formatIndex(uint32(i))), v)
			}
		}
		fr.CreateMutableBinding("arguments", false)
		fr.InitializeBinding("arguments", argsObj)
	}
	for i, p := range params {
		var v values.Value = values.Undefined
		if i < len(args) {
			v = args[i]
		}
		if c := inner.bindPatternInit(fr, p, v); c.IsAbrupt() {
			return inner.realize(c)
		}
	}
	varNames := varScopedNames(body)
	for _, n := range varNames {
		if !fr.HasBinding(n) {
			fr.CreateMutableBinding(n, false)
			fr.InitializeBinding(n, values.Undefined)
		}
	}
	for _, ld := range lexicallyScopedDeclarations(body) {
		for _, n := range ld.names {
			if ld.isConst {
				fr.CreateImmutableBinding(n, true)
			} else {
				fr.CreateMutableBinding(n, false)
			}
		}
	}
	for _, fd := range topLevelFunctionDeclarations(body) {
		fnObj := inner.makeFunctionObject(fd.Params, fd.Body, "normal", fd.Async, fd.Generator, nil, fr, funcName(fd.ID))
		fr.InitializeBinding(fd.ID.Name, fnObj)
	}
	return completion.Empty
}
