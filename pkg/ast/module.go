package ast

// ImportSpecifier binds one name out of a module's namespace. Local ==
// Imported for a non-renamed named import; Imported == "" for a default or
// namespace import (Default/Namespace below disambiguate).
type ImportSpecifier struct {
	Base
	Local     string
	Imported  string
	Default   bool
	Namespace bool
}

type ImportDeclaration struct {
	StmtBase
	Specifiers []*ImportSpecifier
	Source     string
}

// ExportSpecifier renames Local to Exported in a named re-export or
// `export { a as b }`.
type ExportSpecifier struct {
	Base
	Local    string
	Exported string
}

// ExportNamedDeclaration covers `export { ... }`, `export { ... } from
// "m"`, and `export const/let/function ...` (Declaration non-nil, no
// Specifiers).
type ExportNamedDeclaration struct {
	StmtBase
	Declaration Statement // non-nil for `export <decl>`, else nil
	Specifiers  []*ExportSpecifier
	Source      string // non-empty for a re-export
}

type ExportDefaultDeclaration struct {
	StmtBase
	Declaration Node // Expression or *FunctionDeclaration or *ClassDeclaration
}

type ExportAllDeclaration struct {
	StmtBase
	Source string
	As     string // non-empty for `export * as ns from "m"`
}

// ImportExpression is the dynamic `import(specifier)` call-like form.
type ImportExpression struct {
	ExprBase
	Source Expression
}
