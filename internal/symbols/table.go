package symbols

import (
	"sort"

	"xqlint/internal/ast"
)

// Table is the read side of a mapper, what checks resolve names against.
type Table interface {
	// Lookup finds a declaration by identity, innermost scope first.
	Lookup(key Key) Symbol
	// LookupVariable resolves the prefix of qname and finds the variable.
	LookupVariable(qname string) *Declaration
	// LookupFunction resolves the prefix of qname and finds the function.
	LookupFunction(qname string) *Function
	// ResolveNamespace maps the prefix of qname to a namespace: the module's
	// own prefix first, then the imports of the current file.
	ResolveNamespace(qname string) (string, bool)
	Import(prefix string) *Import
	// Imports lists the imports of the current file by prefix.
	Imports() []*Import
	// ModuleNamespace is the declared namespace of the current library module.
	ModuleNamespace() (prefix, ns string, ok bool)
	// KnownNamespace reports whether the mapping pass saw a library module
	// declaring ns.
	KnownNamespace(ns string) bool
}

// Mapper is a Table that is filled by walking a tree. BeginFile and EndFile
// bracket each file; Enter and Exit see every node in pre- and post-order.
type Mapper interface {
	Table
	BeginFile()
	EndFile()
	EnterExpression(n *ast.Node)
	ExitExpression(n *ast.Node)
}

// fileState is what both mappers reset at file entry.
type fileState struct {
	prefix    string
	namespace string
	inModule  bool
	imports   map[string]*Import
}

func (f *fileState) reset() {
	*f = fileState{imports: make(map[string]*Import)}
}

func (f *fileState) ModuleNamespace() (string, string, bool) {
	return f.prefix, f.namespace, f.inModule
}

func (f *fileState) Import(prefix string) *Import {
	return f.imports[prefix]
}

func (f *fileState) Imports() []*Import {
	out := make([]*Import, 0, len(f.imports))
	for _, imp := range f.imports {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

func (f *fileState) ResolveNamespace(qname string) (string, bool) {
	prefix := Prefix(qname)
	if prefix == "" {
		return "", false
	}
	if f.inModule && prefix == f.prefix {
		return f.namespace, true
	}
	if imp := f.imports[prefix]; imp != nil {
		return imp.Namespace, true
	}
	return "", false
}

// declaredNS is the namespace new declarations go into: the module namespace
// in a library module, none in a main module.
func (f *fileState) declaredNS() string {
	if f.inModule {
		return f.namespace
	}
	return ""
}

// enterModuleDecl takes `module namespace p = "uri"`.
func (f *fileState) enterModuleDecl(n *ast.Node) {
	f.prefix = n.TextValueOf("ModulePrefix")
	f.namespace = n.ValueOf("StringLiteral")
	f.inModule = true
}

// mapImport takes `import module namespace p = "uri" at "hint", ...`. Imports
// without a prefix cannot be referenced and are skipped.
func (f *fileState) mapImport(n *ast.Node) {
	prefix := n.TextValueOf("ModulePrefix")
	if prefix == "" {
		return
	}
	imp := &Import{
		Prefix:    prefix,
		Namespace: n.ValueOf("ModuleNamespace.StringLiteral"),
		Line:      n.Line(),
	}
	if hints := n.Find("ModuleAtHints"); hints != nil {
		for _, lit := range hints.Children {
			if lit.Is(ast.StringLiteral) {
				imp.Hints = append(imp.Hints, lit.Value())
			}
		}
	}
	f.imports[prefix] = imp
}

// lookupVariable and lookupFunction share the prefix handling of both mappers.
func lookupVariable(t Table, qname string) *Declaration {
	ns, _ := t.ResolveNamespace(qname)
	if sym := t.Lookup(VariableKey(qname, ns)); sym != nil {
		return sym.Decl()
	}
	return nil
}

func lookupFunction(t Table, qname string) *Function {
	ns, _ := t.ResolveNamespace(qname)
	if fn, ok := t.Lookup(FunctionKey(qname, ns)).(*Function); ok {
		return fn
	}
	return nil
}

// newFunction builds the declaration of a FunctionDecl node.
func newFunction(n *ast.Node, ns string) *Function {
	fn := NewFunction(n.TextValueOf("FunctionName.QName"), ns, typeOf(child(n, ast.ReturnType)), n.Line())
	for _, p := range params(n) {
		fn.AddParam(p)
	}
	return fn
}

// params declares the parameters of a function or inline function node.
func params(n *ast.Node) []*Declaration {
	list := child(n, ast.ParamList)
	if list == nil {
		return nil
	}
	out := make([]*Declaration, 0, list.Len())
	for _, p := range list.Children {
		out = append(out, NewVariable(p.TextValueOf("ParamName.QName"), "", typeOf(child(p, ast.TypeDeclaration)), p.Line()))
	}
	return out
}

func newVarDecl(n *ast.Node, ns string) *Declaration {
	return NewVariable(n.TextValueOf("VarName.QName"), ns, typeOf(child(n, ast.VarType)), n.Line())
}
