package symbols

import "xqlint/internal/ast"

// LocalMapper runs in the processing pass, next to the checks. It keeps a full
// lexical scope stack over the library collected by the mapping pass, so a
// check looking up a name sees exactly the bindings in scope at its node.
type LocalMapper struct {
	fileState
	lib   *Library
	stack *Stack
}

func NewLocalMapper(lib *Library) *LocalMapper {
	m := &LocalMapper{lib: lib, stack: NewStack(lib.frame)}
	m.reset()
	return m
}

// Stack exposes the scope stack, mostly for tests and dumps.
func (m *LocalMapper) Stack() *Stack { return m.stack }

// BeginFile forgets the previous file and opens the file frame.
func (m *LocalMapper) BeginFile() {
	m.reset()
	m.stack.Reset()
	m.stack.Push(ScopeFile)
}

func (m *LocalMapper) EndFile() { m.stack.Reset() }

func (m *LocalMapper) EnterExpression(n *ast.Node) {
	switch n.Type {
	case ast.ModuleDecl:
		m.enterModuleDecl(n)
	case ast.ModuleImport:
		m.mapImport(n)
	case ast.VarDecl:
		m.stack.Define(newVarDecl(n, m.declaredNS()))
	case ast.FunctionDecl:
		m.stack.Define(newFunction(n, m.declaredNS()))
		m.pushParams(n)
	case ast.InlineFunctionExpr:
		m.pushParams(n)
	case ast.FLWORExpr:
		m.stack.Push(ScopeFLWOR)
	case ast.ForClause:
		m.bind(child(n, ast.ForName), typeOf(child(n, ast.ForType)), n.Line())
		if at := child(n, ast.ForAt); at != nil {
			m.bind(at, "xs:integer", at.Line())
		}
	case ast.LetClause:
		m.bind(child(n, ast.LetName), typeOf(child(n, ast.LetType)), n.Line())
	case ast.GroupingSpec:
		m.bind(n, typeOf(child(n, ast.TypeDeclaration)), n.Line())
	case ast.CountClause:
		m.bind(n, "xs:integer", n.Line())
	case ast.QuantifiedExpr:
		m.stack.Push(ScopeQuantified)
	case ast.QuantifiedBinding:
		m.bind(child(n, ast.QuantifiedName), typeOf(child(n, ast.QuantifiedType)), n.Line())
	case ast.CaseClause, ast.TypeswitchDefault:
		m.stack.Push(ScopeCase)
		if name := child(n, ast.CaseName); name != nil {
			m.bind(name, typeOf(child(n, ast.CaseType)), name.Line())
		}
	case ast.CatchClause:
		m.stack.Push(ScopeCatch)
		if errVar := child(n, ast.CatchError); errVar != nil {
			m.bind(errVar, "", errVar.Line())
		}
	}
}

func (m *LocalMapper) ExitExpression(n *ast.Node) {
	switch n.Type {
	case ast.FunctionDecl, ast.InlineFunctionExpr, ast.FLWORExpr, ast.QuantifiedExpr,
		ast.CaseClause, ast.TypeswitchDefault, ast.CatchClause:
		m.stack.Pop()
	case ast.MainModule:
		// each transaction of a file starts from a clean file frame
		m.stack.Reset()
		m.stack.Push(ScopeFile)
	}
}

// pushParams opens a function frame holding the parameters of n.
func (m *LocalMapper) pushParams(n *ast.Node) {
	frame := m.stack.Push(ScopeFunction)
	for _, p := range params(n) {
		frame.Define(p)
	}
}

// bind declares the variable named by the QName child of holder.
func (m *LocalMapper) bind(holder *ast.Node, typ string, line uint32) {
	name := child(holder, ast.QName).TextValue()
	if name == "" {
		return
	}
	m.stack.Define(NewVariable(name, "", typ, line))
}

func (m *LocalMapper) Lookup(key Key) Symbol { return m.stack.Lookup(key) }

func (m *LocalMapper) LookupVariable(qname string) *Declaration { return lookupVariable(m, qname) }

func (m *LocalMapper) LookupFunction(qname string) *Function { return lookupFunction(m, qname) }

func (m *LocalMapper) KnownNamespace(ns string) bool { return m.lib.HasNamespace(ns) }

// child is the first immediate child of type t. Nested expressions never
// answer for their parent.
func child(n *ast.Node, t ast.Type) *ast.Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// typeOf renders the sequence type held by a type node.
func typeOf(n *ast.Node) string {
	if n == nil {
		return ""
	}
	return n.TypeValue(n.Text())
}
