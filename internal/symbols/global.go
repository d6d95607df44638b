package symbols

import "xqlint/internal/ast"

// GlobalMapper runs in the mapping pass. It records what other files can see:
// variables and functions declared in a library module, under its namespace.
// Everything else is left to the LocalMapper of the processing pass.
//
// A file's declarations are staged and reach the library at EndFile only, so
// a file whose walk is cut short leaves nothing behind.
type GlobalMapper struct {
	fileState
	lib    *Library
	staged *Frame
}

func NewGlobalMapper(lib *Library) *GlobalMapper {
	m := &GlobalMapper{lib: lib}
	m.BeginFile()
	return m
}

func (m *GlobalMapper) Library() *Library { return m.lib }

// BeginFile drops whatever an unfinished file staged.
func (m *GlobalMapper) BeginFile() {
	m.reset()
	m.staged = NewFrame(ScopeLibrary)
}

// EndFile commits the file's declarations to the library.
func (m *GlobalMapper) EndFile() {
	if m.inModule {
		m.lib.AddNamespace(m.namespace)
	}
	m.lib.merge(m.staged)
	m.staged = NewFrame(ScopeLibrary)
}

func (m *GlobalMapper) EnterExpression(n *ast.Node) {
	switch n.Type {
	case ast.ModuleDecl:
		m.enterModuleDecl(n)
	case ast.ModuleImport:
		m.mapImport(n)
	case ast.VarDecl:
		if m.inModule {
			m.staged.Define(newVarDecl(n, m.namespace))
		}
	case ast.FunctionDecl:
		if m.inModule {
			m.staged.Define(newFunction(n, m.namespace))
		}
	}
}

func (m *GlobalMapper) ExitExpression(*ast.Node) {}

func (m *GlobalMapper) Lookup(key Key) Symbol {
	if s := m.staged.Lookup(key); s != nil {
		return s
	}
	return m.lib.Lookup(key)
}

func (m *GlobalMapper) LookupVariable(qname string) *Declaration { return lookupVariable(m, qname) }

func (m *GlobalMapper) LookupFunction(qname string) *Function { return lookupFunction(m, qname) }

func (m *GlobalMapper) KnownNamespace(ns string) bool {
	return (m.inModule && ns == m.namespace) || m.lib.HasNamespace(ns)
}
