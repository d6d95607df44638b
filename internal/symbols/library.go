package symbols

// Library is the table of namespaced declarations collected over every file by
// the mapping pass. The processing pass reads it as the reserved bottom frame
// of each file's stack.
type Library struct {
	frame      *Frame
	namespaces map[string]struct{}
}

func NewLibrary() *Library {
	return &Library{frame: NewFrame(ScopeLibrary), namespaces: make(map[string]struct{})}
}

// AddNamespace records that a library module declares ns.
func (l *Library) AddNamespace(ns string) { l.namespaces[ns] = struct{}{} }

// HasNamespace reports whether any mapped library module declares ns.
func (l *Library) HasNamespace(ns string) bool {
	_, ok := l.namespaces[ns]
	return ok
}

func (l *Library) Define(s Symbol) { l.frame.Define(s) }

func (l *Library) Lookup(key Key) Symbol { return l.frame.Lookup(key) }

// Len is the number of declarations recorded so far.
func (l *Library) Len() int { return l.frame.Len() }

// merge copies the bindings of f into the library.
func (l *Library) merge(f *Frame) {
	for key, s := range f.symbols {
		l.frame.symbols[key] = s
	}
}
