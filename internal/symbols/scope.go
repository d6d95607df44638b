package symbols

// ScopeKind tells what opened a frame.
type ScopeKind uint8

const (
	ScopeInvalid    ScopeKind = iota
	ScopeLibrary              // reserved, shared across files
	ScopeFile                 // one per file or transaction
	ScopeFunction             // function and inline function bodies
	ScopeFLWOR                // for/let/group/count bindings
	ScopeQuantified           // some/every bindings
	ScopeCase                 // typeswitch case variable
	ScopeCatch                // catch ($e)
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeLibrary:
		return "library"
	case ScopeFile:
		return "file"
	case ScopeFunction:
		return "function"
	case ScopeFLWOR:
		return "flwor"
	case ScopeQuantified:
		return "quantified"
	case ScopeCase:
		return "case"
	case ScopeCatch:
		return "catch"
	default:
		return "invalid"
	}
}

// Frame holds the bindings of one lexical block.
type Frame struct {
	Kind    ScopeKind
	symbols map[Key]Symbol
}

func NewFrame(kind ScopeKind) *Frame {
	return &Frame{Kind: kind, symbols: make(map[Key]Symbol)}
}

// Define binds s, replacing an earlier binding of the same key.
func (f *Frame) Define(s Symbol) {
	f.symbols[s.Decl().Key()] = s
}

func (f *Frame) Lookup(key Key) Symbol {
	return f.symbols[key]
}

func (f *Frame) Len() int { return len(f.symbols) }

// Stack is the scope stack of one traversal. The bottom frames are reserved:
// Pop and Reset never remove them.
type Stack struct {
	frames   []*Frame
	reserved int
}

// NewStack starts a stack on top of the given reserved frames.
func NewStack(reserved ...*Frame) *Stack {
	frames := make([]*Frame, len(reserved), len(reserved)+8)
	copy(frames, reserved)
	return &Stack{frames: frames, reserved: len(reserved)}
}

func (s *Stack) Push(kind ScopeKind) *Frame {
	f := NewFrame(kind)
	s.frames = append(s.frames, f)
	return f
}

// Pop drops the innermost frame. It reports false when only reserved frames
// are left; the stack is unchanged then.
func (s *Stack) Pop() bool {
	if len(s.frames) <= s.reserved {
		return false
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Reset drops every frame above the reserved ones.
func (s *Stack) Reset() {
	for s.Pop() {
	}
}

// Top is the innermost frame, nil on an empty stack.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Frame returns the i-th frame from the bottom.
func (s *Stack) Frame(i int) *Frame {
	if i < 0 || i >= len(s.frames) {
		return nil
	}
	return s.frames[i]
}

func (s *Stack) Depth() int    { return len(s.frames) }
func (s *Stack) Reserved() int { return s.reserved }

// Define binds s in the innermost frame.
func (s *Stack) Define(sym Symbol) {
	if top := s.Top(); top != nil {
		top.Define(sym)
	}
}

// Lookup searches from the innermost frame outwards; the first match wins.
func (s *Stack) Lookup(key Key) Symbol {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym := s.frames[i].Lookup(key); sym != nil {
			return sym
		}
	}
	return nil
}
