package lexer

// Features is the dialect bit mask. A lexer or parser tests it at the point where
// a construct is met, since the query text declares its dialect mid-stream.
type Features uint32

const (
	XQuery    Features = 0
	Update    Features = 1
	Scripting Features = 3 // implies Update
	FullText  Features = 4
	Zorba     Features = 8
	MarkLogic Features = 0x10
	XQuery30  Features = 0x20
)

// Has reports whether every bit of mask is set. XQuery (0) is always present.
func (f Features) Has(mask Features) bool {
	return f&mask == mask
}

// Any reports whether at least one bit of mask is set.
func (f Features) Any(mask Features) bool {
	return f&mask != 0
}

// Enable sets the bits of flag.
func (f *Features) Enable(flag Features) {
	*f |= flag
}

// Disable clears the bits of flag.
func (f *Features) Disable(flag Features) {
	*f &^= flag
}

// Set enables or disables flag.
func (f *Features) Set(flag Features, on bool) {
	if on {
		f.Enable(flag)
	} else {
		f.Disable(flag)
	}
}

// FeaturesForVersion maps an `xquery version` string to the features it enables.
// ok is false for versions this front end does not recognise.
func FeaturesForVersion(version string) (Features, bool) {
	switch version {
	case "1.0-ml", "0.9-ml":
		return MarkLogic, true
	case "3.0", "3.1":
		return XQuery30, true
	case "1.0":
		return XQuery, true
	default:
		return XQuery, false
	}
}
