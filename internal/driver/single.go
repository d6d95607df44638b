package driver

import (
	"fortio.org/safecast"

	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/parser"
	"xqlint/internal/source"
	"xqlint/internal/token"
	"xqlint/internal/trace"
)

// SingleOptions tune Tokenize and Parse.
type SingleOptions struct {
	MaxDiagnostics int
	Features       lexer.Features
	Detect         bool
	NormalizeNFC   bool
	Tracer         trace.Tracer
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize returns the token stream of one file as the parser consumed it, so
// string and markup bodies come out of the lexer that actually scanned them.
func Tokenize(path string, opts SingleOptions) (*TokenizeResult, error) {
	res, err := Parse(path, opts)
	if err != nil {
		return nil, err
	}
	return &TokenizeResult{
		FileSet: res.FileSet,
		File:    res.File,
		Tokens:  res.Tokens,
		Bag:     res.Bag,
	}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *ast.Node
	Nodes   uint32
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Parse loads and parses one file.
func Parse(path string, opts SingleOptions) (*ParseResult, error) {
	fs := source.NewFileSet()
	fs.SetNormalizeNFC(opts.NormalizeNFC)
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return nil, err
	}

	features := opts.Features
	if opts.Detect {
		features, _ = detectDialect(file, features, opts.Tracer)
	}
	res, err := parser.Parse(file, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		Features:  features,
		MaxErrors: maxErrors,
		Tracer:    opts.Tracer,
	})
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Root:    res.Root,
		Nodes:   res.Nodes,
		Tokens:  res.Tokens,
		Bag:     bag,
	}, nil
}
