package driver

import (
	"fmt"

	"xqlint/internal/dialect"
	"xqlint/internal/lexer"
	"xqlint/internal/source"
	"xqlint/internal/trace"
)

// detectDialect picks the features file starts parsing with. base stays when
// nothing in the file points at a dialect.
func detectDialect(file *source.File, base lexer.Features, tracer trace.Tracer) (lexer.Features, dialect.Kind) {
	cls := dialect.Detect(file)
	if tracer != nil && tracer.Enabled() {
		trace.Point(tracer, trace.ScopeModule, "dialect:"+file.Path,
			fmt.Sprintf("%s score=%d/%d confidence=%.2f extensions=%#x",
				cls.Kind, cls.Score, cls.TotalScore, cls.Confidence, uint32(cls.Extensions)))
	}
	return cls.Features(base), cls.Kind
}
