package diag

// Reporter is the minimal contract the lexers and the parser report through.
type Reporter interface {
	Report(p Problem)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Problem) {}

// BagReporter writes into *Bag. With FailOnError the first error aborts the
// parse via *AbortError.
type BagReporter struct {
	Bag         *Bag
	FailOnError bool
}

func (r BagReporter) Report(p Problem) {
	if r.Bag != nil {
		r.Bag.Add(p)
	}
	if r.FailOnError && p.Severity >= SevError {
		panic(&AbortError{Problem: p})
	}
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Problem)

func (f ReporterFunc) Report(p Problem) { f(p) }

// MultiReporter fans a problem out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(p Problem) {
	for _, r := range m {
		if r != nil {
			r.Report(p)
		}
	}
}
