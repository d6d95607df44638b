package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"xqlint/internal/driver"
)

const maxSeedBytes = 64 << 10

// languageSeeds cover each lexer mode at least once.
var languageSeeds = []string{
	"",
	"xquery version '1.0-ml';\n1 + 1",
	"module namespace m = 'urn:m';\ndeclare function m:f($x as xs:int) as xs:int { $x };",
	"import module namespace lib = 'urn:lib' at 'lib.xqy';\nlib:f(1)",
	"for $x at $i in (1, 2) let $y := $x order by $y descending return $y",
	"//item[@id = '1']/text()",
	"let $s := \"a &amp; b &#65; c\" return $s",
	"<a href=\"{1}\" b='x''y'><!-- c --><![CDATA[ <raw> ]]>{ <b/> }</a>",
	"(: nested (: comment :) :) xdmp:log('x'); xdmp:eval('1')",
	"declare variable $v := try { 1 } catch ($e) { 2 };",
	"copy $c := <a/> modify insert node <b/> into $c return $c",
	"1e3 .5 5. 0x1F",
	"<a>{",
	"\"unterminated",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds the XQuery files under the repository testdata
// directory, when there is one.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !slices.Contains(driver.DefaultExtensions, filepath.Ext(path)) {
			return nil
		}
		// #nosec G304 -- path comes from the repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
