// Package config reads xqlint.toml (or xqlint.yaml) and turns it into the rule
// selection and settings of an analysis run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"xqlint/internal/check"
	"xqlint/internal/lexer"
)

// FileNames are the configuration files Find looks for, in order.
var FileNames = []string{"xqlint.toml", "xqlint.yaml", "xqlint.yml"}

// ErrUnsupportedFormat is returned for a configuration file that is neither
// TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// Config is the merged configuration of a run.
type Config struct {
	Path string // file the configuration came from, "" for defaults

	Analyze Analyze
	Rules   Rules
}

// Analyze holds the [analyze] section.
type Analyze struct {
	Extensions   []string `toml:"extensions" yaml:"extensions"`
	Dialect      string   `toml:"dialect" yaml:"dialect"`
	Features     []string `toml:"features" yaml:"features"`
	FailOnError  bool     `toml:"fail_on_error" yaml:"fail_on_error"`
	NormalizeNFC bool     `toml:"normalize_nfc" yaml:"normalize_nfc"`
	MaxProblems  int      `toml:"max_problems" yaml:"max_problems"`
	Jobs         int      `toml:"jobs" yaml:"jobs"`
	NoDirectives bool     `toml:"no_directives" yaml:"no_directives"`
}

// Rules holds the [rules] section. Enable empty means every rule; Disable is
// applied after Enable.
type Rules struct {
	Enable  []string                  `toml:"enable" yaml:"enable"`
	Disable []string                  `toml:"disable" yaml:"disable"`
	Params  map[string]map[string]any `toml:"params" yaml:"params"`
}

// Default is the configuration used when no file is found.
func Default() *Config {
	return &Config{Analyze: Analyze{MaxProblems: 100}}
}

// Find walks up from startDir looking for a configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a configuration file; the format follows the extension.
func Load(path string) (*Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(path, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(path, cfg)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the configuration found from startDir, or the defaults.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Dir is the directory of the configuration file, "" for defaults.
func (c *Config) Dir() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Select resolves the rule selection against r. Every key the configuration
// names must be registered.
func (c *Config) Select(r *check.Registry) (keys []string, params map[string]check.Params, err error) {
	known := func(key string) error {
		if _, ok := r.Rule(key); ok {
			return nil
		}
		uerr := &check.UnknownRuleError{Key: key, Suggestions: r.Suggest(key)}
		if c.Path != "" {
			return fmt.Errorf("%s: %w", c.Path, uerr)
		}
		return uerr
	}

	keys = c.Rules.Enable
	if len(keys) == 0 {
		keys = r.Keys()
	}
	for _, key := range slices.Concat(keys, c.Rules.Disable) {
		if err := known(key); err != nil {
			return nil, nil, err
		}
	}
	keys = slices.DeleteFunc(slices.Clone(keys), func(key string) bool {
		return slices.Contains(c.Rules.Disable, key)
	})

	params = make(map[string]check.Params, len(c.Rules.Params))
	for key, p := range c.Rules.Params {
		if err := known(key); err != nil {
			return nil, nil, err
		}
		params[key] = check.Params(p)
	}
	return keys, params, nil
}

var featureNames = map[string]lexer.Features{
	"update":    lexer.Update,
	"scripting": lexer.Scripting,
	"fulltext":  lexer.FullText,
	"zorba":     lexer.Zorba,
	"marklogic": lexer.MarkLogic,
	"xquery30":  lexer.XQuery30,
}

// DetectDialect reports whether the dialect of each file is guessed from its
// content ("auto").
func (c *Config) DetectDialect() bool {
	return strings.EqualFold(strings.TrimSpace(c.Analyze.Dialect), "auto")
}

// Features is the dialect the parser starts with: the dialect setting, which is
// an `xquery version` string or "marklogic", plus the named features. With
// "auto" the named features are the base that detection adds to.
func (c *Config) Features() (lexer.Features, error) {
	var f lexer.Features
	switch d := strings.ToLower(strings.TrimSpace(c.Analyze.Dialect)); d {
	case "", "xquery", "auto":
	case "marklogic":
		f = lexer.MarkLogic
	default:
		v, ok := lexer.FeaturesForVersion(d)
		if !ok {
			return 0, fmt.Errorf("unknown dialect %q", c.Analyze.Dialect)
		}
		f = v
	}
	for _, name := range c.Analyze.Features {
		flag, ok := featureNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown feature %q", name)
		}
		f.Enable(flag)
	}
	return f, nil
}
