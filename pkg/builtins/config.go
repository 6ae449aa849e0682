package builtins

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
)

// configFile is the `*.cc.yaml` sidecar shape: a flat list of extra library
// signatures a project wants registered alongside the §6 defaults, e.g. for
// a course assignment that extends the builtin set.
type configFile struct {
	Functions []configFunc `yaml:"functions"`
}

type configFunc struct {
	Name     string   `yaml:"name"`
	Params   []string `yaml:"params"`
	Return   string   `yaml:"return,omitempty"`
	Category string   `yaml:"category,omitempty"`
}

var typeNames = map[string]ctype.Base{
	"int":   ctype.Int,
	"short": ctype.Short,
	"char":  ctype.Char,
	"bool":  ctype.Bool,
	"float": ctype.Float,
	"void":  ctype.Void,
}

var categoryNames = map[string]Category{
	"":            CategoryOrdinary,
	"ordinary":    CategoryOrdinary,
	"variadic_io": CategoryVariadicIO,
	"math_unary":  CategoryMathUnary,
	"math_binary": CategoryMathBinary,
}

func parseTypeName(s string) (ctype.Type, error) {
	ptr := 0
	for len(s) > 0 && s[len(s)-1] == '*' {
		ptr++
		s = s[:len(s)-1]
	}
	base, ok := typeNames[s]
	if !ok {
		return ctype.Type{}, fmt.Errorf("builtins: unknown type name %q in sidecar config", s)
	}
	t := ctype.Scalar(base)
	for i := 0; i < ptr; i++ {
		t = ctype.PointerTo(t)
	}
	return t, nil
}

// LoadSidecar reads a `*.cc.yaml` config (per SPEC_FULL.md's ambient config
// section) and returns the extra signatures it declares, on top of the
// fixed Defaults(). A missing path is not an error — the sidecar is
// optional, matching the CLI's --config flag semantics.
func LoadSidecar(path string) ([]Signature, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("builtins: reading sidecar config: %w", err)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("builtins: parsing sidecar config %s: %w", path, err)
	}

	sigs := make([]Signature, 0, len(cfg.Functions))
	for _, fn := range cfg.Functions {
		params := make([]ctype.Type, 0, len(fn.Params))
		for _, p := range fn.Params {
			t, err := parseTypeName(p)
			if err != nil {
				return nil, fmt.Errorf("builtins: function %q: %w", fn.Name, err)
			}
			params = append(params, t)
		}
		ret := ctype.Scalar(ctype.Void)
		if fn.Return != "" {
			t, err := parseTypeName(fn.Return)
			if err != nil {
				return nil, fmt.Errorf("builtins: function %q: %w", fn.Name, err)
			}
			ret = t
		}
		cat, ok := categoryNames[fn.Category]
		if !ok {
			return nil, fmt.Errorf("builtins: function %q: unknown category %q", fn.Name, fn.Category)
		}
		sigs = append(sigs, Signature{Name: fn.Name, ParamTypes: params, ReturnType: ret, Category: cat})
	}
	return sigs, nil
}
