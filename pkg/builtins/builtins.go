// Package builtins registers the library function signatures spec §6 treats
// as external collaborators — printf/scanf, the math library, the string
// library, and the malloc family — into a symbol table's global scope at
// startup, the way original_source/src/codegen.py's math_func_list and the
// hand-coded parameter tables drive pseudo-op selection in the reference
// implementation.
package builtins

import (
	"os"

	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
	"github.com/namangup/Group-10-CS335-Project/pkg/symtab"
	"gopkg.in/yaml.v3"
)

// Category selects the calling-convention pseudo-ops the code generator
// must emit for a call to this function (§4.2's "Function call" note).
type Category int

const (
	// CategoryOrdinary pushes arguments with plain `param` TAC ops.
	CategoryOrdinary Category = iota
	// CategoryVariadicIO is printf/scanf: arguments use printf_push_float /
	// printf_push_char / ordinary param depending on operand type.
	CategoryVariadicIO
	// CategoryMathUnary is a single-argument x87 math routine
	// (math_func_push_{int,float}).
	CategoryMathUnary
	// CategoryMathBinary is pow/fmod, whose two arguments both cross the
	// x87 stack (pow_func_push_*).
	CategoryMathBinary
)

// Signature is one registered library function: its declared parameter
// types (for call-site arity/type checking and implicit cast insertion, per
// §4.2) and the pseudo-op category the generator dispatches on.
type Signature struct {
	Name       string
	ParamTypes []ctype.Type
	ReturnType ctype.Type
	Category   Category
}

func voidPtr() ctype.Type { return ctype.PointerTo(ctype.Scalar(ctype.Void)) }

// Defaults is the fixed set spec §6 requires to be pre-declared in the
// global scope, independent of any sidecar configuration.
func Defaults() []Signature {
	intT := ctype.Scalar(ctype.Int)
	floatT := ctype.Scalar(ctype.Float)
	voidT := ctype.Scalar(ctype.Void)
	charPtr := ctype.PointerTo(ctype.Scalar(ctype.Char))

	sigs := []Signature{
		{"printf", []ctype.Type{charPtr, voidT}, voidT, CategoryVariadicIO},
		{"scanf", []ctype.Type{charPtr, voidT}, voidT, CategoryVariadicIO},
		{"abs", []ctype.Type{intT}, intT, CategoryOrdinary},
		{"strlen", []ctype.Type{charPtr}, intT, CategoryOrdinary},
		{"strcmp", []ctype.Type{charPtr, charPtr}, intT, CategoryOrdinary},
		{"strlwr", []ctype.Type{charPtr}, charPtr, CategoryOrdinary},
		{"strupr", []ctype.Type{charPtr}, charPtr, CategoryOrdinary},
		{"strrev", []ctype.Type{charPtr}, charPtr, CategoryOrdinary},
		{"strcpy", []ctype.Type{charPtr, charPtr}, charPtr, CategoryOrdinary},
		{"strcat", []ctype.Type{charPtr, charPtr}, charPtr, CategoryOrdinary},
		{"malloc", []ctype.Type{intT}, voidPtr(), CategoryOrdinary},
		{"calloc", []ctype.Type{intT, intT}, voidPtr(), CategoryOrdinary},
		{"realloc", []ctype.Type{voidPtr(), intT}, voidPtr(), CategoryOrdinary},
		{"free", []ctype.Type{voidPtr()}, voidT, CategoryOrdinary},
		{"pow", []ctype.Type{floatT, floatT}, floatT, CategoryMathBinary},
		{"fmod", []ctype.Type{floatT, floatT}, floatT, CategoryMathBinary},
	}
	for _, name := range []string{
		"sqrt", "ceil", "floor", "fabs", "log", "log10", "exp",
		"cos", "sin", "acos", "asin", "tan", "atan",
	} {
		sigs = append(sigs, Signature{name, []ctype.Type{floatT}, floatT, CategoryMathUnary})
	}
	return sigs
}

// Register installs signatures into tab's global scope as function entries,
// skipping any name already declared there (so a sidecar extension file
// cannot silently shadow a fixed §6 builtin). It returns the names that
// collided and were left untouched.
func Register(tab *symtab.Table, sigs []Signature) (skipped []string) {
	for _, s := range sigs {
		if _, exists := tab.LookupLocal(s.Name); exists {
			skipped = append(skipped, s.Name)
			continue
		}
		tab.Insert(&symtab.Entry{
			Name:          s.Name,
			Kind:          symtab.KindFunction,
			Type:          s.ReturnType,
			ReturnType:    s.ReturnType,
			ParamTypes:    s.ParamTypes,
			NumParameters: len(s.ParamTypes),
			VarScope:      symtab.ScopeGlobal,
		})
	}
	return skipped
}

// sidecarFile is the YAML shape of a `*.cc.yaml` sidecar config: a flat
// list of extra library functions a project wants the translator to treat
// as pre-declared, beyond the fixed Defaults() set.
type sidecarFile struct {
	Functions []sidecarFunc `yaml:"functions"`
}

type sidecarFunc struct {
	Name     string   `yaml:"name"`
	Params   []string `yaml:"params"`
	Return   string   `yaml:"return"`
	Category string   `yaml:"category"`
}

// LoadSidecar reads and parses a sidecar config file at path, translating
// its plain-string type names through parseTypeName. A missing file is not
// an error — callers only invoke this when --config/an adjacent *.cc.yaml
// was actually found.
func LoadSidecar(path string) ([]Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc sidecarFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	sigs := make([]Signature, 0, len(doc.Functions))
	for _, f := range doc.Functions {
		params := make([]ctype.Type, 0, len(f.Params))
		for _, p := range f.Params {
			params = append(params, parseTypeName(p))
		}
		sigs = append(sigs, Signature{
			Name:       f.Name,
			ParamTypes: params,
			ReturnType: parseTypeName(f.Return),
			Category:   parseCategory(f.Category),
		})
	}
	return sigs, nil
}

// parseTypeName resolves the small set of scalar spellings a sidecar file
// may use; a trailing "*" denotes one pointer level, matching the C
// declarator syntax the rest of the translator reads.
func parseTypeName(name string) ctype.Type {
	ptr := 0
	for len(name) > 0 && name[len(name)-1] == '*' {
		ptr++
		name = name[:len(name)-1]
	}
	var base ctype.Base
	switch name {
	case "int":
		base = ctype.Int
	case "short":
		base = ctype.Short
	case "char":
		base = ctype.Char
	case "bool":
		base = ctype.Bool
	case "float":
		base = ctype.Float
	case "void":
		base = ctype.Void
	default:
		base = ctype.Int
	}
	t := ctype.Scalar(base)
	t.Ptr = ptr
	return t
}

func parseCategory(name string) Category {
	switch name {
	case "variadic_io":
		return CategoryVariadicIO
	case "math_unary":
		return CategoryMathUnary
	case "math_binary":
		return CategoryMathBinary
	default:
		return CategoryOrdinary
	}
}

// Lookup finds a registered signature by name (used by the translator to
// pick the call's pseudo-op category without a symbol table round-trip).
func Lookup(sigs []Signature, name string) (Signature, bool) {
	for _, s := range sigs {
		if s.Name == name {
			return s, true
		}
	}
	return Signature{}, false
}
