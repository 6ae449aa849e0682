package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/namangup/Group-10-CS335-Project/internal/codegen"
	"github.com/namangup/Group-10-CS335-Project/internal/diag"
	"github.com/namangup/Group-10-CS335-Project/internal/translate"
	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
	"github.com/namangup/Group-10-CS335-Project/pkg/builtins"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Flags bound by newRootCmd.
var (
	debug      bool
	outPath    string
	noColor    bool
	configPath string
)

// ErrCompileFailed is returned by RunE when the translation unit has
// diagnostics; the failing run already rendered them to stderr, so the
// root command is set up to silence cobra's own error/usage printing.
var ErrCompileFailed = fmt.Errorf("compilation failed")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cs335cc [file]",
		Short: "cs335cc compiles a restricted C subset to 32-bit x86 AT&T assembly",
		Long: `cs335cc is the CS335 course compiler: a lexer, a recursive-descent
parser performing syntax-directed translation into three-address code, and a
register-allocating code generator emitting 32-bit x86 AT&T assembly.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return compile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "emit verbose parse/translate/codegen trace")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output assembly path (default: stdout)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostics")
	rootCmd.Flags().StringVar(&configPath, "config", "", "sidecar *.cc.yaml with extra library signatures")

	return rootCmd
}

// compile drives the full pipeline for one source file: lex+parse+translate,
// code generation, and assembly printing, rendering accumulated diagnostics
// on failure (§7).
func compile(filename string, out, errOut io.Writer) error {
	logrus.SetOutput(errOut)
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("cs335cc: %w", err)
	}

	sigs, err := loadSignatures(filename)
	if err != nil {
		return fmt.Errorf("cs335cc: %w", err)
	}

	tr := translate.New(string(src), sigs)
	ok := tr.Parse()

	useColor := !noColor
	if f, isFile := errOut.(*os.File); isFile {
		useColor = useColor && diag.ShouldColor(f)
	}
	if !ok {
		renderer := diag.NewRenderer(errOut, !useColor)
		renderer.RenderAll(tr.Diags)
		return ErrCompileFailed
	}

	prog := codegen.Generate(tr)

	w := out
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("cs335cc: %w", err)
		}
		defer f.Close()
		w = f
	}
	asm.NewPrinter(w).PrintProgram(prog)
	return nil
}

// loadSignatures builds the builtin library signature table, extended by a
// sidecar *.cc.yaml passed via --config or found next to the input file
// (§6/Ambient stack's "Configuration" note). Absence of an implicit sidecar
// is not an error; an explicit --config that fails to load is.
func loadSignatures(filename string) ([]builtins.Signature, error) {
	sigs := builtins.Defaults()

	path := configPath
	if path == "" {
		candidate := implicitSidecarPath(filename)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" {
		return sigs, nil
	}

	extra, err := builtins.LoadSidecar(path)
	if err != nil {
		return nil, fmt.Errorf("loading sidecar config %s: %w", path, err)
	}
	return append(sigs, extra...), nil
}

func implicitSidecarPath(filename string) string {
	dir := filepath.Dir(filename)
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return filepath.Join(dir, base+".cc.yaml")
}
