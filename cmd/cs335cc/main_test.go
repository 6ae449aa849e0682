package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	debug = false
	outPath = ""
	noColor = false
	configPath = ""
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, version)
}

func TestFlagsExist(t *testing.T) {
	resetFlags()
	cmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	for _, name := range []string{"debug", "out", "no-color", "config"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected --%s to be registered", name)
	}
}

func TestNoArgsShowsHelp(t *testing.T) {
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(nil)
	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "cs335cc")
}

func TestCompileValidSourceSucceeds(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "ok.c")
	require.NoError(t, os.WriteFile(src, []byte(`int main(){ int a=2,b=3; return a*b+1; }`), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--no-color", src})
	err := cmd.Execute()
	require.NoError(t, err)
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), ".globl\tmain")
	assert.Contains(t, out.String(), "\t.text")
}

func TestCompileSyntaxErrorFails(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.c")
	require.NoError(t, os.WriteFile(src, []byte(`int main(){ return 1 }`), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--no-color", src})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.NotEmpty(t, errOut.String())
	assert.Empty(t, out.String())
}

func TestCompileMissingFileFails(t *testing.T) {
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.c")})
	err := cmd.Execute()
	assert.Error(t, err)
}

func TestCompileWritesOutputFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "ok.c")
	require.NoError(t, os.WriteFile(src, []byte(`int main(){ return 0; }`), 0o644))
	dst := filepath.Join(dir, "ok.s")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-o", dst, src})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, out.String())
	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "main:")
}

func TestSidecarConfigExtendsSignatures(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "extra.cc.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
functions:
  - name: my_helper
    params: ["int"]
    return: "int"
    category: ordinary
`), 0o644))
	src := filepath.Join(dir, "ok.c")
	require.NoError(t, os.WriteFile(src, []byte(`int main(){ return my_helper(1); }`), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--config", cfg, "--no-color", src})
	err := cmd.Execute()
	require.NoError(t, err, errOut.String())
	assert.Contains(t, out.String(), "call\tmy_helper")
}

func TestImplicitSidecarPath(t *testing.T) {
	got := implicitSidecarPath("/tmp/prog.c")
	assert.Equal(t, "/tmp/prog.cc.yaml", got)
}
