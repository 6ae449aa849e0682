package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCompile is the integration-test harness: write src to a temp file,
// drive the root command exactly as a real invocation would, and hand back
// stdout/stderr for assertion.
func runCompile(t *testing.T, src string, extraArgs ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags()
	dir := t.TempDir()
	path := filepath.Join(dir, "case.c")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	args := append([]string{"--no-color"}, extraArgs...)
	args = append(args, path)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestIntegrationArithmeticFunctions(t *testing.T) {
	out, errOut, err := runCompile(t, `
int square(int n) { return n * n; }
int main() {
	int x = square(5);
	return x;
}`)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "square:")
	assert.Contains(t, out, "call\tsquare")
	assert.Contains(t, out, "imull")
}

func TestIntegrationControlFlowAndLoops(t *testing.T) {
	out, errOut, err := runCompile(t, `
int main() {
	int i, sum;
	sum = 0;
	for (i = 0; i < 10; i = i + 1) {
		if (i == 5) continue;
		sum = sum + i;
	}
	return sum;
}`)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "jmp")
	assert.Contains(t, out, "jne")
}

func TestIntegrationSwitchStatement(t *testing.T) {
	out, errOut, err := runCompile(t, `
int main() {
	int c, x;
	c = 2;
	switch (c) {
	case 1: x = 10; break;
	case 2: x = 20; break;
	default: x = 30;
	}
	return x;
}`)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "main:")
}

func TestIntegrationStructsAndFloats(t *testing.T) {
	out, errOut, err := runCompile(t, `
struct Point { int x; int y; };
float scale(float f) { return f * 2.0; }
int main() {
	struct Point p;
	p.x = 1;
	p.y = 2;
	float r = scale(1.5);
	return p.x + p.y;
}`)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "flds")
	assert.Contains(t, out, "fmuls")
}

func TestIntegrationVariadicPrintf(t *testing.T) {
	out, errOut, err := runCompile(t, `
int main() {
	char c;
	float f;
	c = 'A';
	f = 3.5;
	printf("%d %c %f\n", 1, c, f);
	return 0;
}`)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "call\tprintf")
	assert.Contains(t, out, "fstpl\t(%esp)")
}

func TestIntegrationDiagnosticRendering(t *testing.T) {
	_, errOut, err := runCompile(t, `int main() { return undeclared_var; }`)
	assert.Error(t, err)
	assert.Contains(t, errOut, "error:")
}

func TestIntegrationDebugFlagEmitsTrace(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := filepath.Join(dir, "case.c")
	require.NoError(t, os.WriteFile(path, []byte(`int main() { return 1; }`), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--debug", "--no-color", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut, "reducing function definition")
}
