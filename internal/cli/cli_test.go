package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/memogen/internal/cli"
	"github.com/on-the-ground/memogen/internal/config"
)

const fibSource = `//go:build memogen

package fib

// Fib returns the n-th Fibonacci number.
//
//memogen:memoize
func Fib(n uint64) uint64 {
	if n < 2 {
		return n
	}
	return Fib(n-2) + Fib(n-1)
}
`

// run executes the root command with args and an environment, returning
// stdout and stderr separately.
func run(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdWithEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGenerateAndCheck(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fib.go", fibSource)

	_, _, err := run(t, nil, "generate", src)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "fib_memo.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "// Code generated by memogen from fib.go; DO NOT EDIT.")
	assert.Contains(t, string(out), "//go:build !memogen")
	assert.Contains(t, string(out), "func _Fib_aux(n uint64) uint64 {")

	_, _, err = run(t, nil, "check", src)
	require.NoError(t, err)

	writeFile(t, dir, "fib.go", fibSource+"\n// edited\n")
	_, _, err = run(t, nil, "check", src)
	assert.ErrorIs(t, err, cli.ErrStale)
}

func TestCheck_Missing(t *testing.T) {
	src := writeFile(t, t.TempDir(), "fib.go", fibSource)

	_, _, err := run(t, nil, "check", src)
	assert.ErrorIs(t, err, cli.ErrMissingOutput)
}

func TestCheck_NoChecksum(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fib.go", fibSource)
	writeFile(t, dir, "fib_memo.go", "package fib\n")

	_, _, err := run(t, nil, "check", src)
	assert.ErrorIs(t, err, cli.ErrNoChecksum)
}

func TestGenerate_Stdout(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fib.go", fibSource)

	stdout, _, err := run(t, nil, "generate", "--stdout", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "var _FIB_CACHE = memo.NewCache(")
	assert.NoFileExists(t, filepath.Join(dir, "fib_memo.go"))
}

func TestGenerate_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fib.go", fibSource)
	other := writeFile(t, dir, "other.go", fibSource)
	target := filepath.Join(dir, "custom.go")

	_, _, err := run(t, nil, "generate", "-o", target, src)
	require.NoError(t, err)
	assert.FileExists(t, target)

	_, _, err = run(t, nil, "generate", "-o", target, src, other)
	assert.ErrorIs(t, err, cli.ErrOutputWithManyFiles)
}

func TestGenerate_ContainerSources(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fib.go", fibSource)
	cfgPath := writeFile(t, dir, "memogen.yaml", "container: sorted\noutput_suffix: _gen.go\n")

	_, _, err := run(t, nil, "--config", cfgPath, "generate", src)
	require.NoError(t, err)
	out, err := os.ReadFile(filepath.Join(dir, "fib_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "memo.NewSortedStore[uint64, uint64]")

	env := map[string]string{config.EnvContainer: "tree"}
	_, _, err = run(t, env, "--config", cfgPath, "generate", src)
	require.NoError(t, err)
	out, err = os.ReadFile(filepath.Join(dir, "fib_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "memo.NewTreeStore[uint64, uint64]", "the environment overrides the file")

	_, _, err = run(t, env, "--config", cfgPath, "generate", "--container", "hash", src)
	require.NoError(t, err)
	out, err = os.ReadFile(filepath.Join(dir, "fib_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "memo.NewHashStore[uint64, uint64]", "the flag overrides the environment")

	_, _, err = run(t, nil, "generate", "--container", "[]int", src)
	require.Error(t, err)
}

func TestGenerate_RejectedFunction(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.go", fibSource)
	bad := writeFile(t, dir, "bad.go", "//go:build memogen\n\npackage fib\n\n//memogen:memoize\nfunc Len(xs []int) int { return len(xs) }\n")

	_, _, err := run(t, nil, "generate", "-j", "2", bad, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.go:6:")
	assert.NoFileExists(t, filepath.Join(dir, "bad_memo.go"))
	assert.FileExists(t, filepath.Join(dir, "good_memo.go"), "other files are still generated")
}

func TestGenerate_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "plain.go", "package fib\n\nfunc One() int { return 1 }\n")

	_, _, err := run(t, nil, "generate", src)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "plain_memo.go"))
}

func TestLoggingFlags(t *testing.T) {
	src := writeFile(t, t.TempDir(), "fib.go", fibSource)

	_, stderr, err := run(t, nil, "--log-format", "json", "generate", src)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"run_id":`)
	assert.Contains(t, stderr, `"msg":"generated"`)
	assert.NotContains(t, stderr, "configuration resolved")

	_, stderr, err = run(t, nil, "--log-format", "json", "--debug", "generate", src)
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration resolved")

	_, _, err = run(t, map[string]string{config.EnvLogLevel: "loud"}, "generate", src)
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestGenerate_TestSuffixIsRejected(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fib.go", fibSource)
	tests := writeFile(t, dir, "fib_test.go", "package fib\n")

	_, _, err := run(t, map[string]string{config.EnvOutputSuffix: "_test.go"}, "generate", src)
	require.ErrorIs(t, err, config.ErrInvalidOutputSuffix)

	got, err := os.ReadFile(tests)
	require.NoError(t, err)
	assert.Equal(t, "package fib\n", string(got))
}
