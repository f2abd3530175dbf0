package rewrite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/memogen/rewrite"
)

func TestChecksum(t *testing.T) {
	a := rewrite.Checksum([]byte("package p\n"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, rewrite.Checksum([]byte("package p\n")))
	assert.NotEqual(t, a, rewrite.Checksum([]byte("package q\n")))
}

func TestReadChecksum(t *testing.T) {
	src := []byte("package p\n\n//memogen:memoize\nfunc F(n int) int { return n }\n")
	res, err := rewrite.File("p.go", src, rewrite.Options{})
	require.NoError(t, err)

	sum, ok := rewrite.ReadChecksum(res.Source)
	require.True(t, ok)
	assert.Equal(t, rewrite.Checksum(src), sum)

	_, ok = rewrite.ReadChecksum(src)
	assert.False(t, ok)

	_, ok = rewrite.ReadChecksum([]byte("package p\n\n// memogen:checksum 0123\n"))
	assert.False(t, ok, "only the header is read")
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, suffix, want string
	}{
		{input: "fib.go", want: "fib_memo.go"},
		{input: filepath.Join("pkg", "fib.go"), want: filepath.Join("pkg", "fib_memo.go")},
		{input: "fib.go", suffix: "_gen.go", want: "fib_gen.go"},
		{input: "fib_test.go", want: "fib_memo_test.go"},
		{input: "fib_test.go", suffix: "_gen.go", want: "fib_gen_test.go"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rewrite.OutputPath(tt.input, tt.suffix))
	}
}
