package trace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/pkg/heapkit"
)

func load(t *testing.T, doc string) *Trace {
	t.Helper()
	tr, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	return tr
}

func TestReference_Parses(t *testing.T) {
	tr := Reference()
	assert.Equal(t, "reference", tr.Name)
	assert.Equal(t, []Size{1 << 20, 3 << 20}, tr.Pools)
	require.NotEmpty(t, tr.Steps)
	assert.Equal(t, OpVerify, tr.Steps[len(tr.Steps)-1].Op)
}

func TestRun_Reference(t *testing.T) {
	rep, err := Run(Reference(), nil)
	require.NoError(t, err)
	require.False(t, rep.Failed())
	assert.Len(t, rep.Steps, len(Reference().Steps))

	require.Len(t, rep.Pools, 2)
	assert.Equal(t, heapkit.PoolStats{Pool: 0, Capacity: 1 << 20, Allocated: 0, Free: 1 << 20, LiveBlocks: 0}, rep.Pools[0])
	assert.Equal(t, heapkit.PoolStats{Pool: 1, Capacity: 3 << 20, Allocated: 0, Free: 3 << 20, LiveBlocks: 0}, rep.Pools[1])

	// First step is the oversize request.
	assert.Contains(t, rep.Steps[0].Detail, "out of memory")
	// The three 1 KiB blocks sit back to back at the start of pool 0.
	assert.Equal(t, 24, rep.Steps[5].Offset)
	assert.Equal(t, 24+1024+24, rep.Steps[6].Offset)
	assert.Equal(t, 2*(24+1024)+24, rep.Steps[7].Offset)
}

func TestRun_Mmap(t *testing.T) {
	tr := Reference()
	tr.Backing = "mmap"
	rep, err := Run(tr, nil)
	require.NoError(t, err)
	assert.Equal(t, "mmap", rep.Backing)
}

func TestRun_CheckMismatch(t *testing.T) {
	tr := load(t, `
name: mismatch
pools: [1KiB]
steps:
  - {op: alloc, pool: 0, size: 100, as: a}
  - {op: check, pool: 0, free: 0}
  - {op: free, ref: a}
`)
	rep, err := Run(tr, nil)
	require.Error(t, err)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, OpCheck, se.Op)
	assert.Contains(t, se.Error(), "free = 900, want 0")

	require.NotNil(t, rep)
	assert.True(t, rep.Failed())
	assert.Len(t, rep.Steps, 2)
	require.Len(t, rep.Pools, 1)
	assert.Equal(t, 124, rep.Pools[0].Allocated)
}

func TestRun_UnexpectedSuccess(t *testing.T) {
	tr := load(t, `
pools: [1KiB]
steps:
  - {op: alloc, pool: 0, size: 10, expect: fail}
`)
	_, err := Run(tr, nil)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Msg, "expected failure")
}

func TestRun_AllocFailureWrapsCause(t *testing.T) {
	tr := load(t, `
pools: [1KiB]
steps:
  - {op: alloc, pool: 0, size: 2KiB}
`)
	_, err := Run(tr, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, heapkit.ErrOutOfMemory)
}

func TestRun_ExpectedFailures(t *testing.T) {
	tr := load(t, `
pools: [1KiB]
steps:
  - {op: alloc, pool: 3, size: 10, expect: fail}
  - {op: alloc, pool: 0, size: 0, expect: fail}
  - {op: alloc, pool: 0, size: 1001, expect: fail}
  - {op: alloc, pool: 0, size: 1000}
  - {op: check, pool: 0, free: 0, live: 1}
`)
	rep, err := Run(tr, nil)
	require.NoError(t, err)
	assert.Contains(t, rep.Steps[0].Detail, "invalid argument")
	assert.Contains(t, rep.Steps[1].Detail, "invalid argument")
	assert.Contains(t, rep.Steps[2].Detail, "out of memory")
}

func TestRun_FreeUnknownRefIsNoop(t *testing.T) {
	tr := load(t, `
pools: [1KiB]
steps:
  - {op: alloc, pool: 0, size: 10, as: a}
  - {op: free, ref: nope}
  - {op: free, ref: a}
  - {op: free, ref: a}
  - {op: check, pool: 0, free: 1KiB, live: 0}
`)
	rep, err := Run(tr, nil)
	require.NoError(t, err)
	assert.Equal(t, "unknown ref nope", rep.Steps[1].Detail)
}

func TestRun_BadCapacity(t *testing.T) {
	tr := load(t, `
pools: [1KiB, 0]
steps: []
`)
	_, err := Run(tr, nil)
	require.ErrorIs(t, err, heapkit.ErrAllocationFailure)
	require.ErrorIs(t, err, heapkit.ErrInvalidArgument)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"empty":          {"", "empty document"},
		"no pools":       {"name: x\nsteps: []\n", "no pools"},
		"unknown field":  {"pools: [1K]\ncolour: red\n", "colour"},
		"unknown op":     {"pools: [1K]\nsteps: [{op: realloc}]\n", `unknown op "realloc"`},
		"missing op":     {"pools: [1K]\nsteps: [{pool: 0}]\n", "missing op"},
		"alloc no pool":  {"pools: [1K]\nsteps: [{op: alloc, size: 1}]\n", "alloc needs pool"},
		"free no ref":    {"pools: [1K]\nsteps: [{op: free}]\n", "free needs ref"},
		"check no field": {"pools: [1K]\nsteps: [{op: check, pool: 0}]\n", "check needs"},
		"bad expect":     {"pools: [1K]\nsteps: [{op: alloc, pool: 0, size: 1, expect: maybe}]\n", `unknown expect "maybe"`},
		"bad backing":    {"pools: [1K]\nbacking: disk\n", `unknown backing "disk"`},
		"bad size":       {"pools: [lots]\n", "bad size"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_StepIndexInError(t *testing.T) {
	_, err := Load(strings.NewReader("pools: [1K]\nsteps:\n  - {op: verify}\n  - {op: free}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pools: [4K]\nsteps: [{op: verify}]\n"), 0o644))

	tr, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Size{4096}, tr.Pools)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pools: []\n"), 0o644))
	_, err = LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReport_WriteText(t *testing.T) {
	rep, err := Run(Reference(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "trace: reference (backing heap)")
	assert.Contains(t, out, "1,048,576")
	assert.Contains(t, out, "3,145,728")
	assert.Contains(t, out, "CAPACITY")
	assert.NotContains(t, out, "FAILED")
}

func TestReport_WriteTextShowsFailure(t *testing.T) {
	tr := load(t, `
pools: [1KiB]
steps:
  - {op: check, pool: 0, live: 2}
`)
	rep, err := Run(tr, nil)
	require.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))
	assert.Contains(t, buf.String(), "FAILED: pool 0 live = 0, want 2")
}
