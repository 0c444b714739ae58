package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	logLevel, logDir = "", ""
	demoBacking, runBacking = "", ""
	stressPools = []string{"1MiB", "3MiB"}
	stressOps, stressSeed, stressMaxSize = 2000, 1, "4KiB"
	stressBacking, stressVerify = "heap", 100
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// writeTrace writes a trace document into a temp dir and returns its path.
func writeTrace(t *testing.T, name, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// decodeJSON unmarshals output into v, failing the test on bad JSON.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
}
