package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basiskit/basiskit"
	"github.com/basiskit/basiskit/pkg/errors"
)

// writeSeparable writes rows "id,x,label" whose label is M iff x > 0.
// Signs alternate so every prefix of the file holds both classes.
func writeSeparable(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,x,diagnosis\n")
	for i := 0; i < 20; i++ {
		x, label := -(i + 1), "B"
		if i%2 == 1 {
			x, label = i+1, "M"
		}
		fmt.Fprintf(&b, "%d,%d,%s\n", i, x, label)
	}
	path := filepath.Join(t.TempDir(), "separable.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, basiskit.Version+"\n", out)
}

func TestEvaluate(t *testing.T) {
	data := writeSeparable(t)
	roc := filepath.Join(t.TempDir(), "roc.png")

	out, err := run(t, "evaluate",
		"--data", data, "--class0", "B", "--class1", "M",
		"--skip", "1", "--header", "--split", "50",
		"--learning-rate", "0.5", "--max-iter", "500",
		"--roc", roc, "--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Classification Report")
	assert.Contains(t, out, "Accuracy: 1.0000 | AUC: 1.0000")

	info, err := os.Stat(roc)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestEvaluateRejectsBadSplit(t *testing.T) {
	data := writeSeparable(t)
	_, err := run(t, "evaluate", "--data", data, "--class0", "B", "--class1", "M",
		"--skip", "1", "--header", "--split", "120")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNetwork(t *testing.T) {
	data := writeSeparable(t)
	out, err := run(t, "network",
		"--data", data, "--class0", "B", "--class1", "M",
		"--skip", "1", "--header", "--split", "100",
		"--depth", "1", "--widths", "1,2,1", "--seed", "7",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "output")
	assert.Contains(t, out, "20")
}
