package rocplot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/pkg/errors"
)

func curve(t *testing.T) *metrics.ROC {
	t.Helper()
	roc, err := metrics.ROCCurve(
		mat.NewDense(4, 1, []float64{0, 0, 1, 1}),
		mat.NewDense(4, 1, []float64{0.1, 0.4, 0.35, 0.8}),
	)
	require.NoError(t, err)
	return roc
}

func TestNew(t *testing.T) {
	p, err := New(curve(t))
	require.NoError(t, err)
	assert.Equal(t, "Receiver Operating Characteristic", p.Title.Text)
	assert.Equal(t, "False Positive Rate", p.X.Label.Text)

	_, err = New(nil)
	assert.True(t, errors.IsValidation(err))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roc.png")
	require.NoError(t, Save(curve(t), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(curve(t), &buf, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, Write(curve(t), &buf, "nope"))
}
