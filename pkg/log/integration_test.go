package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bkerrors "github.com/basiskit/basiskit/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("hidden")
	testLogger.Info("info message", "key1", "value1", "number", 42)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorConvergence)

	assert.NotEmpty(t, buffer.String())
	assert.False(t, testLogger.ContainsMessage("hidden"))
	assert.True(t, testLogger.ContainsMessage("info message"))
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField("error", "boom"))
	assert.True(t, testLogger.ContainsField(ErrorCodeKey, ErrorConvergence))

	ctx := context.Background()
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)
	contextLogger := testLogger.With(ModelNameKey, "LogRegClassifier", ComponentKey, "linear")
	contextLogger.Info("training started", OperationKey, OperationTrain, SamplesKey, 100)

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "LogRegClassifier", entries[0][ModelNameKey])
	assert.Equal(t, "linear", entries[0][ComponentKey])
	assert.Equal(t, OperationTrain, entries[0][OperationKey])
	assert.Equal(t, 100.0, entries[0][SamplesKey])
}

func TestTestLoggerConcurrent(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				testLogger.Info("concurrent", "goroutine_id", id, "message_id", j)
			}
		}(g)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("not written")
	logger.With(ModelNameKey, "Network").Info("forward pass", LayersKey, 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "forward pass", entry["message"])
	assert.Equal(t, "Network", entry[ModelNameKey])
	assert.Equal(t, 3.0, entry[LayersKey])

	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestZerologLoggerErrorStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := bkerrors.NewValidationError("split", "must be within [0, 100]", 150)
	logger.Error("load failed", err, OperationKey, OperationLoad)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["error"], "validation failed for parameter 'split'")
	assert.Equal(t, OperationLoad, entry[OperationKey])
}

func TestSetupLoggerRoutesWarnings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLoggerWithWriter(&buf, "warn"))
	defer bkerrors.SetZerologWarnFunc(nil)

	bkerrors.Warn(bkerrors.NewConvergenceWarning("GradientDescent", 50, "tolerance not reached"))

	out := buf.String()
	assert.Contains(t, out, "GradientDescent failed to converge after 50 iterations")
	assert.Contains(t, out, "ConvergenceWarning")
	assert.Contains(t, out, "warnings")
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				assert.True(t, bkerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderSwap(t *testing.T) {
	p, buffer := NewTestLoggerProvider(LevelDebug)
	SetProvider(p)
	defer SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelWarn))

	GetLoggerWithName("optimize").Debug("swapped")
	assert.Contains(t, buffer.String(), "swapped")
	assert.True(t, p.Logger().ContainsField(ComponentKey, "optimize"))
}
