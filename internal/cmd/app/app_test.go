package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncCounter is zapcore.WriteSyncer that counts Sync calls.
type syncCounter struct {
	bytes.Buffer
	synced int
}

func (s *syncCounter) Sync() error {
	s.synced++
	return nil
}

func newLogger(ws *syncCounter) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, ws, zapcore.DebugLevel))
}

func TestExecute(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		var (
			ws     syncCounter
			stderr bytes.Buffer
		)
		code := execute(context.Background(), newLogger(&ws), &stderr, func(ctx context.Context, lg *zap.Logger) error {
			lg.Info("Working")
			return errors.New("failed")
		})
		require.Equal(t, 2, code)
		require.Contains(t, stderr.String(), "Error: failed")
		require.Equal(t, 1, ws.synced)
		require.Contains(t, ws.String(), "Working")
	})
	t.Run("OK", func(t *testing.T) {
		var (
			ws     syncCounter
			stderr bytes.Buffer
		)
		code := execute(context.Background(), newLogger(&ws), &stderr, func(ctx context.Context, lg *zap.Logger) error {
			return nil
		})
		require.Zero(t, code)
		require.Empty(t, stderr.String())
		require.Equal(t, 1, ws.synced)
	})
}
