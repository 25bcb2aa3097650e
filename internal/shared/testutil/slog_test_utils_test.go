package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("table normalized", slog.String("table", "Sales"))
		logger.Error("pipeline failed", slog.Int("rows", 3))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("normalized"))
		assert.True(t, handler.ContainsAttr("table", "Sales"))
		assert.True(t, handler.ContainsAttr("rows", int64(3)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
		AssertNoErrors(t, handler)
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "pipeline")).
			WithGroup("join").
			Warn("unmatched rows", slog.Int("count", 2))

		rec, ok := handler.Find("unmatched")
		require.True(t, ok)
		assert.Equal(t, "pipeline", rec.Attrs["component"])
		assert.Equal(t, int64(2), rec.Attrs["join.count"])
		AssertLogAttr(t, handler, "component", "pipeline")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		handler.Clear()
		assert.Zero(t, handler.Count())
	})
}
