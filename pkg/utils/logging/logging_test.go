package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merca-lab/mercabot/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	f, err := logging.ParseFormat("json")
	gt.NoError(t, err)
	gt.Value(t, f).Equal(logging.FormatJSON)

	f, err = logging.ParseFormat("")
	gt.NoError(t, err)
	gt.Value(t, f).Equal(logging.FormatConsole)

	_, err = logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lv, err := logging.ParseLevel("warn")
	gt.NoError(t, err)
	gt.Value(t, lv).Equal(slog.LevelWarn)

	_, err = logging.ParseLevel("loud")
	gt.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	gt.Value(t, logging.From(ctx)).Equal(logging.Default())

	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)
	ctx = logging.With(ctx, logger)
	gt.Value(t, logging.From(ctx)).Equal(logger)
}

func TestRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	type contact struct {
		Phone string
		Email string
	}
	logger.Info("customer updated", "contact", contact{Phone: "3001234567", Email: "ana@example.com"})

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
	gt.Bool(t, strings.Contains(buf.String(), "3001234567")).False()
	gt.Bool(t, strings.Contains(buf.String(), "ana@example.com")).False()
}
