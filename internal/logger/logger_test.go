package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelInfo))

	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).Component("apiclient")

	l.Info("request")

	assert.Contains(t, buf.String(), "component=apiclient")
}
