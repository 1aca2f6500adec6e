package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSpecificLevelWriterFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	w := SpecificLevelWriter{Writer: &buf, Levels: []zerolog.Level{zerolog.ErrorLevel}}

	n, err := w.WriteLevel(zerolog.InfoLevel, []byte("skipped"))
	assert.NoError(t, err)
	assert.Equal(t, len("skipped"), n)
	assert.Empty(t, buf.String())

	_, err = w.WriteLevel(zerolog.ErrorLevel, []byte("kept"))
	assert.NoError(t, err)
	assert.Equal(t, "kept", buf.String())
}

func TestSetOutputRoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	SetDebug(true)
	t.Cleanup(func() {
		SetDebug(false)
	})

	Debugf("loaded %d files", 3)
	Errorf("broken %s", "thing")

	assert.Contains(t, out.String(), "loaded 3 files")
	assert.NotContains(t, out.String(), "broken thing")
	assert.Contains(t, errOut.String(), "broken thing")
}

func TestSetDebugOffHidesDebug(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out, &out)
	SetDebug(false)

	Debugf("hidden")
	Infof("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}
