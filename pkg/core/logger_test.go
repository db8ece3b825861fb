package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut, "translucent", false)

	logger.Printf("loaded %d materials", 3)
	logger.Warnf("named material %q not found", "Bogus")
	logger.Debugf("hidden")

	assert.Contains(t, out.String(), "[translucent] INFO: loaded 3 materials")
	assert.Contains(t, errOut.String(), `[translucent] WARN: named material "Bogus" not found`)
	assert.False(t, strings.Contains(out.String(), "hidden"), "debug output should be suppressed")

	logger.SetDebug(true)
	logger.Debugf("visible")
	assert.Contains(t, out.String(), "DEBUG: visible")
}
