package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarRendersToCompletion(t *testing.T) {
	var out bytes.Buffer
	b := NewBar(&out)

	b.Start(100)
	b.Set(50)
	assert.Contains(t, out.String(), "50%")

	b.Finish()
	assert.Contains(t, out.String(), "100%")
	assert.Contains(t, out.String(), "[")
	assert.Contains(t, out.String(), "]")
}

func TestBarIgnoresCallsBeforeStart(t *testing.T) {
	var out bytes.Buffer
	b := NewBar(&out)

	b.Set(3)
	b.Finish()
	assert.Empty(t, out.String())
}
