package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriterTagsLines(t *testing.T) {
	var buf bytes.Buffer
	pw := &prefixWriter{w: &buf, prefix: []byte("[web] ")}

	n, err := pw.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "[web] one\n[web] two\n", buf.String())
}

func TestPrefixWriterHandlesSplitLines(t *testing.T) {
	var buf bytes.Buffer
	pw := &prefixWriter{w: &buf, prefix: []byte("[web] ")}

	// A line arriving in several chunks gets exactly one prefix.
	for _, chunk := range []string{"par", "tial", " line\n", "next"} {
		_, err := pw.Write([]byte(chunk))
		require.NoError(t, err)
	}
	assert.Equal(t, "[web] partial line\n[web] next", buf.String())
}

func TestPrefixWriterEmptyWrite(t *testing.T) {
	var buf bytes.Buffer
	pw := &prefixWriter{w: &buf, prefix: []byte("[web] ")}

	n, err := pw.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())
}
