package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	mimeType, data, err := decodeDataURI("data:application/pdf;base64,JVBERi0xLjQ=")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	cases := []string{
		"not a uri",
		"data:application/pdf",
		"data:application/pdf;utf8,hello",
		"data:application/pdf;base64,!!!",
	}
	for _, c := range cases {
		_, _, err := decodeDataURI(c)
		assert.Error(t, err, "input %q", c)
	}
}
