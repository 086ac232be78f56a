package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParseEmitsJSONLinesInHeaderOrder(t *testing.T) {
	var out bytes.Buffer
	err := runParse(context.Background(), strings.NewReader("name,age\nAda,36\nGrace,85\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, `{"name":"Ada","age":"36"}`+"\n"+`{"name":"Grace","age":"85"}`+"\n", out.String())
}

func TestRunParsePropagatesLexError(t *testing.T) {
	saved := rootFlags.maxBufferSize
	rootFlags.maxBufferSize = 2
	defer func() { rootFlags.maxBufferSize = saved }()

	var out bytes.Buffer
	err := runParse(context.Background(), strings.NewReader("waytoolong,b\n1,2"), &out)
	assert.Error(t, err)
}
