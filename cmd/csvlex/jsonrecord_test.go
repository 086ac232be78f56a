package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcsv/csvlex"
)

func TestEncodeRecordPreservesHeaderOrder(t *testing.T) {
	toks, err := csvlex.LexAll(csvlex.Options{}, "z,a,m\n1,2,3")
	require.NoError(t, err)
	records, err := csvlex.AssembleAll(csvlex.AssemblerOptions{}, toks)
	require.NoError(t, err)
	require.Len(t, records, 1)

	line, err := encodeRecord(records[0])
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"2","m":"3"}`+"\n", string(line))
}

func TestEncodeRecordEscapesSpecialCharacters(t *testing.T) {
	toks, err := csvlex.LexAll(csvlex.Options{}, "name\n\"line1\nline2\"")
	require.NoError(t, err)
	records, err := csvlex.AssembleAll(csvlex.AssemblerOptions{}, toks)
	require.NoError(t, err)
	require.Len(t, records, 1)

	line, err := encodeRecord(records[0])
	require.NoError(t, err)
	assert.Equal(t, `{"name":"line1\nline2"}`+"\n", string(line))
}
