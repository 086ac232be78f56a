package main

import (
	"bytes"
	"encoding/json"

	"github.com/flowcsv/csvlex"
)

// encodeRecord renders a Record as one JSON object line, fields in header
// order. encoding/json.Marshal on a map would re-sort keys alphabetically
// and lose that order, so the object is assembled by hand, one field at a
// time, with json.Marshal doing only per-string escaping.
func encodeRecord(rec csvlex.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range rec.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		val, _ := rec.Get(key)
		v, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
