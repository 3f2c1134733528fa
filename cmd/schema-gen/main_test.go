package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGroupSchema_Basket(t *testing.T) {
	schema := generateGroupSchema(groups[0])
	assert.Equal(t, "Basket API Types", schema["title"])

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var parsed struct {
		Defs map[string]struct {
			Required   []string                   `json:"required"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	for _, name := range []string{"PricingRequest", "Comparison", "StoreQuote", "Line"} {
		assert.Contains(t, parsed.Defs, name)
	}
	assert.Contains(t, parsed.Defs["PricingRequest"].Required, "lines")

	var grand map[string]any
	require.NoError(t, json.Unmarshal(parsed.Defs["StoreQuote"].Properties["grandTotal"], &grand))
	assert.Equal(t, "string", grand["type"])
}

func TestWriteSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recognition.json")
	require.NoError(t, writeSchema(generateGroupSchema(groups[3]), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Result"`)
}
