/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer_test.go
Description: Tests for the report writer: directory creation, run-id shortened
file naming, and round-trippable JSON content.
*/

package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := map[string]interface{}{"shape": "[int range=1..3]", "sources": 2}

	path, err := WriteReport(dir, "b1946ac9-2f3e-4f8a-9d21-000000000000", report)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_b1946ac9.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "[int range=1..3]", got["shape"])
}

func TestWriteReportShortRunID(t *testing.T) {
	path, err := WriteReport(t.TempDir(), "run7", "ok")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_run7.json"))
}
