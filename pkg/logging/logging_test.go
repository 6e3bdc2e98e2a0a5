/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for the logging system. Tests logger creation, configuration
validation, formatting with pipeline-stage prefixes, file output, the analysis
logging helpers, and log file management.
*/

package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerCreation tests logger creation with different configurations
func TestLoggerCreation(t *testing.T) {
	// Default configuration writes under ./logs
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Close()
	os.RemoveAll("./logs")

	config := &LoggerConfig{
		Level:     LogLevelDebug,
		Format:    LogFormatJSON,
		OutputDir: t.TempDir(),
		MaxFiles:  5,
		MaxSize:   1024 * 1024,
		Timestamp: true,
		Caller:    true,
		Colors:    false,
	}
	logger, err = NewLogger(config)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	defer logger.Close()
}

// TestLoggerCreatesLogFile verifies a log file appears in the output dir
func TestLoggerCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(&LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		OutputDir: dir,
		MaxFiles:  3,
		MaxSize:   1024 * 1024,
	})
	require.NoError(t, err)
	defer logger.Close()

	files, err := filepath.Glob(filepath.Join(dir, "shapely_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

// TestConfigValidation tests LoggerConfig validation
func TestConfigValidation(t *testing.T) {
	valid := &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		OutputDir: "./logs",
		MaxFiles:  3,
		MaxSize:   1024,
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*LoggerConfig)
	}{
		{"empty output dir", func(c *LoggerConfig) { c.OutputDir = "" }},
		{"zero max files", func(c *LoggerConfig) { c.MaxFiles = 0 }},
		{"zero max size", func(c *LoggerConfig) { c.MaxSize = 0 }},
		{"bad format", func(c *LoggerConfig) { c.Format = "xml" }},
		{"bad level", func(c *LoggerConfig) { c.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := *valid
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

// TestLogLevels tests different log levels
func TestLogLevels(t *testing.T) {
	logger, err := NewLogger(&LoggerConfig{
		Level:     LogLevelDebug,
		Format:    LogFormatText,
		OutputDir: t.TempDir(),
		MaxFiles:  3,
		MaxSize:   1024 * 1024,
	})
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("Debug message", map[string]interface{}{"key": "value"})
	logger.Info("Info message", map[string]interface{}{"key": "value"})
	logger.Warning("Warning message", map[string]interface{}{"key": "value"})
	logger.Error("Error message", map[string]interface{}{"key": "value"})
}

// TestLogFormats tests different log formats
func TestLogFormats(t *testing.T) {
	formats := []LogFormat{LogFormatText, LogFormatJSON, LogFormatCustom}

	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			logger, err := NewLogger(&LoggerConfig{
				Level:     LogLevelInfo,
				Format:    format,
				OutputDir: t.TempDir(),
				MaxFiles:  3,
				MaxSize:   1024 * 1024,
				Timestamp: true,
			})
			require.NoError(t, err)
			defer logger.Close()

			logger.Info("Test message", map[string]interface{}{
				"test_key": "test_value",
				"number":   42,
			})
		})
	}
}

// TestAnalysisLogging tests the analysis-specific logging methods
func TestAnalysisLogging(t *testing.T) {
	logger, err := NewLogger(&LoggerConfig{
		Level:     LogLevelDebug,
		Format:    LogFormatText,
		OutputDir: t.TempDir(),
		MaxFiles:  3,
		MaxSize:   1024 * 1024,
		Timestamp: true,
	})
	require.NoError(t, err)
	defer logger.Close()

	logger.LogSource("data.json", "json", 1500, map[string]interface{}{
		"size_bytes": 20480,
	})
	logger.LogPass("build", 120*time.Millisecond, nil)
	logger.LogPass("merge", 45*time.Millisecond, nil)
	logger.LogBadValues("price", 3, 1000, map[string]interface{}{
		"sample": "n/a",
	})
	logger.LogReport("b1946ac9-2f3e-4f8a-9d21-000000000000", 2, 165*time.Millisecond, nil)
}

// TestLogManager tests log management functionality
func TestLogManager(t *testing.T) {
	logDir := t.TempDir()
	manager := NewLogManager(logDir, 3, 1024, false)

	testFiles := []string{
		"shapely_2024-01-01_10-00-00.log",
		"shapely_2024-01-01_11-00-00.log",
		"shapely_2024-01-01_12-00-00.log",
		"shapely_2024-01-01_13-00-00.log",
	}
	for _, filename := range testFiles {
		file, err := os.Create(filepath.Join(logDir, filename))
		require.NoError(t, err)
		file.Close()
	}

	err := manager.CleanupOldLogs()
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(logDir, "shapely_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalFiles)
}

// TestCustomFormatter tests the custom formatter
func TestCustomFormatter(t *testing.T) {
	formatter := &CustomFormatter{
		Timestamp: true,
		Caller:    false,
		Colors:    false,
	}

	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "Test message",
		Time:    time.Now(),
		Data: logrus.Fields{
			"key1": "value1",
			"key2": 42,
		},
	}

	formatted, err := formatter.Format(entry)
	require.NoError(t, err)
	formattedStr := string(formatted)
	assert.Contains(t, formattedStr, "INFO")
	assert.Contains(t, formattedStr, "Test message")
	assert.Contains(t, formattedStr, "key1=value1")
	assert.Contains(t, formattedStr, "key2=42")
}

// TestStagePrefixes tests the pipeline-stage prefixes on log messages
func TestStagePrefixes(t *testing.T) {
	formatter := &CustomFormatter{}

	testCases := []struct {
		message string
		prefix  string
	}{
		{"Source decoded", "DECODE"},
		{"build pass finished", "BUILD"},
		{"merge pass finished", "MERGE"},
		{"Bad values in column", "CONVERT"},
		{"report ready", "REPORT"},
		{"Random message", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.message, func(t *testing.T) {
			entry := &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Time:    time.Now(),
				Data:    logrus.Fields{},
			}
			formatted, err := formatter.Format(entry)
			require.NoError(t, err)
			formattedStr := string(formatted)

			if tc.prefix != "" {
				assert.Contains(t, formattedStr, "["+tc.prefix+"]")
			} else {
				assert.NotContains(t, formattedStr, "[")
			}
		})
	}
}

// TestRunIDTruncation tests that long run ids render shortened
func TestRunIDTruncation(t *testing.T) {
	formatter := &CustomFormatter{}
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "report ready",
		Time:    time.Now(),
		Data:    logrus.Fields{"run_id": "b1946ac9-2f3e-4f8a-9d21-000000000000"},
	}
	formatted, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(formatted), "run_id=b1946ac9...")
}
