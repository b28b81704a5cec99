package logger

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRunID is the structured log field key for a matching run identifier.
	FieldRunID = "run_id"
	// FieldSeed is the structured log field key for the tie-break seed.
	FieldSeed = "seed"

	unseeded = "unseeded"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RunFields describes a matching run. A nil seed is logged as "unseeded".
func RunFields(runID string, seed *int64) []zap.Field {
	seedValue := unseeded
	if seed != nil {
		seedValue = strconv.FormatInt(*seed, 10)
	}

	return StringFields(
		StringField{Key: FieldRunID, Value: runID},
		StringField{Key: FieldSeed, Value: seedValue},
	)
}

// WithRunFields attaches the run fields to the provided logger.
func WithRunFields(logger *zap.Logger, runID string, seed *int64) *zap.Logger {
	return WithFields(logger, RunFields(runID, seed)...)
}
