package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldStudent is the structured log field key for the subject (student) id.
	FieldStudent = "student_id"
	// FieldProfessor is the structured log field key for a candidate (professor) id.
	FieldProfessor = "professor_id"
	// FieldJobStatus is the structured log field key for the matching job status.
	FieldJobStatus = "job_status"
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
// A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SubjectFields returns the fields identifying a match subject and, optionally,
// one of its candidates. Empty values are dropped.
func SubjectFields(studentID, professorID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldStudent, Value: studentID},
		StringField{Key: FieldProfessor, Value: professorID},
	)
}

// WithSubject scopes the logger to a student.
func WithSubject(logger *zap.Logger, studentID string) *zap.Logger {
	return WithFields(logger, SubjectFields(studentID, "")...)
}

// JobStatus is the field logged on every matching job status change.
func JobStatus(status string) zap.Field {
	return zap.String(FieldJobStatus, status)
}
