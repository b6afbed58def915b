package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  student_id  ", Value: "  s1  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "student_id" || fields[0].String != "s1" {
		t.Fatalf("unexpected student field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestSubjectFields(t *testing.T) {
	fields := SubjectFields("  s1  ", "p1")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldStudent || fields[0].String != "s1" {
		t.Fatalf("unexpected student field: %+v", fields[0])
	}

	if fields[1].Key != FieldProfessor || fields[1].String != "p1" {
		t.Fatalf("unexpected professor field: %+v", fields[1])
	}

	if only := SubjectFields("s1", ""); len(only) != 1 {
		t.Fatalf("expected professor to be omitted, got %d fields", len(only))
	}
}

func TestWithSubject(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithSubject(logger, "s1").Info("test log", JobStatus("in_progress"))

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldStudent] != "s1" {
		t.Fatalf("expected student field to be s1, got %q", ctx[FieldStudent])
	}

	if ctx[FieldJobStatus] != "in_progress" {
		t.Fatalf("expected job status field to be in_progress, got %q", ctx[FieldJobStatus])
	}

	if WithSubject(nil, "s1") == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}
