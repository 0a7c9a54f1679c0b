package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "aboutme.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "aboutme.yaml" {
			t.Errorf("expected context file=aboutme.yaml, got %v", file)
		}
	})

	t.Run("Wrapped classification survives fmt wrapping", func(t *testing.T) {
		base := StorageUnavailable("failed to read document").WithCause(errors.New("permission denied")).Build()
		wrapped := fmt.Errorf("fetch: %w", base)

		if _, ok := AsClassified(wrapped); !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryStorage) {
			t.Fatal("expected storage category")
		}
		if !errors.Is(wrapped, StorageUnavailable("failed to read document").Build()) {
			t.Fatal("expected errors.Is to match by category and message")
		}
	})

	t.Run("Retry hints", func(t *testing.T) {
		if !StorageWriteError("x").Build().CanRetry() {
			t.Error("storage write errors may be resubmitted")
		}
		if AuthError("x").Build().CanRetry() {
			t.Error("auth errors need user action")
		}
	})
}

func TestGetCategoryDefaultsToInternal(t *testing.T) {
	if got := GetCategory(errors.New("plain")); got != CategoryInternal {
		t.Fatalf("expected internal, got %s", got)
	}
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"a": 1, "b": 1}
	b := ErrorContext{"b": 2}
	m := a.Merge(b)
	if m["a"] != 1 || m["b"] != 2 {
		t.Fatalf("unexpected merge result: %v", m)
	}
	if a["b"] != 1 {
		t.Fatal("merge must not mutate receiver")
	}
}
