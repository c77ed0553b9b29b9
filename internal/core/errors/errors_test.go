package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "resource not found")
		if err.Error() != "[NOT_FOUND] resource not found" {
			t.Errorf("expected [NOT_FOUND] resource not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected token")
		err := Wrap(original, CodeSyntax, "parse failed")
		expected := "[SYNTAX_ERROR] parse failed: unexpected token"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("lex a.js: %w", New(CodeNotSupported, "unknown extension"))
		if !IsCode(err, CodeNotSupported) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
		if CodeOf(err) != CodeNotSupported {
			t.Errorf("expected CodeOf NOT_SUPPORTED, got %s", CodeOf(err))
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeSyntax, "bad"), CtxPath, "a.js")
		var de *DomainError
		if !errors.As(err, &de) || de.Context[CtxPath] != "a.js" {
			t.Fatalf("expected path context, got %v", err)
		}

		plain := AddContext(errors.New("boom"), CtxOperation, "scan")
		if !IsCode(plain, CodeInternal) {
			t.Error("expected plain errors to be wrapped as internal")
		}
	})

	t.Run("CodeOfPlain", func(t *testing.T) {
		if CodeOf(errors.New("x")) != CodeInternal {
			t.Error("expected CodeInternal for plain errors")
		}
	})
}
