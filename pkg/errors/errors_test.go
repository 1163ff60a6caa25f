package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeGeneration, status: http.StatusBadGateway, publicMsg: "La IA no pudo generar una imagen en este momento.", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	err := fmt.Errorf("generate: %w", New(CodeRateLimit, "limit"))
	if !IsCode(err, CodeRateLimit) {
		t.Fatalf("expected rate limit code through wrap")
	}
	if IsCode(err, CodeValidation) {
		t.Fatalf("unexpected validation match")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("redis down"), "persist cart")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeNotFound, "no entry")
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}
