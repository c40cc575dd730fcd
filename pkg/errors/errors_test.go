package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeFeedFetch, cause, "fetching bootstrap")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Code() != CodeFeedFetch {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeInsufficientFunds, "balance 10, need 60")
	outer := fmt.Errorf("create matches: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeInsufficientFunds {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if !HasCode(outer, CodeInsufficientFunds) {
		t.Fatal("HasCode should match through wrapping")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestMetadataInsufficientFunds(t *testing.T) {
	meta := MetadataFor(CodeInsufficientFunds)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if meta.Retryable {
		t.Fatal("insufficient funds must not be retryable")
	}
}
