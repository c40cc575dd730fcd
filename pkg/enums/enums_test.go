package enums

import "testing"

func TestMatchStatusValidation(t *testing.T) {
	for _, status := range []MatchStatus{MatchStatusNext, MatchStatusLive, MatchStatusFinished} {
		if !status.IsValid() {
			t.Fatalf("%s should be valid", status)
		}
	}
	if MatchStatus("pending").IsValid() {
		t.Fatal("unexpected valid status")
	}
	if _, err := ParseMatchStatus("upcoming"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTransactionFlagSignedAmount(t *testing.T) {
	if got := TransactionFlagDown.SignedAmount(60); got != -60 {
		t.Fatalf("down flag: expected -60, got %d", got)
	}
	if got := TransactionFlagUp.SignedAmount(60); got != 60 {
		t.Fatalf("up flag: expected 60, got %d", got)
	}
}

func TestParseRules(t *testing.T) {
	if _, err := ParseChipRule("allowed"); err != nil {
		t.Fatalf("chip rule: %v", err)
	}
	if _, err := ParseTransferRule("free_transfer_only"); err != nil {
		t.Fatalf("transfer rule: %v", err)
	}
	if _, err := ParseTransactionType("create_match"); err != nil {
		t.Fatalf("transaction type: %v", err)
	}
	if _, err := ParseTransactionFlag("sideways"); err == nil {
		t.Fatal("expected parse error")
	}
}
