package sealer

import "testing"

func TestShareTokenRoundTrip(t *testing.T) {
	token, err := CreateShareToken("6f9619ff-8b86-4d01-b42d-00cf4fc964ff", "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reservationID, guestID, err := ParseShareToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservationID != "6f9619ff-8b86-4d01-b42d-00cf4fc964ff" || guestID != "guest-1" {
		t.Errorf("round trip mismatch: %s / %s", reservationID, guestID)
	}
}

func TestShareTokenIsOpaque(t *testing.T) {
	token, err := CreateShareToken("6f9619ff-8b86-4d01-b42d-00cf4fc964ff", "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token == "6f9619ff-8b86-4d01-b42d-00cf4fc964ff:guest-1" {
		t.Error("token must not be the plaintext reference")
	}

	// Fresh nonce per token.
	second, err := CreateShareToken("6f9619ff-8b86-4d01-b42d-00cf4fc964ff", "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == second {
		t.Error("two tokens for the same reference must differ")
	}
}

func TestParseShareToken_Garbage(t *testing.T) {
	if _, _, err := ParseShareToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, _, err := ParseShareToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}
