package jwt

import "testing"

func TestCreateAndExtract(t *testing.T) {
	token, err := CreateToken("42", "test-secret")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	userID, err := ExtractUserIDFromToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ExtractUserIDFromToken: %v", err)
	}
	if userID != "42" {
		t.Errorf("userID = %q, want %q", userID, "42")
	}
}

func TestExtractRejectsWrongSecret(t *testing.T) {
	token, err := CreateToken("42", "test-secret")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	if _, err := ExtractUserIDFromToken(token, "other-secret"); err == nil {
		t.Error("expected an error for a token signed with a different secret")
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	if _, err := ExtractUserIDFromToken("not-a-token", "test-secret"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}
