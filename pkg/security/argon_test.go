package security

import "testing"

func TestArgonRoundTrip(t *testing.T) {
	a := NewArgonHash()

	encoded, err := a.GenerateFromPassword("hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := a.VerifyPasswd("hunter2", encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = a.VerifyPasswd("wrong", encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestArgonRejectsBadEncoding(t *testing.T) {
	if _, err := NewArgonHash().VerifyPasswd("x", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
