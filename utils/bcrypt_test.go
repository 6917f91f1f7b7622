package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// hashes are persisted as strings on the user record
	stored := string(hashed)
	if err := ComparePassword(stored, "s3cret-pass"); err != nil {
		t.Fatalf("stored hash did not verify: %v", err)
	}
	if err := ComparePassword(stored, "wrong-pass"); err == nil {
		t.Fatal("wrong password must not verify")
	}
}
