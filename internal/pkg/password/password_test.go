package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("unexpected hash format: %q", hash)
	}

	if !Verify("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if Verify("wrong password", hash) {
		t.Error("wrong password accepted")
	}
	if Verify("", hash) {
		t.Error("empty password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}
