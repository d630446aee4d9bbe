package hashcrypto_test

import (
	"testing"

	"github.com/DineshPrabhakaran22/Zerodha1/lib/hashcrypto"
)

func TestHashPwd(t *testing.T) {
	hash, err := hashcrypto.HashPwd([]byte("secret"))
	if err != nil {
		t.Fatalf("HashPwd: %v", err)
	}

	if err := hashcrypto.ComparePwd(hash, []byte("secret")); err != nil {
		t.Errorf("expected password to match, got %v", err)
	}
	if err := hashcrypto.ComparePwd(hash, []byte("other")); err == nil {
		t.Errorf("expected mismatch for wrong password")
	}
}

func TestHashToken(t *testing.T) {
	a := hashcrypto.HashToken("token-a")
	if a != hashcrypto.HashToken("token-a") {
		t.Errorf("HashToken is not deterministic")
	}
	if a == hashcrypto.HashToken("token-b") {
		t.Errorf("different tokens produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
