package tlsconf

import "testing"

func TestServerConfigIsDeterministicPerPassphrase(t *testing.T) {
	cfg1, _, err := ServerConfig("shared-secret")
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	cfg2, _, err := ServerConfig("shared-secret")
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	if len(cfg1.Certificates) != 1 || len(cfg2.Certificates) != 1 {
		t.Fatal("expected exactly one certificate in each config")
	}
	key1, err := deriveKey("shared-secret")
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	key2, err := deriveKey("shared-secret")
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	if key1.D.Cmp(key2.D) != 0 {
		t.Fatal("same passphrase must derive the same private scalar")
	}
}

func TestDeriveKeyDiffersByPassphrase(t *testing.T) {
	key1, err := deriveKey("passphrase-a")
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	key2, err := deriveKey("passphrase-b")
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	if key1.D.Cmp(key2.D) == 0 {
		t.Fatal("different passphrases must not derive the same private scalar")
	}
}
