package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.klb.dev/synq/internal/keystore"
)

const sampleTOML = `
tls_secret = "shared-secret"

[server]
bind = "0.0.0.0:7733"
private_key = ""
public_key = ""
clipboard_source = true
clipboard_destination = true
scroll_source = true
scroll_destination = true

[[server.scroll_input_devices]]
path = "/dev/input/event4"
scroll_reverse = false

[[peers]]
address = "203.0.113.4:7733"
public_key = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
is_clipboard_source = true
is_clipboard_destination = true
is_scroll_source = false
is_scroll_destination = true
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synq.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadParsesServerAndPeers(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Bind != "0.0.0.0:7733" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if len(cfg.Peers) != 1 || cfg.Peers[0].Address != "203.0.113.4:7733" {
		t.Fatalf("unexpected peers: %+v", cfg.Peers)
	}
	if !cfg.ScrollDestinationEnabled() || !cfg.ClipboardSourceEnabled() {
		t.Fatal("expected all four server role flags to be readable")
	}
}

func TestLoadDefaultsScrollModifier(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ScrollInputDevices[0].ScrollModifier != 1.0 {
		t.Fatalf("expected default scroll_modifier 1.0, got %v", cfg.Server.ScrollInputDevices[0].ScrollModifier)
	}
}

func TestLoadRejectsMissingTLSSecret(t *testing.T) {
	path := writeTemp(t, `
[server]
bind = "0.0.0.0:7733"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when tls_secret is missing")
	}
}

func TestLoadRejectsScrollDestinationWithoutDevices(t *testing.T) {
	path := writeTemp(t, `
tls_secret = "shared-secret"
[server]
bind = "0.0.0.0:7733"
scroll_destination = true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when scroll_destination is set with no devices configured")
	}
}

func TestEnsureIdentityGeneratesOnlyWhenAbsent(t *testing.T) {
	cfg := &Config{}
	generated, err := EnsureIdentity(cfg)
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if !generated {
		t.Fatal("expected identity to be generated for an empty config")
	}
	if cfg.Server.PrivateKey == "" || cfg.Server.PublicKey == "" {
		t.Fatal("expected both keys to be populated")
	}

	again, err := EnsureIdentity(cfg)
	if err != nil {
		t.Fatalf("EnsureIdentity (second call): %v", err)
	}
	if again {
		t.Fatal("expected EnsureIdentity to be a no-op once a keypair exists")
	}
}

func TestEnsureIdentityDerivesPublicKeyWithoutDiscardingPrivate(t *testing.T) {
	priv, pub, err := keystore.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	privB64 := keystore.EncodeKey(priv)
	cfg := &Config{Server: Server{PrivateKey: privB64}}

	changed, err := EnsureIdentity(cfg)
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if !changed {
		t.Fatal("expected EnsureIdentity to report a change when public_key is missing")
	}
	if cfg.Server.PrivateKey != privB64 {
		t.Fatalf("expected the existing private key to survive, got %q", cfg.Server.PrivateKey)
	}
	if cfg.Server.PublicKey != keystore.EncodeKey(pub) {
		t.Fatalf("expected public_key derived from the existing private key, got %q", cfg.Server.PublicKey)
	}
}
