// Package config loads and persists synq's host identity, role flags, and
// peer list.
//
// The top-level daemon flags (log format/level, --config path) are bound
// through cobra/viper; the nested peers list and scroll_input_devices table
// that viper's flat flag-binding cannot reach are parsed directly with
// github.com/BurntSushi/toml.
package config

import (
	"os"
	"runtime"

	"github.com/BurntSushi/toml"

	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/keystore"
)

// InputDevice names one evdev node and its per-device scroll tuning. The
// daemon opens each device by Path; Name is not matched against enumerated
// devices.
type InputDevice struct {
	Name          string  `toml:"name"`
	Path          string  `toml:"path"`
	ScrollReverse bool    `toml:"scroll_reverse"`
	ScrollModifier float64 `toml:"scroll_modifier"`
}

// Server is the `[server]` table: this host's identity, role flags, and the
// devices it grabs scroll events from.
type Server struct {
	Bind       string `toml:"bind"`
	PrivateKey string `toml:"private_key"` // base64-no-pad X25519 scalar
	PublicKey  string `toml:"public_key"`  // base64-no-pad X25519 point

	ClipboardSource      bool `toml:"clipboard_source"`
	ClipboardDestination bool `toml:"clipboard_destination"`
	ScrollSource         bool `toml:"scroll_source"`
	ScrollDestination    bool `toml:"scroll_destination"`

	ScrollInputDevices []InputDevice `toml:"scroll_input_devices"`
}

// Peer is one trusted remote host, with the four role flags from this
// host's perspective. Immutable for the process lifetime.
type Peer struct {
	Address   string `toml:"address"` // host:port, optionally user@host:port
	PublicKey string `toml:"public_key"`

	IsClipboardSource      bool `toml:"is_clipboard_source"`
	IsClipboardDestination bool `toml:"is_clipboard_destination"`
	IsScrollSource         bool `toml:"is_scroll_source"`
	IsScrollDestination    bool `toml:"is_scroll_destination"`
}

// Config is the full synq.toml document: one `[server]` table and a list of
// `[[peers]]`.
type Config struct {
	Server Server `toml:"server"`
	Peers  []Peer `toml:"peers"`

	// TLSSecret is the shared passphrase all peers derive their TLS keypair
	// from; kept outside the `[server]` table since it is the one secret
	// never echoed back to a peer's own config.
	TLSSecret string `toml:"tls_secret"`
}

// Listen is the address this daemon's gRPC service binds.
func (c *Config) Listen() string { return c.Server.Bind }

// Devices is the list of evdev nodes this daemon grabs scroll input from.
func (c *Config) Devices() []InputDevice { return c.Server.ScrollInputDevices }

// ScrollDestinationEnabled reports whether this host accepts inbound scroll
// streams.
func (c *Config) ScrollDestinationEnabled() bool { return c.Server.ScrollDestination }

// ClipboardDestinationEnabled reports whether this host accepts inbound
// clipboard updates.
func (c *Config) ClipboardDestinationEnabled() bool { return c.Server.ClipboardDestination }

// ScrollSourceEnabled reports whether this host owns the scroll election
// clock.
func (c *Config) ScrollSourceEnabled() bool { return c.Server.ScrollSource }

// ClipboardSourceEnabled reports whether this host watches its own
// clipboard and pushes changes out to peers.
func (c *Config) ClipboardSourceEnabled() bool { return c.Server.ClipboardSource }

// Load reads and parses a synq.toml file at path. If the host identity has
// no keypair yet, EnsureIdentity should be called next.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(err, errs.NotFound, "config: file not found").WithCtx("path", path)
		}
		return nil, errs.Wrap(err, errs.Parse, "config: decode").WithCtx("path", path)
	}
	if cfg.TLSSecret == "" {
		return nil, errs.New(errs.Invalid, "config: tls_secret is required")
	}
	if cfg.Server.Bind == "" {
		return nil, errs.New(errs.Invalid, "config: server.bind is required")
	}
	if cfg.Server.ScrollDestination && len(cfg.Server.ScrollInputDevices) == 0 {
		return nil, errs.New(errs.Invalid, "config: scroll_destination requires at least one scroll_input_devices entry")
	}
	for i, d := range cfg.Server.ScrollInputDevices {
		if d.ScrollModifier == 0 {
			cfg.Server.ScrollInputDevices[i].ScrollModifier = 1.0
		}
	}
	return &cfg, nil
}

// Save writes cfg back to path as TOML, e.g. after generating a host
// identity on first run.
func Save(path string, cfg *Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errs.Wrap(err, errs.Write, "config: open for write").WithCtx("path", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errs.Wrap(err, errs.Write, "config: encode").WithCtx("path", path)
	}
	return nil
}

// EnsureIdentity fills in cfg.Server's identity in place if it is incomplete,
// returning true if it changed anything. An empty private_key means first
// run: a fresh keypair is generated and both fields are written. A private
// key with no matching public_key is repaired by deriving the public key
// from it, rather than discarding the existing private key.
func EnsureIdentity(cfg *Config) (bool, error) {
	if cfg.Server.PrivateKey == "" {
		priv, pub, err := keystore.GenerateKeypair()
		if err != nil {
			return false, err
		}
		cfg.Server.PrivateKey = keystore.EncodeKey(priv)
		cfg.Server.PublicKey = keystore.EncodeKey(pub)
		return true, nil
	}
	if cfg.Server.PublicKey == "" {
		priv, err := keystore.DecodeKey(cfg.Server.PrivateKey)
		if err != nil {
			return false, err
		}
		pub, err := keystore.DerivePublic(priv)
		if err != nil {
			return false, err
		}
		cfg.Server.PublicKey = keystore.EncodeKey(pub)
		return true, nil
	}
	return false, nil
}

// HostKeypair decodes the host's configured keypair.
func HostKeypair(s Server) (priv, pub [32]byte, err error) {
	priv, err = keystore.DecodeKey(s.PrivateKey)
	if err != nil {
		return priv, pub, err
	}
	pub, err = keystore.DecodeKey(s.PublicKey)
	return priv, pub, err
}

// DefaultPaths returns the ordered (lowest to highest precedence) list of
// directories synq searches for synq.toml.
func DefaultPaths() []string {
	var paths []string
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			paths = append(paths, pd+`\synq`)
		}
		return paths
	}
	paths = append(paths, "/etc/synq")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home+"/.config/synq")
	}
	return paths
}
