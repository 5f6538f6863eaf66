// Package keystore implements the per-peer authenticated-encryption cache.
// A Store holds the host's X25519 secret key and lazily builds one NaCl box
// session per peer public key, caching it for the lifetime of the process.
package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"sync"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"go.klb.dev/synq/internal/errs"
)

const nonceSize = 24

// Session is a cached authenticated-encryption session with one peer.
type Session struct {
	shared *[32]byte // precomputed box shared key
}

// Store caches Sessions by peer public-key string (base64-no-pad encoded).
type Store struct {
	hostPriv [32]byte
	hostPub  [32]byte

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New returns a Store for the given host keypair.
func New(hostPriv, hostPub [32]byte) *Store {
	return &Store{
		hostPriv: hostPriv,
		hostPub:  hostPub,
		sessions: make(map[string]*Session),
	}
}

// GenerateKeypair creates a fresh X25519 keypair for first-run host
// identity generation: config.EnsureIdentity calls it when the config has no
// private key, and `synqd run` persists the result.
func GenerateKeypair() (priv, pub [32]byte, err error) {
	pubPtr, privPtr, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return priv, pub, errs.Wrap(err, errs.Exec, "keystore: generate keypair")
	}
	return *privPtr, *pubPtr, nil
}

// DerivePublic computes the X25519 public key matching priv.
func DerivePublic(priv [32]byte) ([32]byte, error) {
	var pub [32]byte
	out, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return pub, errs.Wrap(err, errs.Exec, "keystore: derive public key")
	}
	copy(pub[:], out)
	return pub, nil
}

// Session returns the cached session for peerPublicKeyB64 (base64-no-pad),
// building and caching it on first use. Decoding and length are validated;
// an Invalid error is returned if the key is not 32 bytes after decoding.
func (s *Store) Session(peerPublicKeyB64 string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[peerPublicKeyB64]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	peerPub, err := decodeKey(peerPublicKeyB64)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[peerPublicKeyB64]; ok {
		return sess, nil
	}
	var shared [32]byte
	box.Precompute(&shared, &peerPub, &s.hostPriv)
	sess = &Session{shared: &shared}
	s.sessions[peerPublicKeyB64] = sess
	return sess, nil
}

// Encrypt seals plaintext for this session, returning
// base64-no-pad(nonce ‖ ciphertext).
func (sess *Session) Encrypt(plaintext []byte) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errs.Wrap(err, errs.Exec, "keystore: nonce generation")
	}
	sealed := box.SealAfterPrecomputation(nonce[:], plaintext, &nonce, sess.shared)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64-no-pad(nonce ‖ ciphertext) envelope produced by
// Encrypt, using the same session (the peer's session, on the peer's side:
// box sessions are symmetric in the precomputed shared key).
func (sess *Session) Decrypt(envelopeB64 string) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(envelopeB64)
	if err != nil {
		return nil, errs.Wrap(err, errs.Parse, "keystore: base64 decode")
	}
	if len(raw) < nonceSize {
		return nil, errs.New(errs.Invalid, "keystore: ciphertext too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := box.OpenAfterPrecomputation(nil, raw[nonceSize:], &nonce, sess.shared)
	if !ok {
		return nil, errs.New(errs.Exec, "keystore: decryption failed")
	}
	return plain, nil
}

func decodeKey(b64 string) ([32]byte, error) {
	var key [32]byte
	raw, err := base64.RawStdEncoding.DecodeString(b64)
	if err != nil {
		return key, errs.Wrap(err, errs.Invalid, "keystore: invalid peer key encoding").WithCtx("key", b64)
	}
	if len(raw) != 32 {
		return key, errs.New(errs.Invalid, "keystore: peer key must be 32 bytes").WithCtx("key", b64)
	}
	copy(key[:], raw)
	return key, nil
}

// EncodeKey base64-no-pad encodes a 32-byte key for config/wire use.
func EncodeKey(key [32]byte) string {
	return base64.RawStdEncoding.EncodeToString(key[:])
}

// DecodeKey is the exported form of decodeKey for config loading.
func DecodeKey(b64 string) ([32]byte, error) {
	return decodeKey(b64)
}
