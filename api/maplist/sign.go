package maplist

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
)

const SIGNATURE_HEADER = "X-Signature"

var ErrNotEd25519 = errors.New("private key is not an ed25519 key")

// Signs request payloads so the API can trust that writes made on behalf of a user come from the bot.
type Signer struct {
	key ed25519.PrivateKey
}

func NewSigner(key ed25519.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Reads a PKCS#8 PEM encoded ed25519 private key.
func LoadSigner(path string) (*Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key %s: %w", path, err)
	}

	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotEd25519)
	}

	return NewSigner(key), nil
}

func (s *Signer) Sign(payload []byte) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(s.key, payload))
}

// The headers to attach to a request carrying payload. A nil signer signs nothing.
func (s *Signer) Header(payload []byte) http.Header {
	h := http.Header{}
	if s != nil {
		h.Set(SIGNATURE_HEADER, s.Sign(payload))
	}

	return h
}
