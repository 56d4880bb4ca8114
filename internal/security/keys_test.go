package security

import (
	"crypto/rsa"
	"strings"
	"testing"
)

func TestParsePrivateKey(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if signer == nil {
		t.Fatal("ParsePrivateKey returned nil signer")
	}
	if _, ok := signer.Public().(*rsa.PublicKey); !ok {
		t.Errorf("public key type = %T, want *rsa.PublicKey", signer.Public())
	}
}

func TestParsePublicKey(t *testing.T) {
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if KeyAlg(pub) != "RS256" {
		t.Errorf("KeyAlg = %q, want RS256", KeyAlg(pub))
	}
}

func TestParsePrivateKey_EscapedNewlines(t *testing.T) {
	// Inline PEM from an env var often arrives with literal \n sequences.
	escaped := strings.ReplaceAll(strings.TrimSpace(testPrivateKeyPEM), "\n", `\n`)

	signer, err := ParsePrivateKey(escaped)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if signer == nil {
		t.Fatal("ParsePrivateKey returned nil signer")
	}
}

func TestParseKeys_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		pem  string
	}{
		{"empty", ""},
		{"not pem", "-----BEGIN GARBAGE-----\nabc\n-----END GARBAGE-----"},
		{"nonexistent path", "/nonexistent/key.pem"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePrivateKey(tc.pem); err == nil {
				t.Error("ParsePrivateKey should fail")
			}
			if _, err := ParsePublicKey(tc.pem); err == nil {
				t.Error("ParsePublicKey should fail")
			}
		})
	}
}
