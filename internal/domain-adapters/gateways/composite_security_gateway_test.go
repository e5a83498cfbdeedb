package gateways

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

func writeTestKeys(t *testing.T, dir string) (privatePath, publicPath string) {
	t.Helper()

	entity, err := openpgp.NewEntity("Release Signer", "", "release@example.org",
		&packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	encode := func(blockType string, serialize func(w *bytes.Buffer) error) []byte {
		var out, raw bytes.Buffer
		if err := serialize(&raw); err != nil {
			t.Fatal(err)
		}
		w, err := armor.Encode(&out, blockType, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(raw.Bytes()); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		return out.Bytes()
	}

	privatePath = filepath.Join(dir, "signing.asc")
	publicPath = filepath.Join(dir, "public.asc")
	priv := encode(openpgp.PrivateKeyType, func(w *bytes.Buffer) error { return entity.SerializePrivate(w, nil) })
	pub := encode(openpgp.PublicKeyType, func(w *bytes.Buffer) error { return entity.Serialize(w) })
	if err := os.WriteFile(privatePath, priv, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(publicPath, pub, 0600); err != nil {
		t.Fatal(err)
	}
	return privatePath, publicPath
}

func TestCompositeGateway_SignAndVerify(t *testing.T) {
	dir := t.TempDir()
	privatePath, publicPath := writeTestKeys(t, dir)
	archive := writeTestFile(t, "p-0.1.tar.gz", []byte("archive"))

	gpg, err := NewGPGGateway(privatePath, nil, publicPath)
	if err != nil {
		t.Fatalf("NewGPGGateway() error = %v", err)
	}
	gateway := NewCompositeSecurityGateway(gpg)

	sigPath, err := gateway.SignFile(context.Background(), archive)
	if err != nil {
		t.Fatalf("SignFile() error = %v", err)
	}
	if sigPath != archive+".asc" {
		t.Errorf("sigPath = %s, want %s.asc", sigPath, archive)
	}

	if err := gateway.VerifySignature(context.Background(), archive, sigPath); err != nil {
		t.Errorf("VerifySignature() error = %v", err)
	}
}

func TestGPGGateway_KeyInfo(t *testing.T) {
	privatePath, publicPath := writeTestKeys(t, t.TempDir())

	signing, err := NewGPGGateway(privatePath, nil)
	if err != nil {
		t.Fatalf("NewGPGGateway() error = %v", err)
	}
	fp := signing.SigningFingerprint()
	if len(fp) != 40 || strings.ToUpper(fp) != fp {
		t.Errorf("SigningFingerprint() = %q, want 40 upper-case hex digits", fp)
	}
	if n := signing.PublicKeyCount(); n != 0 {
		t.Errorf("PublicKeyCount() = %d, want 0 without public keys", n)
	}

	verifying, err := NewGPGGateway("", nil, publicPath, publicPath)
	if err != nil {
		t.Fatalf("NewGPGGateway() error = %v", err)
	}
	if fp := verifying.SigningFingerprint(); fp != "" {
		t.Errorf("SigningFingerprint() = %q, want empty without a signing key", fp)
	}
	if n := verifying.PublicKeyCount(); n != 2 {
		t.Errorf("PublicKeyCount() = %d, want 2", n)
	}
}

func TestCompositeGateway_NoKeys(t *testing.T) {
	gateway := NewCompositeSecurityGateway(nil)
	archive := writeTestFile(t, "p-0.1.tar.gz", []byte("archive"))

	if _, err := gateway.SignFile(context.Background(), archive); err == nil || !strings.Contains(err.Error(), "no signing key") {
		t.Errorf("SignFile() error = %v, want no signing key", err)
	}
	if err := gateway.VerifySignature(context.Background(), archive, archive+".asc"); err == nil {
		t.Error("VerifySignature() should fail without public keys")
	}
}

func TestCompositeGateway_VerifyChecksum(t *testing.T) {
	archive := writeTestFile(t, "p-0.1.tar.gz", []byte("archive"))
	gateway := NewCompositeSecurityGateway(nil)

	sum, err := NewChecksumVerifier().CalculateChecksum(archive)
	if err != nil {
		t.Fatal(err)
	}
	if err := gateway.VerifyChecksum(context.Background(), archive, sum); err != nil {
		t.Errorf("VerifyChecksum() error = %v", err)
	}
}

func TestNewGPGGateway_BadKey(t *testing.T) {
	bad := writeTestFile(t, "bad.asc", []byte("garbage"))

	if _, err := NewGPGGateway(bad, nil); err == nil {
		t.Error("NewGPGGateway() should fail for an invalid signing key")
	}
	if _, err := NewGPGGateway("", nil, bad); err == nil {
		t.Error("NewGPGGateway() should fail for an invalid public key")
	}
}
