package gateways

import (
	"context"
	"fmt"

	"github.com/xray7224/p/internal/external-adapters/gpg"
)

// GPGGateway wraps the external GPG adapter for signing and signature checks.
// Either side may be nil when the build neither signs nor verifies.
type GPGGateway struct {
	signer   *gpg.Signer
	verifier *gpg.Verifier
}

// NewGPGGateway creates a GPG gateway from a signing key and/or public key files
func NewGPGGateway(signingKeyPath string, passphrase []byte, publicKeyPaths ...string) (*GPGGateway, error) {
	g := &GPGGateway{}

	if signingKeyPath != "" {
		signer, err := gpg.NewSignerFromFile(signingKeyPath, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}
		g.signer = signer
	}

	if len(publicKeyPaths) > 0 {
		g.verifier = gpg.NewVerifier()
		for _, p := range publicKeyPaths {
			if err := g.verifier.ImportKeyFromFile(p); err != nil {
				return nil, fmt.Errorf("failed to import GPG key from file: %w", err)
			}
		}
	}

	return g, nil
}

// SigningFingerprint returns the signing key fingerprint, "" without a signing key
func (g *GPGGateway) SigningFingerprint() string {
	if g.signer == nil {
		return ""
	}
	return g.signer.Fingerprint()
}

// PublicKeyCount returns the number of keys available for verification
func (g *GPGGateway) PublicKeyCount() int {
	if g.verifier == nil {
		return 0
	}
	return g.verifier.GetKeyringSize()
}

// SignFile writes <filePath>.asc and returns its path
func (g *GPGGateway) SignFile(ctx context.Context, filePath string) (string, error) {
	if g.signer == nil {
		return "", fmt.Errorf("no signing key configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sig, err := g.signer.SignFile(filePath)
	if err != nil {
		return "", err
	}

	sigPath := filePath + ".asc"
	if err := WriteFileAtomic(sigPath, sig, 0644); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}
	return sigPath, nil
}

// VerifySignature verifies a detached GPG signature from a local file
func (g *GPGGateway) VerifySignature(_ context.Context, filePath, sigPath string) error {
	if g.verifier == nil {
		return fmt.Errorf("no public keys configured")
	}
	if err := g.verifier.VerifySignatureFromFile(filePath, sigPath); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}
