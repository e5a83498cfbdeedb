package gateways

import (
	"context"

	"github.com/xray7224/p/internal/domain/interfaces/gateways"
)

// compositeSecurityGateway implements the SecurityGateway interface by composing
// the checksum verifier and the GPG gateway
type compositeSecurityGateway struct {
	checksumVerifier *ChecksumVerifier
	gpg              *GPGGateway
}

// NewCompositeSecurityGateway creates a security gateway. gpg may be nil, in
// which case signing and signature verification report that no key is configured.
func NewCompositeSecurityGateway(gpg *GPGGateway) gateways.SecurityGateway {
	if gpg == nil {
		gpg = &GPGGateway{}
	}
	return &compositeSecurityGateway{
		checksumVerifier: NewChecksumVerifier(),
		gpg:              gpg,
	}
}

// VerifyChecksum verifies a file's checksum
func (c *compositeSecurityGateway) VerifyChecksum(ctx context.Context, filePath, expectedSum string) error {
	return c.checksumVerifier.VerifyChecksum(ctx, filePath, expectedSum)
}

// VerifyChecksumFile verifies a file against its checksum sidecar
func (c *compositeSecurityGateway) VerifyChecksumFile(ctx context.Context, filePath, sidecarPath string) error {
	return c.checksumVerifier.VerifyChecksumFile(ctx, filePath, sidecarPath)
}

// SignFile writes a detached signature for filePath
func (c *compositeSecurityGateway) SignFile(ctx context.Context, filePath string) (string, error) {
	return c.gpg.SignFile(ctx, filePath)
}

// VerifySignature verifies a detached signature for filePath
func (c *compositeSecurityGateway) VerifySignature(ctx context.Context, filePath, sigPath string) error {
	return c.gpg.VerifySignature(ctx, filePath, sigPath)
}
