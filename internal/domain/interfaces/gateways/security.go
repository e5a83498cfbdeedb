// Package gateways defines interfaces for infrastructure the domain calls out to.
package gateways

import (
	"context"
)

// SecurityGateway defines the interface for artifact integrity operations
type SecurityGateway interface {
	// VerifyChecksum compares a file's SHA256 or SHA512 against expectedSum
	VerifyChecksum(ctx context.Context, filePath, expectedSum string) error

	// VerifyChecksumFile checks filePath against a "<digest>  <name>" sidecar file
	VerifyChecksumFile(ctx context.Context, filePath, sidecarPath string) error

	// SignFile writes an armored detached signature next to filePath and returns its path
	SignFile(ctx context.Context, filePath string) (string, error)

	// VerifySignature checks a detached signature for filePath
	VerifySignature(ctx context.Context, filePath, sigPath string) error
}
