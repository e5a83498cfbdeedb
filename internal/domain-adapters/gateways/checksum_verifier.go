package gateways

import (
	"bufio"
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumVerifier computes and checks sha256/sha512 digests of build outputs
type ChecksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

// VerifyChecksum verifies a file's checksum; the algorithm follows from the digest length
func (v *ChecksumVerifier) VerifyChecksum(_ context.Context, filePath, expectedSum string) error {
	expectedSum = strings.ToLower(strings.TrimSpace(expectedSum))

	var h hash.Hash
	switch len(expectedSum) {
	case sha256.Size * 2:
		h = sha256.New()
	case sha512.Size * 2:
		h = sha512.New()
	default:
		return fmt.Errorf("unsupported checksum length %d", len(expectedSum))
	}

	actualSum, err := digestFile(filePath, h)
	if err != nil {
		return err
	}
	if actualSum != expectedSum {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actualSum)
	}
	return nil
}

// VerifyChecksumFile checks filePath against a "<digest>  <name>" sidecar
// as written by sha256sum or the build's .sha256/.sha512 files
func (v *ChecksumVerifier) VerifyChecksumFile(ctx context.Context, filePath, sidecarPath string) error {
	//nolint:gosec // G304: sidecarPath sits next to the verified artifact
	f, err := os.Open(sidecarPath)
	if err != nil {
		return fmt.Errorf("failed to open checksum file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	base := filepath.Base(filePath)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		if strings.TrimPrefix(fields[1], "*") == base {
			return v.VerifyChecksum(ctx, filePath, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}
	return fmt.Errorf("no checksum for %s in %s", base, sidecarPath)
}

// CalculateChecksum calculates the SHA256 checksum of a file
func (v *ChecksumVerifier) CalculateChecksum(filePath string) (string, error) {
	return digestFile(filePath, sha256.New())
}

// CalculateSHA512 calculates the SHA512 checksum of a file
func (v *ChecksumVerifier) CalculateSHA512(filePath string) (string, error) {
	return digestFile(filePath, sha512.New())
}

func digestFile(filePath string, h hash.Hash) (string, error) {
	//nolint:gosec // G304: filePath is a build artifact
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
