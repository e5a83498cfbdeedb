package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestVerifyChecksum(t *testing.T) {
	testFile := writeTestFile(t, "p-0.1.tar.gz", []byte("Hello, World! This is a test archive."))
	verifier := NewChecksumVerifier()

	sha256Sum, err := verifier.CalculateChecksum(testFile)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	sha512Sum, err := verifier.CalculateSHA512(testFile)
	if err != nil {
		t.Fatalf("CalculateSHA512() error = %v", err)
	}

	tests := []struct {
		name    string
		path    string
		sum     string
		wantErr bool
	}{
		{"valid sha256", testFile, sha256Sum, false},
		{"valid sha512", testFile, sha512Sum, false},
		{"uppercase digest", testFile, strings.ToUpper(sha256Sum), false},
		{"mismatch", testFile, strings.Repeat("0", 64), true},
		{"unsupported length", testFile, "abc123", true},
		{"non-existent file", "/nonexistent/file.txt", sha256Sum, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifier.VerifyChecksum(context.Background(), tt.path, tt.sum)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyChecksum() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name         string
		content      []byte
		wantChecksum string
	}{
		{
			name:         "empty file",
			content:      []byte(""),
			wantChecksum: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:         "simple content",
			content:      []byte("Hello, World!"),
			wantChecksum: "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := writeTestFile(t, "test.txt", tt.content)

			checksum, err := NewChecksumVerifier().CalculateChecksum(testFile)
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if checksum != tt.wantChecksum {
				t.Errorf("CalculateChecksum() = %v, want %v", checksum, tt.wantChecksum)
			}
		})
	}
}

func TestVerifyChecksumFile(t *testing.T) {
	verifier := NewChecksumVerifier()
	archive := writeTestFile(t, "p-0.1.tar.gz", []byte("archive bytes"))
	sum, err := verifier.CalculateChecksum(archive)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("matching entry", func(t *testing.T) {
		sidecar := archive + ".sha256"
		content := fmt.Sprintf("%s  other.tar.gz\n%s  p-0.1.tar.gz\n", strings.Repeat("1", 64), sum)
		if err := os.WriteFile(sidecar, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if err := verifier.VerifyChecksumFile(context.Background(), archive, sidecar); err != nil {
			t.Errorf("VerifyChecksumFile() error = %v", err)
		}
	})

	t.Run("binary mode marker", func(t *testing.T) {
		sidecar := archive + ".bin.sha256"
		if err := os.WriteFile(sidecar, []byte(sum+" *p-0.1.tar.gz\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := verifier.VerifyChecksumFile(context.Background(), archive, sidecar); err != nil {
			t.Errorf("VerifyChecksumFile() error = %v", err)
		}
	})

	t.Run("no entry", func(t *testing.T) {
		sidecar := archive + ".empty.sha256"
		if err := os.WriteFile(sidecar, []byte(sum+"  something-else\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := verifier.VerifyChecksumFile(context.Background(), archive, sidecar); err == nil {
			t.Error("VerifyChecksumFile() should fail without a matching entry")
		}
	})

	t.Run("missing sidecar", func(t *testing.T) {
		if err := verifier.VerifyChecksumFile(context.Background(), archive, archive+".nope"); err == nil {
			t.Error("VerifyChecksumFile() should fail for a missing sidecar")
		}
	})
}
