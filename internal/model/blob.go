package model

import (
	"errors"
	"strings"
)

// BlobKeyword is the path segment that marks a GitHub file view URL.
const BlobKeyword = "blob"

// Path validation errors. Their messages are returned verbatim to clients.
var (
	ErrInvalidFormat = errors.New("Invalid URL Format. Use: /:owner/:repo/blob/:ref/:path") //nolint:staticcheck // client-facing text
	ErrMissingBlob   = errors.New(`Not Found: Missing "blob" in path`)                      //nolint:staticcheck // client-facing text
	ErrEmptyFilePath = errors.New("Not Found: File path is empty")                          //nolint:staticcheck // client-facing text
)

// BlobPath is a parsed /:owner/:repo/blob/:ref/:path request path.
// Segments keep the escaping they arrived with.
type BlobPath struct {
	Owner    string
	Repo     string
	Ref      string
	FilePath string
}

// ParseBlobPath splits an escaped request path into its blob URL parts.
// Empty segments are ignored, so "//o/r/blob/main/f" parses like "/o/r/blob/main/f".
func ParseBlobPath(escapedPath string) (BlobPath, error) {
	parts := splitSegments(escapedPath)
	if len(parts) < 5 {
		return BlobPath{}, ErrInvalidFormat
	}
	if parts[2] != BlobKeyword {
		return BlobPath{}, ErrMissingBlob
	}

	bp := BlobPath{
		Owner:    parts[0],
		Repo:     parts[1],
		Ref:      parts[3],
		FilePath: strings.Join(parts[4:], "/"),
	}
	if bp.FilePath == "" {
		return BlobPath{}, ErrEmptyFilePath
	}
	return bp, nil
}

// RawPath returns the path of the file on the raw content host.
func (b BlobPath) RawPath() string {
	return "/" + b.Owner + "/" + b.Repo + "/" + b.Ref + "/" + b.FilePath
}

// IsRoot reports whether path is the service root.
func IsRoot(path string) bool {
	return path == "" || path == "/"
}

func splitSegments(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
