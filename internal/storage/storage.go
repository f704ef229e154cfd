// Package storage uploads user documents and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Uploader stores an object and returns a publicly readable URL for it
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// UserUploadKey is the key for a profile or application file:
// uploads/{uid}/{purpose}-{filename}
func UserUploadKey(uid, purpose, filename string) string {
	return fmt.Sprintf("uploads/%s/%s-%s", cleanSegment(uid), cleanSegment(purpose), cleanSegment(filename))
}

// TransactionDocumentKey is the key for an advocate document:
// tx/{transactionId}/{advocateId}/{docName}
func TransactionDocumentKey(transactionID, advocateID, docName string) string {
	return fmt.Sprintf("tx/%s/%s/%s", cleanSegment(transactionID), cleanSegment(advocateID), cleanSegment(docName))
}

// cleanSegment keeps a client-supplied name inside its path segment
func cleanSegment(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(path.Clean("/" + s))
	if s == "/" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// joinURL joins a base URL and an object key
func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
