// Package blob stores uploaded files, keeping receipt images out of the
// database.
package blob

import (
	"context"
	"io"
)

// Store is an object store for uploaded files.
type Store interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, objectName string) error
}
