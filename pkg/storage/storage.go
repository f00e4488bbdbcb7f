// Package storage persists uploaded binary blobs (store logos, product
// images) and hands back URLs the API can serve them from.
package storage

import "io"

// Storage is the interface file-accepting services depend on.
type Storage interface {
	// Save writes the content of r under dir/filename and returns the
	// public URL the file can be fetched from.
	Save(dir, filename string, r io.Reader) (string, error)
}
