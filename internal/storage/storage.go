// Package storage persists generated documents under opaque file ids and
// serves them back for download.
package storage

import "context"

// Store is a flat blob store keyed by file id. Ids are generated by the
// caller and double as download handles, so implementations must reject
// anything that could escape their namespace.
type Store interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Exists(ctx context.Context, id string) (bool, error)
}
