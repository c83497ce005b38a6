// Package reqid threads a per-invocation request id through context.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type key struct{}

// NewContext returns a copy of parent carrying id, generating a random id
// when the host did not supply one. It also returns the id in effect.
func NewContext(parent context.Context, id string) (context.Context, string) {
	if id == "" {
		id = random()
	}
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the request id from ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}

func random() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
