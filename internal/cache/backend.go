// Package cache implements C1, the cache access processor (§4.1): a
// persistence-agnostic worker pool sitting in front of a pluggable Backend.
package cache

import (
	"context"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

// Backend is the storage contract a Processor serialises calls through.
// redisbackend and badgerbackend each provide one implementation; both
// store an IRS under every one of its PublicIDs and maintain a private-ID to
// public-ID-set secondary index.
type Backend interface {
	// Get returns the IRS stored under impu, or domain.ErrNotFound.
	Get(ctx context.Context, impu string) (*domain.IRS, error)

	// Put stores irs under every one of its PublicIDs.
	Put(ctx context.Context, irs *domain.IRS) error

	// Delete removes the entries stored under every one of irs's
	// PublicIDs.
	Delete(ctx context.Context, irs *domain.IRS) error

	// IMPUsForIMPI returns the public identities currently associated with
	// impi via the secondary index, or an empty slice if none.
	IMPUsForIMPI(ctx context.Context, impi string) ([]string, error)

	// PutIndex adds impu to impi's secondary index entry.
	PutIndex(ctx context.Context, impi, impu string) error

	// DeleteIndex removes impu from impi's secondary index entry.
	DeleteIndex(ctx context.Context, impi, impu string) error
}
