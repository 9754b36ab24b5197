// Package store persists verified producers keyed by Aadhar.
//
// Every backend upserts on Save: a repeat verification of the same Aadhar
// replaces the stored record (last write wins).
package store

import (
	"context"
	"sort"

	"sadapurne/internal/producer/models"
	dErrors "sadapurne/pkg/domain-errors"
	id "sadapurne/pkg/domain"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "producer not found")
)

// Store is implemented by every producer backend.
type Store interface {
	Save(ctx context.Context, p *models.Producer) error
	FindByAadhar(ctx context.Context, aadhar id.Aadhar) (*models.Producer, error)
	List(ctx context.Context) ([]*models.Producer, error)
}

// sortNewestFirst orders by verification time, newest first, then Aadhar.
func sortNewestFirst(ps []*models.Producer) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].VerifiedAt.Equal(ps[j].VerifiedAt) {
			return ps[i].VerifiedAt.After(ps[j].VerifiedAt)
		}
		return ps[i].Aadhar < ps[j].Aadhar
	})
}

func clone(p *models.Producer) *models.Producer {
	c := *p
	if p.ExpiryDate != nil {
		exp := *p.ExpiryDate
		c.ExpiryDate = &exp
	}
	c.PINHash = append([]byte(nil), p.PINHash...)
	return &c
}
