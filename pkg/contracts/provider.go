// Package contracts holds the interfaces the engine consumes, so computation
// code never depends on a concrete transport or cache.
package contracts

import (
	"context"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

// FetchRequest names everything one odds fetch needs
type FetchRequest struct {
	SportKey string
	Markets  []string
	Regions  string
	Books    []string
}

// OddsProvider hands out odds snapshots. Implementations may serve live,
// cached, or synthetic data; callers cannot tell the difference.
type OddsProvider interface {
	FetchOdds(ctx context.Context, req FetchRequest) (*models.OddsSnapshot, error)
}
