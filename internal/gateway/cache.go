package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

// Cache is a read-through snapshot store in front of the odds API. A cache
// is strictly an optimization: misses and storage failures must never fail
// a fetch, so Get reports a plain hit/miss and Set returns nothing.
type Cache interface {
	Get(ctx context.Context, key string) (*models.OddsSnapshot, bool)
	Set(ctx context.Context, key string, snapshot *models.OddsSnapshot)
}

// cacheKey builds the canonical key for one fetch combination. Books are
// part of the key: the same sport and market fetched for different books is
// a different upstream request.
func cacheKey(sportKey, markets, regions string, bookKeys []string) string {
	return fmt.Sprintf("odds:%s:%s:%s:%s", sportKey, markets, regions, strings.Join(bookKeys, ","))
}
