package resolution

import (
	"context"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/ordercalc/pkg/errors"
)

// Cache memoizes part details and BOM lines for a single resolution.
// Failures are cached too: a part that could not be read is not retried
// within the same resolution. A Cache must never outlive its resolution.
type Cache struct {
	port  repositories.InventoryPort
	parts map[entities.PartID]partEntry
	boms  map[entities.PartID]bomEntry
	stats CacheStats
}

type partEntry struct {
	details *entities.PartDetails
	err     error
}

type bomEntry struct {
	lines []entities.BOMLine
	err   error
}

// CacheStats counts cache behaviour for one resolution
type CacheStats struct {
	PartHits         int
	PartFetches      int
	BOMHits          int
	BOMFetches       int
	BOMShortCircuits int
}

// NewCache creates an empty cache in front of the given port
func NewCache(port repositories.InventoryPort) *Cache {
	return &Cache{
		port:  port,
		parts: make(map[entities.PartID]partEntry),
		boms:  make(map[entities.PartID]bomEntry),
	}
}

// GetPartDetails returns the cached details or reads them through the port
func (c *Cache) GetPartDetails(ctx context.Context, id entities.PartID) (*entities.PartDetails, error) {
	if entry, exists := c.parts[id]; exists {
		c.stats.PartHits++
		cacheLookups.WithLabelValues(tablePartDetails, resultHit).Inc()
		return entry.details, entry.err
	}

	cacheLookups.WithLabelValues(tablePartDetails, resultMiss).Inc()
	c.stats.PartFetches++
	details, err := c.port.GetPartDetails(ctx, id)
	if err != nil {
		details = nil
	} else if details == nil {
		err = apperrors.New(apperrors.ErrCodeNotFound, "part not found: %d", id)
	}
	c.parts[id] = partEntry{details: details, err: err}
	return details, err
}

// GetBOMLines returns the cached BOM lines or reads them through the port.
// Parts that are missing or not assemblies get an empty list without a
// BOM read.
func (c *Cache) GetBOMLines(ctx context.Context, id entities.PartID) ([]entities.BOMLine, error) {
	if entry, exists := c.boms[id]; exists {
		c.stats.BOMHits++
		cacheLookups.WithLabelValues(tableBOMLines, resultHit).Inc()
		return entry.lines, entry.err
	}

	cacheLookups.WithLabelValues(tableBOMLines, resultMiss).Inc()
	details, err := c.GetPartDetails(ctx, id)
	if err != nil || !details.IsAssembly {
		c.stats.BOMShortCircuits++
		c.boms[id] = bomEntry{lines: []entities.BOMLine{}}
		return []entities.BOMLine{}, nil
	}

	c.stats.BOMFetches++
	lines, err := c.port.GetBOMLines(ctx, id)
	if err != nil {
		lines = nil
	}
	c.boms[id] = bomEntry{lines: lines, err: err}
	return lines, err
}

// Stats returns the counters collected so far
func (c *Cache) Stats() CacheStats {
	return c.stats
}
