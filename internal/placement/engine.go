package placement

import (
	"fmt"
	"sync"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/port"
	"github.com/gridfall/desktop-organizer/internal/regions"
	"go.uber.org/zap"
)

// Engine places icons into free grid cells inside desktop regions. A single
// mutex spans the refresh-scan-commit sequence so two concurrent placements
// can never pick the same cell; the store itself offers no test-and-set.
type Engine struct {
	catalog *regions.Catalog
	store   port.IconStore
	logger  *zap.Logger

	mu       sync.Mutex
	occupied map[domain.Point]struct{}
}

// New creates a placement engine over the given catalog and icon store.
func New(catalog *regions.Catalog, store port.IconStore, logger *zap.Logger) *Engine {
	return &Engine{
		catalog:  catalog,
		store:    store,
		logger:   logger,
		occupied: make(map[domain.Point]struct{}),
	}
}

// Place moves the named icon into the first free grid cell of the region,
// row-major from the top-left corner. Store failures and a full region are
// retryable; an unknown region is not.
func (e *Engine) Place(filename, regionID string) (domain.Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	region, err := e.catalog.Get(regionID)
	if err != nil {
		return domain.Point{}, err
	}

	if err := e.refreshOccupied(); err != nil {
		return domain.Point{}, domain.NewRetryableError(fmt.Errorf("refresh icon positions: %w", err))
	}

	cell, ok := e.findFreeCell(region)
	if !ok {
		e.logger.Warn("region has no free cell",
			zap.String("region", regionID),
			zap.String("filename", filename),
		)
		return domain.Point{}, domain.NewRetryableError(fmt.Errorf("%w: %s", domain.ErrNoFreeCell, regionID))
	}

	if err := e.store.SetPosition(filename, cell.X, cell.Y); err != nil {
		return domain.Point{}, domain.NewRetryableError(fmt.Errorf("set position of %s: %w", filename, err))
	}

	e.occupied[cell] = struct{}{}
	e.logger.Debug("icon placed",
		zap.String("filename", filename),
		zap.String("region", regionID),
		zap.Int("x", cell.X),
		zap.Int("y", cell.Y),
	)
	return cell, nil
}

// refreshOccupied rebuilds the occupied set from the store so placement never
// acts on stale local state. Caller holds e.mu.
func (e *Engine) refreshOccupied() error {
	icons, err := e.store.GetAll()
	if err != nil {
		return err
	}

	e.occupied = make(map[domain.Point]struct{}, len(icons))
	for _, icon := range icons {
		e.occupied[domain.Point{X: icon.X, Y: icon.Y}] = struct{}{}
	}
	return nil
}

// findFreeCell scans the region grid top-to-bottom, left-to-right at stride
// gridSize+margin and returns the first unoccupied cell. Caller holds e.mu.
func (e *Engine) findFreeCell(region domain.Region) (domain.Point, bool) {
	stride := region.GridSize + region.Margin
	startX := region.X + region.Margin
	startY := region.Y + region.Margin
	maxX := region.X + region.Width - region.GridSize - region.Margin
	maxY := region.Y + region.Height - region.GridSize - region.Margin

	for y := startY; y <= maxY; y += stride {
		for x := startX; x <= maxX; x += stride {
			p := domain.Point{X: x, Y: y}
			if _, taken := e.occupied[p]; !taken {
				return p, true
			}
		}
	}
	return domain.Point{}, false
}
