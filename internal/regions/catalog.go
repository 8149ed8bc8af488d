package regions

import (
	"fmt"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

// DefaultGridSize and DefaultMargin are applied to regions that do not
// specify their own grid geometry.
const (
	DefaultGridSize = 32
	DefaultMargin   = 8
)

// Catalog holds the static set of desktop regions for a session. It is
// immutable after construction and safe for concurrent reads.
type Catalog struct {
	regions map[string]domain.Region
	order   []string
}

// NewCatalog builds a catalog from the given regions. Regions without a grid
// size or margin get the defaults. Duplicate or empty ids are rejected.
func NewCatalog(regions []domain.Region) (*Catalog, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("catalog needs at least one region: %w", domain.ErrInvalidInput)
	}

	c := &Catalog{regions: make(map[string]domain.Region, len(regions))}
	for _, r := range regions {
		if r.ID == "" {
			return nil, fmt.Errorf("region with empty id: %w", domain.ErrInvalidInput)
		}
		if _, exists := c.regions[r.ID]; exists {
			return nil, fmt.Errorf("duplicate region id %q: %w", r.ID, domain.ErrInvalidInput)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return nil, fmt.Errorf("region %q has non-positive extent: %w", r.ID, domain.ErrInvalidInput)
		}
		if r.GridSize <= 0 {
			r.GridSize = DefaultGridSize
		}
		if r.Margin <= 0 {
			r.Margin = DefaultMargin
		}
		c.regions[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	return c, nil
}

// DefaultLayout returns the four-quadrant layout for a screen of the given
// resolution.
func DefaultLayout(screenWidth, screenHeight int) []domain.Region {
	halfW := screenWidth / 2
	halfH := screenHeight / 2
	return []domain.Region{
		{ID: "top_left", Name: "Top Left", X: 0, Y: 0, Width: halfW, Height: halfH, GridSize: DefaultGridSize, Margin: DefaultMargin},
		{ID: "top_right", Name: "Top Right", X: halfW, Y: 0, Width: halfW, Height: halfH, GridSize: DefaultGridSize, Margin: DefaultMargin},
		{ID: "bottom_left", Name: "Bottom Left", X: 0, Y: halfH, Width: halfW, Height: halfH, GridSize: DefaultGridSize, Margin: DefaultMargin},
		{ID: "bottom_right", Name: "Bottom Right", X: halfW, Y: halfH, Width: halfW, Height: halfH, GridSize: DefaultGridSize, Margin: DefaultMargin},
	}
}

// Get returns the region with the given id.
func (c *Catalog) Get(id string) (domain.Region, error) {
	r, ok := c.regions[id]
	if !ok {
		return domain.Region{}, fmt.Errorf("%w: %s", domain.ErrRegionNotFound, id)
	}
	return r, nil
}

// Has reports whether the catalog knows the given region id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.regions[id]
	return ok
}

// List returns the regions in declaration order.
func (c *Catalog) List() []domain.Region {
	out := make([]domain.Region, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.regions[id])
	}
	return out
}

// KnownIDs returns the set of region ids, used to validate rule targets.
func (c *Catalog) KnownIDs() map[string]bool {
	ids := make(map[string]bool, len(c.regions))
	for id := range c.regions {
		ids[id] = true
	}
	return ids
}

// RegionContaining returns the region whose rectangle contains (x, y), or
// false when the point falls outside every region.
func (c *Catalog) RegionContaining(x, y int) (domain.Region, bool) {
	for _, id := range c.order {
		r := c.regions[id]
		if r.Contains(x, y) {
			return r, true
		}
	}
	return domain.Region{}, false
}
