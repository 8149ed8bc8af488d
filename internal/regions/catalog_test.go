package regions

import (
	"errors"
	"testing"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name    string
		regions []domain.Region
		wantErr bool
	}{
		{
			name: "valid regions",
			regions: []domain.Region{
				{ID: "top_left", Width: 200, Height: 200},
				{ID: "top_right", X: 200, Width: 200, Height: 200},
			},
			wantErr: false,
		},
		{
			name:    "empty",
			regions: nil,
			wantErr: true,
		},
		{
			name: "duplicate id",
			regions: []domain.Region{
				{ID: "a", Width: 100, Height: 100},
				{ID: "a", Width: 100, Height: 100},
			},
			wantErr: true,
		},
		{
			name: "empty id",
			regions: []domain.Region{
				{ID: "", Width: 100, Height: 100},
			},
			wantErr: true,
		},
		{
			name: "zero extent",
			regions: []domain.Region{
				{ID: "a", Width: 0, Height: 100},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.regions)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalog_GridDefaults(t *testing.T) {
	c, err := NewCatalog([]domain.Region{{ID: "a", Width: 100, Height: 100}})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	r, err := c.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if r.GridSize != DefaultGridSize {
		t.Errorf("GridSize = %d, want %d", r.GridSize, DefaultGridSize)
	}
	if r.Margin != DefaultMargin {
		t.Errorf("Margin = %d, want %d", r.Margin, DefaultMargin)
	}

	c, err = NewCatalog([]domain.Region{{ID: "b", Width: 100, Height: 100, Margin: -1}})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	r, _ = c.Get("b")
	if r.Margin != DefaultMargin {
		t.Errorf("negative Margin = %d after defaulting, want %d", r.Margin, DefaultMargin)
	}
}

func TestCatalog_Get_Unknown(t *testing.T) {
	c, _ := NewCatalog(DefaultLayout(1920, 1080))

	_, err := c.Get("middle")
	if !errors.Is(err, domain.ErrRegionNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrRegionNotFound", err)
	}
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout(1920, 1080)
	if len(layout) != 4 {
		t.Fatalf("DefaultLayout() returned %d regions, want 4", len(layout))
	}

	c, err := NewCatalog(layout)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	for _, id := range []string{"top_left", "top_right", "bottom_left", "bottom_right"} {
		if !c.Has(id) {
			t.Errorf("catalog missing region %q", id)
		}
	}

	r, ok := c.RegionContaining(1900, 1000)
	if !ok || r.ID != "bottom_right" {
		t.Errorf("RegionContaining(1900, 1000) = %q, %v; want bottom_right, true", r.ID, ok)
	}

	if _, ok := c.RegionContaining(2000, 0); ok {
		t.Error("RegionContaining outside screen = true, want false")
	}
}
