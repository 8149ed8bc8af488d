package domain

// Region is a fixed rectangular area of the desktop surface with its own
// placement grid. Regions are static for a session.
type Region struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	X        int    `json:"x" mapstructure:"x"`
	Y        int    `json:"y" mapstructure:"y"`
	Width    int    `json:"width" mapstructure:"width"`
	Height   int    `json:"height" mapstructure:"height"`
	GridSize int    `json:"grid_size" mapstructure:"grid_size"`
	Margin   int    `json:"margin" mapstructure:"margin"`
}

// Contains reports whether the point (x, y) lies inside the region rectangle.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Point is a screen coordinate pair used to track occupied grid cells.
type Point struct {
	X int
	Y int
}

// IconPosition is an icon's coordinates as reported by the icon-position
// store.
type IconPosition struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}
