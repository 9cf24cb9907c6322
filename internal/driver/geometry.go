package driver

import "github.com/vancomm/yourssweeper/internal/mines"

// Geometry is the screen layout shared by a renderer and the input
// adapter feeding pointer events back: square tiles separated by a
// margin, with the same margin around the grid.
type Geometry struct {
	TileSize int `json:"tile_size"`
	Margin   int `json:"margin"`
}

var DefaultGeometry = Geometry{TileSize: 30, Margin: 5}

func (g Geometry) pitch() int {
	return g.TileSize + g.Margin
}

// Project maps a pointer position to the tile under it. Positions left
// of or above the grid and past its last row or column report false.
func (g Geometry) Project(d mines.Difficulty, x, y int) (mines.Point, bool) {
	if x < 0 || y < 0 || g.pitch() <= 0 {
		return mines.Point{}, false
	}
	p := mines.Point{Row: y / g.pitch(), Col: x / g.pitch()}
	return p, d.InBounds(p.Row, p.Col)
}

// Origin is the top left corner of the tile at p.
func (g Geometry) Origin(p mines.Point) (x, y int) {
	return g.pitch()*p.Col + g.Margin, g.pitch()*p.Row + g.Margin
}

// Center is the middle of the tile at p.
func (g Geometry) Center(p mines.Point) (x, y int) {
	x, y = g.Origin(p)
	return x + g.TileSize/2, y + g.TileSize/2
}

// Size is the area needed to draw a board of d.
func (g Geometry) Size(d mines.Difficulty) (width, height int) {
	return g.pitch()*d.Cols + g.Margin, g.pitch()*d.Rows + g.Margin
}
