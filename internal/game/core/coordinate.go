package core

import "fmt"

// Position represents a cell on the square game grid.
// Row grows downward, Col grows to the right; (0,0) is the top-left corner.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewPosition creates a new position with the given row and column
func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// IsValid checks if the position lies inside an n×n grid
func (p Position) IsValid(dim int) bool {
	return p.Row >= 0 && p.Row < dim && p.Col >= 0 && p.Col < dim
}

// DistanceTo calculates the Manhattan distance to another position
func (p Position) DistanceTo(other Position) int {
	dr := p.Row - other.Row
	dc := p.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Add returns a new position that is the sum of this position and another
func (p Position) Add(other Position) Position {
	return Position{Row: p.Row + other.Row, Col: p.Col + other.Col}
}

// Sub returns the offset from other to this position
func (p Position) Sub(other Position) Position {
	return Position{Row: p.Row - other.Row, Col: p.Col - other.Col}
}

// Step returns the position n cells away in the given direction
func (p Position) Step(dir Direction, n int) Position {
	v := dir.Vector()
	return Position{Row: p.Row + v.Row*n, Col: p.Col + v.Col*n}
}

// Neighbor returns the adjacent position in the given direction
func (p Position) Neighbor(dir Direction) Position {
	return p.Step(dir, 1)
}

// SharesLineWith reports whether both positions lie on the same row or column
func (p Position) SharesLineWith(other Position) bool {
	return p.Row == other.Row || p.Col == other.Col
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
