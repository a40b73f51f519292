package core

import "fmt"

// Direction represents a facing on the grid. Values match the wire encoding.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists all facings in clockwise order starting from Up
var Directions = [4]Direction{Up, Right, Down, Left}

var directionVectors = [4]Position{
	Up:    {Row: -1, Col: 0},
	Right: {Row: 0, Col: 1},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
}

// Vector returns the unit offset of one step in this direction
func (d Direction) Vector() Position {
	return directionVectors[d.normalized()]
}

func (d Direction) normalized() Direction {
	return Direction(((int(d) % 4) + 4) % 4)
}

// Opposite returns the direction rotated by 180°
func (d Direction) Opposite() Direction {
	return (d + 2).normalized()
}

// Rotated returns the direction after applying a 90° rotation.
// RotateNone leaves the direction unchanged.
func (d Direction) Rotated(r Rotation) Direction {
	switch r {
	case RotateLeft:
		return (d + 3).normalized()
	case RotateRight:
		return (d + 1).normalized()
	default:
		return d
	}
}

// IsParallel reports whether both directions lie on the same axis
func (d Direction) IsParallel(other Direction) bool {
	return d == other || d == other.Opposite()
}

// RotationTo returns the single rotation that moves d toward target.
// An opposite target yields RotateLeft; equal directions yield RotateNone.
func (d Direction) RotationTo(target Direction) Rotation {
	if d == target {
		return RotateNone
	}
	if d.Rotated(RotateRight) == target {
		return RotateRight
	}
	return RotateLeft
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Rotation is a ±90° turn. RotateNone is the distinguished "no rotation" value.
type Rotation int

const (
	RotateLeft Rotation = iota
	RotateRight
	RotateNone
)

// Reversed returns the rotation that undoes r
func (r Rotation) Reversed() Rotation {
	switch r {
	case RotateLeft:
		return RotateRight
	case RotateRight:
		return RotateLeft
	default:
		return RotateNone
	}
}

func (r Rotation) String() string {
	switch r {
	case RotateLeft:
		return "left"
	case RotateRight:
		return "right"
	case RotateNone:
		return "none"
	default:
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
}

// MoveDirection is a tank movement relative to its body facing
type MoveDirection int

const (
	Forward MoveDirection = iota
	Backward
)

// Reversed returns the opposite movement
func (m MoveDirection) Reversed() MoveDirection {
	if m == Forward {
		return Backward
	}
	return Forward
}

func (m MoveDirection) String() string {
	if m == Forward {
		return "forward"
	}
	return "backward"
}
