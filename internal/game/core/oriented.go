package core

import "fmt"

// OrientedPosition is a cell plus the tank body facing; the unit of search state
type OrientedPosition struct {
	Pos Position  `json:"pos"`
	Dir Direction `json:"dir"`
}

// NewOrientedPosition creates an oriented position
func NewOrientedPosition(row, col int, dir Direction) OrientedPosition {
	return OrientedPosition{Pos: NewPosition(row, col), Dir: dir}
}

// StepKind tags the variant held by a Step
type StepKind int

const (
	StepNone StepKind = iota
	StepMove
	StepRotate
)

// Step is a single unit action of the search engine: one move or one body rotation
type Step struct {
	Kind     StepKind
	Move     MoveDirection
	Rotation Rotation
}

// MoveStep returns a movement step
func MoveStep(m MoveDirection) Step { return Step{Kind: StepMove, Move: m} }

// RotateStep returns a body rotation step
func RotateStep(r Rotation) Step { return Step{Kind: StepRotate, Rotation: r} }

// AllSteps lists the four transitions explored from every search state
var AllSteps = [4]Step{
	MoveStep(Forward),
	MoveStep(Backward),
	RotateStep(RotateLeft),
	RotateStep(RotateRight),
}

// Reversed returns the step that undoes s
func (s Step) Reversed() Step {
	switch s.Kind {
	case StepMove:
		return MoveStep(s.Move.Reversed())
	case StepRotate:
		return RotateStep(s.Rotation.Reversed())
	default:
		return s
	}
}

func (s Step) String() string {
	switch s.Kind {
	case StepMove:
		return "move " + s.Move.String()
	case StepRotate:
		return "rotate " + s.Rotation.String()
	default:
		return "none"
	}
}

// Moved returns the oriented position after moving forward or backward
func (o OrientedPosition) Moved(m MoveDirection) OrientedPosition {
	dir := o.Dir
	if m == Backward {
		dir = dir.Opposite()
	}
	return OrientedPosition{Pos: o.Pos.Neighbor(dir), Dir: o.Dir}
}

// Rotated returns the oriented position after a body rotation
func (o OrientedPosition) Rotated(r Rotation) OrientedPosition {
	return OrientedPosition{Pos: o.Pos, Dir: o.Dir.Rotated(r)}
}

// Apply returns the oriented position reached by taking step s
func (o OrientedPosition) Apply(s Step) OrientedPosition {
	switch s.Kind {
	case StepMove:
		return o.Moved(s.Move)
	case StepRotate:
		return o.Rotated(s.Rotation)
	default:
		return o
	}
}

// Behind returns the cell directly behind the tank
func (o OrientedPosition) Behind() Position {
	return o.Pos.Neighbor(o.Dir.Opposite())
}

func (o OrientedPosition) String() string {
	return fmt.Sprintf("%s %s", o.Pos, o.Dir)
}
