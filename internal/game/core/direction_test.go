package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_Vector(t *testing.T) {
	assert.Equal(t, Position{-1, 0}, Up.Vector())
	assert.Equal(t, Position{0, 1}, Right.Vector())
	assert.Equal(t, Position{1, 0}, Down.Vector())
	assert.Equal(t, Position{0, -1}, Left.Vector())
}

func TestDirection_Opposite(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected Direction
	}{
		{Up, Down},
		{Right, Left},
		{Down, Up},
		{Left, Right},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dir.Opposite())
			assert.Equal(t, tt.dir, tt.dir.Opposite().Opposite())
		})
	}
}

func TestDirection_Rotated(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		rot      Rotation
		expected Direction
	}{
		{"UpLeft", Up, RotateLeft, Left},
		{"UpRight", Up, RotateRight, Right},
		{"LeftRight", Left, RotateRight, Up},
		{"LeftLeft", Left, RotateLeft, Down},
		{"DownNone", Down, RotateNone, Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dir.Rotated(tt.rot))
		})
	}
}

func TestDirection_RotatedThenReversedIsIdentity(t *testing.T) {
	for _, d := range Directions {
		for _, r := range []Rotation{RotateLeft, RotateRight, RotateNone} {
			assert.Equal(t, d, d.Rotated(r).Rotated(r.Reversed()), "%s %s", d, r)
		}
	}
}

func TestDirection_IsParallel(t *testing.T) {
	assert.True(t, Up.IsParallel(Up))
	assert.True(t, Up.IsParallel(Down))
	assert.True(t, Left.IsParallel(Right))
	assert.False(t, Up.IsParallel(Left))
	assert.False(t, Right.IsParallel(Down))
}

func TestDirection_RotationTo(t *testing.T) {
	tests := []struct {
		name     string
		from     Direction
		to       Direction
		expected Rotation
	}{
		{"Equal", Up, Up, RotateNone},
		{"Clockwise", Up, Right, RotateRight},
		{"CounterClockwise", Up, Left, RotateLeft},
		{"OppositeTurnsLeft", Up, Down, RotateLeft},
		{"WrapClockwise", Left, Up, RotateRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.RotationTo(tt.to))
		})
	}
}

func TestMoveDirection_Reversed(t *testing.T) {
	assert.Equal(t, Backward, Forward.Reversed())
	assert.Equal(t, Forward, Backward.Reversed())
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "up", Up.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
	assert.Equal(t, "none", RotateNone.String())
}
