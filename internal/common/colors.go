package common

import (
	"image/color"
)

// TeamColors is the fallback palette by team index, used when the server
// sends no team color
var TeamColors = map[int]color.Color{
	-1: color.RGBA{120, 120, 120, 255}, // Unknown owner – gray
	0:  color.RGBA{200, 50, 50, 255},   // Red
	1:  color.RGBA{50, 100, 200, 255},  // Blue
	2:  color.RGBA{50, 200, 50, 255},   // Green
	3:  color.RGBA{200, 200, 50, 255},  // Yellow
}

// Tile colors
var (
	FloorColor      = color.RGBA{60, 60, 60, 255}
	WallColor       = color.RGBA{80, 80, 80, 255}
	PenetrableColor = color.RGBA{110, 90, 70, 255}
	ZoneColor       = color.RGBA{90, 80, 140, 255}
	ZoneHueShift    = 30
	ZoneLabelColor  = color.White
)

// Entity colors
var (
	BulletColor        = color.RGBA{240, 240, 240, 255}
	HealingBulletColor = color.RGBA{80, 220, 120, 255}
	StunBulletColor    = color.RGBA{240, 200, 60, 255}
	MineColor          = color.RGBA{230, 120, 40, 255}
	LaserColor         = color.RGBA{255, 40, 40, 200}
	TurretColor        = color.Black
)

// UI colors
var (
	BackgroundColor = color.Black
	GridLineColor   = color.RGBA{50, 50, 50, 255}
	FogOfWarColor   = color.RGBA{0, 0, 0, 200}
)

// TeamColor returns the opaque color of a server color value (0xRRGGBB),
// falling back to the palette entry of index when rgb is zero
func TeamColor(rgb uint32, index int) color.Color {
	if rgb != 0 {
		return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255}
	}
	if c, ok := TeamColors[index]; ok {
		return c
	}
	return TeamColors[-1]
}

// ShiftColor returns a lighter version of c
func ShiftColor(c color.Color, amount int) color.Color {
	r, g, b, a := c.RGBA()
	inc := uint32(amount) << 8 // amount*256

	r = clamp16(r + inc)
	g = clamp16(g + inc)
	b = clamp16(b + inc)
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func clamp16(v uint32) uint32 {
	const max = 0xFFFF
	if v > max {
		return max
	}
	return v
}
