package core

// Color is the foreground color of a screen cell. The platform maps each
// value to an ANSI 256-color style.
type Color uint8

const (
	ColorDefault Color = iota
	ColorPlayer
	ColorPipe
	ColorPipeCap
	ColorProjectile
	ColorAim
	ColorTerrain
	ColorTerrainDense
	ColorHUD
	ColorDim
)
