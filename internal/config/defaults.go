package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

//go:embed defaults/topdown.yaml
var defaultTopDownYAML []byte

//go:embed defaults/terrain.yaml
var defaultTerrainYAML []byte

// DefaultFlappyConfig returns the default Flappy Bird configuration.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{Width: 720, Height: 720},
		Physics: FlappyPhysics{
			Gravity:     1000,
			JumpImpulse: 500,
			CheckBounds: true,
		},
		Pipes: FlappyPipes{
			Width:         100,
			Height:        500,
			VerticalGap:   100,
			HorizontalGap: 200,
			Count:         8,
			ScrollSpeed:   100,
			Resample:      "per-pair",
		},
		Player: PlayerConfig{Size: 50},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 50,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}

// DefaultTopDownConfig returns the default top-down shooter configuration.
func DefaultTopDownConfig() TopDownConfig {
	return TopDownConfig{
		World:      WorldConfig{Width: 720, Height: 720},
		Player:     PlayerConfig{Size: 50, Speed: 100},
		Movement:   TopDownMovement{Normalize: true},
		Projectile: TopDownShot{Speed: 400, Size: 10},
	}
}

// DefaultTerrainConfig returns the default terrain explorer configuration.
func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		World:  WorldConfig{Width: 720, Height: 720},
		Player: PlayerConfig{Size: 16, Speed: 160},
		Chunks: TerrainChunk{Size: 10, BlockSize: 16, Radius: 2},
		Noise: TerrainNoise{
			Zoom:      0.1,
			Threshold: 0.5,
			Alpha:     2,
			Beta:      2,
			Octaves:   3,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a demo.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "flappy":
		return defaultFlappyYAML
	case "topdown":
		return defaultTopDownYAML
	case "terrain":
		return defaultTerrainYAML
	default:
		return nil
	}
}
