package sim

// Stage is one step of the frame update.
type Stage struct {
	Name string
	Run  func(w *World, dt float32)
}

// Pipeline is the statically ordered list of stages run every frame.
type Pipeline []Stage

// Names returns the stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, st := range p {
		names[i] = st.Name
	}
	return names
}

// buildPipeline selects the stages enabled by cfg. The relative order is
// fixed: input before any movement, gravity before integration,
// integration before collision, collision before restart.
func buildPipeline(cfg Config) Pipeline {
	p := Pipeline{{Name: "input", Run: readInput}}

	if cfg.JumpSpeed != 0 {
		p = append(p, Stage{Name: "jump", Run: jump})
	}
	if cfg.Movement {
		p = append(p, Stage{Name: "move", Run: move})
	}
	if cfg.Aim {
		p = append(p, Stage{Name: "aim", Run: aim})
	}
	if cfg.Shoot {
		p = append(p, Stage{Name: "shoot", Run: shoot})
	}
	if cfg.Gravity {
		p = append(p, Stage{Name: "gravity", Run: applyGravity})
	}
	p = append(p, Stage{Name: "physics", Run: applyPhysics})
	if cfg.Confine {
		p = append(p, Stage{Name: "confine", Run: confine})
	}
	if cfg.Pipes {
		p = append(p, Stage{Name: "scroll", Run: scrollPipes})
	}
	if cfg.Shoot {
		p = append(p, Stage{Name: "cull", Run: cullProjectiles})
	}
	if cfg.CheckBounds || cfg.Pipes {
		p = append(p, Stage{Name: "collision", Run: checkCollision})
	}
	p = append(p, Stage{Name: "restart", Run: restart})
	return p
}

// Pipeline returns the world's stage list.
func (w *World) Pipeline() Pipeline {
	return w.pipeline
}
