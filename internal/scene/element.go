package scene

import "github.com/fcsgo/fcs/internal/culling"

// Presentation elements an object toggles when its visibility changes.
// Boxes are relative to the owning object's position.

type Renderer struct {
	Name    string
	Local   culling.AABB
	Enabled bool
}

type Collider struct {
	Local culling.AABB
}

type Behaviour struct {
	Name    string
	Enabled bool
}

// ParticleSystem stops emitting while hidden; live particles are left alone.
type ParticleSystem struct {
	Name     string
	Emitting bool
	plays    int
}

func (p *ParticleSystem) Play() {
	if !p.Emitting {
		p.plays++
	}
	p.Emitting = true
}

func (p *ParticleSystem) Stop() { p.Emitting = false }

// Plays counts how many times emission was (re)started.
func (p *ParticleSystem) Plays() int { return p.plays }
