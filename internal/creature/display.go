package creature

// Dot is one particle laid out for drawing.
type Dot struct {
	X, Y    float64
	Radius  float64
	Deleted bool
}

// dotRadius is the particle radius at the reference creature size.
const dotRadius = 10.0

// Display lays out the trial particles for a box of the given size whose
// origin is (x, y). Positions are scaled by size / CreatureSize, so the
// layout is independent of the renderer's resolution. deleted only affects
// styling.
func (c *Creature) Display(x, y, size float64, deleted bool) []Dot {
	scale := size / c.creatureSize
	dots := make([]Dot, len(c.trial))
	for i, pt := range c.trial {
		dots[i] = Dot{
			X:       pt.Pos.X*scale + x,
			Y:       pt.Pos.Y*scale + y,
			Radius:  dotRadius * scale,
			Deleted: deleted,
		}
	}
	return dots
}
