package viz

import (
	"math"

	"github.com/san-kum/creatures/internal/creature"
)

// DrawCreature plots c's current trial layout centered on cv, scaled so the
// creature's reference size spans the shorter canvas side. Deleted creatures
// are drawn as outlines.
func DrawCreature(cv *Canvas, c *creature.Creature, deleted bool) {
	w, h := cv.PixelSize()
	size := float64(min(w, h))
	DrawDots(cv, c.Display(float64(w)/2, float64(h)/2, size, deleted))
}

func DrawDots(cv *Canvas, dots []creature.Dot) {
	for _, d := range dots {
		x, y := int(math.Round(d.X)), int(math.Round(d.Y))
		r := max(int(math.Round(d.Radius/2)), 1)
		if d.Deleted {
			cv.DrawCircle(x, y, r)
		} else {
			cv.FillCircle(x, y, r)
		}
	}
}

// DrawFrame outlines the square DrawCreature scales the reference creature
// size into.
func DrawFrame(cv *Canvas) {
	w, h := cv.PixelSize()
	size := min(w, h)
	if size == 0 {
		return
	}
	x0, y0 := (w-size)/2, (h-size)/2
	x1, y1 := x0+size-1, y0+size-1
	cv.DrawLine(x0, y0, x1, y0)
	cv.DrawLine(x1, y0, x1, y1)
	cv.DrawLine(x1, y1, x0, y1)
	cv.DrawLine(x0, y1, x0, y0)
}
