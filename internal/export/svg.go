package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/creatures/internal/creature"
	"github.com/san-kum/creatures/internal/geom"
)

const (
	liveFill    = "#000000"
	deletedFill = "#e1e1e1"
)

// CreatureToSVG draws a creature's display layout as filled circles on a
// white background. Deleted dots are drawn light grey.
func CreatureToSVG(dots []creature.Dot, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for _, d := range dots {
		fill := liveFill
		if d.Deleted {
			fill = deletedFill
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, d.X, d.Y, d.Radius, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws one path per particle from a replayed trajectory,
// where frames[k][i] is particle i's position after step k.
func TrajectoryToSVG(frames [][]geom.Vec, width, height int, strokeColor string) string {
	if len(frames) < 2 || len(frames[0]) == 0 {
		return ""
	}

	// Find bounds
	minX, maxX := frames[0][0].X, frames[0][0].X
	minY, maxY := frames[0][0].Y, frames[0][0].Y
	for _, frame := range frames {
		for _, p := range frame {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i := range frames[0] {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
		for k, frame := range frames {
			if i >= len(frame) {
				break
			}
			x := (frame[i].X - minX) / rangeX * float64(width)
			y := (frame[i].Y - minY) / rangeY * float64(height)
			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
