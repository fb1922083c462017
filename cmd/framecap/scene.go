package main

import (
	"math"

	"github.com/gogpu/gg"
)

// drawScene paints frame index of a looping test pattern: a slowly cycling
// background, a progress bar and a ball orbiting the center.
func drawScene(dc *gg.Context, index, total int) error {
	w := float64(dc.Width())
	h := float64(dc.Height())
	phase := float64(index) / math.Max(float64(total), 1)

	dc.ClearWithColor(gg.RGB(0.1+0.1*math.Sin(2*math.Pi*phase), 0.12, 0.18))

	dc.SetRGB(0.25, 0.7, 0.35)
	dc.DrawRectangle(0, h-h/20, w*phase, h/20)
	if err := dc.Fill(); err != nil {
		return err
	}

	radius := math.Min(w, h) / 10
	orbit := math.Min(w, h)/2 - radius*1.5
	x := w/2 + orbit*math.Cos(2*math.Pi*phase)
	y := h/2 + orbit*math.Sin(2*math.Pi*phase)
	dc.SetRGB(0.95, 0.75, 0.2)
	dc.DrawCircle(x, y, radius)
	return dc.Fill()
}
