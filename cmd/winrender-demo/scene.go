package main

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/winrender"
)

// scene lays out in logical pixels, so it looks the same on every
// display scale.
type scene struct {
	backend winrender.Backend
	title   text.Face
	label   text.Face
	size    winrender.LogicalSize
}

func newScene(b winrender.Backend) (*scene, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &scene{
		backend: b,
		title:   src.Face(28),
		label:   src.Face(14),
	}, nil
}

func (s *scene) resize(size winrender.LogicalSize) { s.size = size }

func (s *scene) draw(dc *gg.Context) {
	w, h := float64(s.size.Width), float64(s.size.Height)
	drawBackground(dc, w, h)
	drawShapes(dc, w, h)
	drawRotor(dc, w*0.75, h*0.55, math.Min(w, h)*0.12)

	dc.SetFont(s.title)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored("winrender", w/2, 40, 0.5, 0.5)

	dc.SetFont(s.label)
	status := fmt.Sprintf("backend: %s   window: %dx%d", s.backend, s.size.Width, s.size.Height)
	tw, th := dc.MeasureString(status)
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawRoundedRectangle(8, h-th-20, tw+16, th+12, 6)
	_ = dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(status, 16, h-14)
}

func drawBackground(dc *gg.Context, w, h float64) {
	const steps = 64
	for i := 0; i < steps; i++ {
		t := float64(i) / steps
		dc.SetColor(gg.RGB(0.1+t*0.3, 0.15+t*0.25, 0.35+t*0.2))
		dc.DrawRectangle(0, h*t, w, h/steps+1)
		_ = dc.Fill()
	}
}

func drawShapes(dc *gg.Context, w, h float64) {
	r := math.Min(w, h) * 0.1
	cx, cy := w*0.25, h*0.5

	dc.SetRGBA(1, 0.3, 0.3, 0.8)
	dc.DrawCircle(cx-r*0.5, cy-r*0.3, r)
	_ = dc.Fill()
	dc.SetRGBA(0.3, 1, 0.3, 0.8)
	dc.DrawCircle(cx+r*0.5, cy-r*0.3, r)
	_ = dc.Fill()
	dc.SetRGBA(0.3, 0.3, 1, 0.8)
	dc.DrawCircle(cx, cy+r*0.5, r)
	_ = dc.Fill()

	// One logical pixel outline; stays crisp at any scale.
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(cx-r*2, cy-r*2, r*4, r*4)
	_ = dc.Stroke()
}

func drawRotor(dc *gg.Context, cx, cy, size float64) {
	for i := 0; i < 8; i++ {
		dc.Push()
		dc.Translate(cx, cy)
		dc.Rotate(float64(i) * math.Pi / 4)
		dc.SetColor(gg.HSL(float64(i)*45, 0.8, 0.6))
		dc.DrawRectangle(-size/2, -size/2, size, size)
		_ = dc.Fill()
		dc.Pop()
	}
}
