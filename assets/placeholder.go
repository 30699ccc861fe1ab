package assets

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// PlaceholderSize is the edge length of generated frames.
const PlaceholderSize = 100

const placeholderFrames = 8

var placeholderColors = map[string]color.RGBA{
	"move":  {R: 0x8e, G: 0xc5, B: 0xfc, A: 0xff},
	"drag":  {R: 0xff, G: 0xb3, B: 0x8a, A: 0xff},
	"idle1": {R: 0xb8, G: 0xe9, B: 0x94, A: 0xff},
	"idle2": {R: 0xf9, G: 0xd7, B: 0x7e, A: 0xff},
	"idle3": {R: 0xd6, G: 0xa2, B: 0xe8, A: 0xff},
	"idle4": {R: 0xff, G: 0xc3, B: 0xd9, A: 0xff},
}

// Placeholder draws a small bobbing blob standing in for a missing
// animation, so the pet still shows up without its sprite files.
func Placeholder(name string) Frames {
	body, ok := placeholderColors[name]
	if !ok {
		body = placeholderColors["move"]
	}
	eye := image.NewUniform(color.RGBA{R: 0x30, G: 0x30, B: 0x40, A: 0xff})

	out := Frames{}
	for i := 0; i < placeholderFrames; i++ {
		phase := 2 * math.Pi * float64(i) / placeholderFrames
		bob := float32(4 * math.Sin(phase))
		squash := float32(1 + 0.05*math.Cos(phase))
		if name == "drag" {
			squash = 0.85
		}

		img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
		s := float32(PlaceholderSize)
		cx, cy := s/2, s*0.58+bob
		rx, ry := s*0.38/squash, s*0.32*squash

		r := vector.NewRasterizer(PlaceholderSize, PlaceholderSize)
		ellipse(r, cx, cy, rx, ry)
		r.Draw(img, img.Bounds(), image.NewUniform(body), image.Point{})

		eyeH := s * 0.06
		if name != "move" && name != "drag" && i%4 == 3 {
			eyeH = s * 0.01
		}
		r = vector.NewRasterizer(PlaceholderSize, PlaceholderSize)
		ellipse(r, cx-rx*0.35, cy-ry*0.2, s*0.035, eyeH)
		ellipse(r, cx+rx*0.35, cy-ry*0.2, s*0.035, eyeH)
		r.Draw(img, img.Bounds(), eye, image.Point{})

		out.Images = append(out.Images, img)
		out.Delays = append(out.Delays, DefaultDelay*2)
	}
	return out
}

// ellipse adds a closed ellipse to r using four cubic segments.
func ellipse(r *vector.Rasterizer, cx, cy, rx, ry float32) {
	const k = 0.5523
	r.MoveTo(cx+rx, cy)
	r.CubeTo(cx+rx, cy+ry*k, cx+rx*k, cy+ry, cx, cy+ry)
	r.CubeTo(cx-rx*k, cy+ry, cx-rx, cy+ry*k, cx-rx, cy)
	r.CubeTo(cx-rx, cy-ry*k, cx-rx*k, cy-ry, cx, cy-ry)
	r.CubeTo(cx+rx*k, cy-ry, cx+rx, cy-ry*k, cx+rx, cy)
	r.ClosePath()
}
