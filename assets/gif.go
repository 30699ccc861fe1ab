// Package assets loads the pet's sprite animations.
package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
)

// DefaultDelay is used for frames that carry no delay, in ms.
const DefaultDelay = 80

// Frames is one decoded animation. Delays are in milliseconds and parallel
// Images.
type Frames struct {
	Images []image.Image
	Delays []int
}

func (f Frames) Len() int { return len(f.Images) }

// Size is the bounds size of the first frame.
func (f Frames) Size() image.Point {
	if len(f.Images) == 0 {
		return image.Point{}
	}
	return f.Images[0].Bounds().Size()
}

// DecodeGIF decodes every frame of an animated GIF into full RGBA frames,
// applying each frame's disposal so partial frames composite the way
// viewers show them.
func DecodeGIF(r io.Reader) (Frames, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return Frames{}, fmt.Errorf("decoding gif: %w", err)
	}
	if len(g.Image) == 0 {
		return Frames{}, fmt.Errorf("decoding gif: no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	out := Frames{
		Images: make([]image.Image, 0, len(g.Image)),
		Delays: make([]int, 0, len(g.Image)),
	}
	for i, frame := range g.Image {
		var restore *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = cloneRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		out.Images = append(out.Images, cloneRGBA(canvas))

		delay := DefaultDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = g.Delay[i] * 10
		}
		out.Delays = append(out.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}
	return out, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
