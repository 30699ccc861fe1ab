package assets

import (
	"image"

	"golang.org/x/image/draw"
)

// Scale resizes every frame by factor with Catmull-Rom resampling. Frames
// never shrink below one pixel.
func Scale(f Frames, factor float64) Frames {
	if factor == 1 || factor <= 0 {
		return f
	}
	out := Frames{
		Images: make([]image.Image, len(f.Images)),
		Delays: append([]int(nil), f.Delays...),
	}
	for i, img := range f.Images {
		b := img.Bounds()
		w := max(int(float64(b.Dx())*factor), 1)
		h := max(int(float64(b.Dy())*factor), 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		out.Images[i] = dst
	}
	return out
}

// Mirror flips every frame horizontally.
func Mirror(f Frames) Frames {
	out := Frames{
		Images: make([]image.Image, len(f.Images)),
		Delays: append([]int(nil), f.Delays...),
	}
	for i, img := range f.Images {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dst.Set(b.Dx()-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		out.Images[i] = dst
	}
	return out
}

// WithDelay returns f with every delay set to ms.
func WithDelay(f Frames, ms int) Frames {
	out := Frames{Images: f.Images, Delays: make([]int, len(f.Images))}
	for i := range out.Delays {
		out.Delays[i] = ms
	}
	return out
}
