package observe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os/exec"
	"strings"

	"golang.org/x/image/draw"

	"github.com/milk9111/deskpet/common"
)

// Capturer grabs the screen as PNG bytes.
type Capturer interface {
	Capture(ctx context.Context) ([]byte, error)
}

// NopCapturer is used when no capture command is configured.
type NopCapturer struct{}

func (NopCapturer) Capture(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("screen capture: %w", common.ErrDisabled)
}

// DefaultMaxWidth bounds the width of images sent for analysis.
const DefaultMaxWidth = 1920

// CommandCapturer runs an external screenshot tool that writes an image to
// stdout, for example `grim -` or `screencapture -x -t png /dev/stdout`.
// The output is normalised to PNG and scaled down to MaxWidth.
type CommandCapturer struct {
	Command  []string
	MaxWidth int
	// Quality in [10, 100]; lower values compress harder.
	Quality int
}

func (c CommandCapturer) Capture(ctx context.Context) ([]byte, error) {
	if len(c.Command) == 0 {
		return nil, fmt.Errorf("screen capture: %w", common.ErrDisabled)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("running %s: %w", c.Command[0], common.ErrTimeout)
		}
		msg := strings.TrimSpace(stderr.String())
		return nil, fmt.Errorf("running %s: %v %s: %w", c.Command[0], err, msg, common.ErrTransport)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %v: %w", err, common.ErrMalformedResponse)
	}
	return c.encode(img)
}

func (c CommandCapturer) encode(img image.Image) ([]byte, error) {
	maxW := c.MaxWidth
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	if b := img.Bounds(); b.Dx() > maxW {
		h := b.Dy() * maxW / b.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxW, max(h, 1)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	enc := png.Encoder{CompressionLevel: compression(c.Quality)}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func compression(quality int) png.CompressionLevel {
	switch {
	case quality <= 0:
		return png.DefaultCompression
	case quality < 50:
		return png.BestCompression
	case quality >= 95:
		return png.BestSpeed
	}
	return png.DefaultCompression
}
