package chat

import (
	"image"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/milk9111/deskpet/common"
)

const (
	MinWidth  = 250
	MaxWidth  = 400
	MinHeight = 120
	MaxHeight = 400

	charWidth  = 8
	lineHeight = 20
	maxLines   = 10

	// ScreenMargin keeps the panel off the screen border.
	ScreenMargin = 10
	// Gap separates the panel from the pet.
	Gap = 10
)

// Measure returns the panel size needed to show text.
func Measure(text string) (int, int) {
	if strings.TrimSpace(text) == "" {
		return MinWidth, MinHeight
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	n := min(len(lines), maxLines)

	w := common.ClampInt(longest*charWidth+40, MinWidth, MaxWidth)
	h := common.ClampInt(n*lineHeight+100, MinHeight, MaxHeight)
	return w, h
}

// Place positions a w x h panel beside pet: on its right when the pet's
// centre is in the left half of the screen, otherwise on its left,
// vertically centred on the pet and kept ScreenMargin inside the screen.
func Place(pet image.Rectangle, w, h int, screen image.Point) image.Rectangle {
	var x int
	if pet.Min.X+pet.Dx()/2 < screen.X/2 {
		x = pet.Max.X + Gap
	} else {
		x = pet.Min.X - w - Gap
	}
	y := pet.Min.Y + (pet.Dy()-h)/2

	if x < ScreenMargin {
		x = ScreenMargin
	} else if x+w > screen.X-ScreenMargin {
		x = screen.X - w - ScreenMargin
	}
	if y < ScreenMargin {
		y = ScreenMargin
	} else if y+h > screen.Y-ScreenMargin {
		y = screen.Y - h - ScreenMargin
	}

	return image.Rect(x, y, x+w, y+h)
}

// ClearAfter is how long a line stays up before it is cleared. Longer
// lines get more reading time.
func ClearAfter(text string) time.Duration {
	n := utf8.RuneCountInString(text)
	switch {
	case n > 200:
		return 45 * time.Second
	case n > 100:
		return 35 * time.Second
	}
	return 30 * time.Second
}
