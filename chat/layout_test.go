package chat

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		name string
		text string
		w, h int
	}{
		{"empty", "", MinWidth, MinHeight},
		{"short line", "hi", MinWidth, MinHeight},
		{"wide line", strings.Repeat("a", 30), 280, MinHeight},
		{"very wide line", strings.Repeat("a", 100), MaxWidth, MinHeight},
		{"a few lines", "a\nb\nc", MinWidth, 160},
		{"lines past the cap", strings.Repeat("x\n", 30), MinWidth, 300},
		{"wide runes", strings.Repeat("猫", 30), 280, MinHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Measure(tt.text)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestPlace(t *testing.T) {
	screen := image.Pt(1920, 1080)

	t.Run("left half opens to the right", func(t *testing.T) {
		pet := image.Rect(100, 500, 200, 600)
		got := Place(pet, 250, 120, screen)
		assert.Equal(t, image.Rect(210, 490, 460, 610), got)
	})

	t.Run("right half opens to the left", func(t *testing.T) {
		pet := image.Rect(1500, 500, 1600, 600)
		got := Place(pet, 250, 120, screen)
		assert.Equal(t, image.Rect(1240, 490, 1490, 610), got)
	})

	t.Run("clamped inside the screen", func(t *testing.T) {
		pet := image.Rect(1850, 0, 1950, 100)
		got := Place(pet, 250, 300, screen)
		assert.Equal(t, ScreenMargin, got.Min.Y)
		assert.Equal(t, 1590, got.Min.X)

		pet = image.Rect(0, 1000, 100, 1100)
		got = Place(pet, 400, 300, screen)
		assert.Equal(t, 110, got.Min.X)
		assert.Equal(t, 1080-ScreenMargin, got.Max.Y)
	})
}

func TestClearAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, ClearAfter("short"))
	assert.Equal(t, 30*time.Second, ClearAfter(strings.Repeat("a", 100)))
	assert.Equal(t, 35*time.Second, ClearAfter(strings.Repeat("a", 101)))
	assert.Equal(t, 45*time.Second, ClearAfter(strings.Repeat("a", 201)))
}
