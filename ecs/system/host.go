package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Host is the OS window the pet lives in and the mouse over it.
type Host interface {
	// CursorPosition is relative to the window and may lie outside it.
	CursorPosition() (int, int)
	JustPressed(b ebiten.MouseButton) bool
	JustReleased(b ebiten.MouseButton) bool

	WindowPosition() (int, int)
	SetWindowPosition(x, y int)
	SetWindowSize(w, h int)
	SetMousePassthrough(on bool)
	ScreenSize() (int, int)
}

// EbitenHost is the Host backed by the running ebiten window.
type EbitenHost struct{}

func (EbitenHost) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (EbitenHost) JustPressed(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(b)
}

func (EbitenHost) JustReleased(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustReleased(b)
}

func (EbitenHost) WindowPosition() (int, int) { return ebiten.WindowPosition() }

func (EbitenHost) SetWindowPosition(x, y int) { ebiten.SetWindowPosition(x, y) }

func (EbitenHost) SetWindowSize(w, h int) { ebiten.SetWindowSize(w, h) }

func (EbitenHost) SetMousePassthrough(on bool) { ebiten.SetWindowMousePassthrough(on) }

func (EbitenHost) ScreenSize() (int, int) { return ebiten.Monitor().Size() }
