package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/deskpet/chat"
	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/prefabs"
)

const (
	chatPadding = 12
	chatFadeIn  = 150 * time.Millisecond
)

// ChatUI is the ebitenui rendition of the chat controller: a reply text
// above a one-line input.
type ChatUI struct {
	ctrl *chat.Controller
	copy func(string)

	ui    *ebitenui.UI
	panel *widget.Container
	reply *widget.Text
	input *widget.TextInput

	shown   bool
	rect    image.Rectangle
	fade    float64
	surface *ebiten.Image
}

// NewChatUI builds the panel. copyFn receives the last reply on Ctrl+C;
// it may be nil.
func NewChatUI(ctrl *chat.Controller, style prefabs.ChatSpec, copyFn func(string)) (*ChatUI, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("chat ui: load font: %w", err)
	}
	var face text.Face = &text.GoTextFace{Source: s, Size: 14}

	def := prefabs.DefaultPetSpec().Chat
	u := &ChatUI{ctrl: ctrl, copy: copyFn}

	u.reply = widget.NewText(
		widget.TextOpts.Text("", &face, style.Text.Or(def.Text)),
		widget.TextOpts.MaxWidth(float64(chat.MaxWidth-2*chatPadding)),
	)
	u.input = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(chat.MinWidth-2*chatPadding, 28),
		),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     imageui.NewNineSliceColor(style.Input.Or(def.Input)),
			Disabled: imageui.NewNineSliceColor(color.NRGBA{R: 200, G: 200, B: 200, A: 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     style.InputText.Or(def.InputText),
			Disabled: color.Gray{Y: 120},
			Caret:    style.Caret.Or(def.Caret),
		}),
		widget.TextInputOpts.Face(&face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			u.ctrl.Send(args.InputText)
			u.input.SetText("")
		}),
	)

	u.panel = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(style.Background.Or(def.Background))),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: chatPadding, Bottom: chatPadding, Left: chatPadding, Right: chatPadding}),
		)),
	)
	u.panel.AddChild(u.reply)
	u.panel.AddChild(u.input)
	u.panel.GetWidget().Visibility = widget.Visibility_Hide

	// The panel is placed by hand from the window component, so the root
	// has no layout of its own.
	root := widget.NewContainer()
	root.AddChild(u.panel)
	u.ui = &ebitenui.UI{Container: root}
	return u, nil
}

// Update follows the controller and the window system's placement. It runs
// as a scheduler system after the window system.
func (u *ChatUI) Update(w *ecs.World) {
	var win *component.Window
	if e, ok := w.First(component.WindowComponent.Kind()); ok {
		win, _ = ecs.Get(w, e, component.WindowComponent.Kind())
	}

	visible := u.ctrl.Visible() && win != nil && win.ChatW > 0
	if !visible {
		if u.shown {
			u.panel.GetWidget().Visibility = widget.Visibility_Hide
			u.input.Focus(false)
			u.shown = false
		}
		u.ui.Update()
		return
	}

	if !u.shown {
		u.panel.GetWidget().Visibility = widget.Visibility_Show
		u.input.SetText("")
		u.input.Focus(true)
		u.shown = true
		u.fade = 0
	}
	u.fade = min(u.fade+float64(time.Second/time.Duration(ebiten.TPS()))/float64(chatFadeIn), 1)

	u.reply.Label = u.ctrl.Text()
	rect := image.Rect(win.ChatX, win.ChatY, win.ChatX+win.ChatW, win.ChatY+win.ChatH)
	if rect != u.rect {
		u.rect = rect
		u.panel.SetLocation(rect)
		u.panel.RequestRelayout()
	}

	u.handleKeys()
	u.ui.Update()
}

func (u *ChatUI) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		u.ctrl.Close()
		return
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) && u.input.GetText() == "" {
		if reply := u.ctrl.LastReply(); reply != "" && u.copy != nil {
			u.copy(reply)
		}
	}
}

// Draw paints the panel, fading it in over the first few frames.
func (u *ChatUI) Draw(screen *ebiten.Image) {
	if !u.shown {
		return
	}
	if u.fade >= 1 {
		u.ui.Draw(screen)
		return
	}

	b := screen.Bounds()
	if u.surface == nil || u.surface.Bounds() != b {
		if u.surface != nil {
			u.surface.Deallocate()
		}
		u.surface = ebiten.NewImage(b.Dx(), b.Dy())
	}
	u.surface.Clear()
	u.ui.Draw(u.surface)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(common.Lerp(0, 1, u.fade)))
	screen.DrawImage(u.surface, op)
}
