// Package widgets provides custom Fyne widgets for skinned windows.
package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// SpriteButton is a button drawn with two skin sprites: one for the normal
// state and one shown while the pointer is held down.
type SpriteButton struct {
	widget.BaseWidget

	normal  *canvas.Image
	pressed *canvas.Image
	onTap   func()
}

// NewSpriteButton creates a button from the normal and pressed images.
func NewSpriteButton(normal, pressed *canvas.Image, onTap func()) *SpriteButton {
	b := &SpriteButton{
		normal:  normal,
		pressed: pressed,
		onTap:   onTap,
	}
	b.pressed.Hide()
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget.
func (b *SpriteButton) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.normal, b.pressed))
}

// MinSize follows the normal sprite.
func (b *SpriteButton) MinSize() fyne.Size {
	return b.normal.MinSize()
}

// Tapped implements fyne.Tappable.
func (b *SpriteButton) Tapped(*fyne.PointEvent) {
	if b.onTap != nil {
		b.onTap()
	}
}

// MouseDown implements desktop.Mouseable.
func (b *SpriteButton) MouseDown(*desktop.MouseEvent) {
	b.setPressed(true)
}

// MouseUp implements desktop.Mouseable.
func (b *SpriteButton) MouseUp(*desktop.MouseEvent) {
	b.setPressed(false)
}

// IsPressed reports whether the pressed sprite is showing.
func (b *SpriteButton) IsPressed() bool {
	return b.pressed.Visible()
}

// SetOnTapped replaces the tap handler.
func (b *SpriteButton) SetOnTapped(fn func()) {
	b.onTap = fn
}

func (b *SpriteButton) setPressed(down bool) {
	if down {
		b.pressed.Show()
		b.normal.Hide()
	} else {
		b.normal.Show()
		b.pressed.Hide()
	}
	b.Refresh()
}

// Ensure SpriteButton implements the required interfaces
var _ fyne.Tappable = (*SpriteButton)(nil)
var _ desktop.Mouseable = (*SpriteButton)(nil)
