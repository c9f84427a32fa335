package fyne

import (
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

// APPNAME is the window title prefix.
const APPNAME = "Skinamp"

// titleChars is how many font glyphs fit the song title area.
const titleChars = 31

// placement positions an object at main-window coordinates before scaling.
type placement struct {
	obj  fyneapp.CanvasObject
	x, y float32
}

// SkinWindow draws the classic main window from skin sprites.
//
// The SkinWindow follows the MVP pattern:
// - It's a "dumb view" that just displays sprites
// - All skin logic is in the Presenter
// - User interactions are forwarded to the Presenter
type SkinWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	binder *SpriteBinder
	logger *slog.Logger

	// UI components
	surface    *fyneapp.Container
	title      *canvas.Image
	buttons    map[string]*widgets.SpriteButton
	placements []placement
	doubleItem *fyneapp.MenuItem
	mainMenu   *fyneapp.MainMenu
	skinsMenu  *fyneapp.Menu

	// State
	scale    int
	skinName string
	skins    []domain.SkinEntry

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewSkinWindow creates the main skinned window. Sprites come from binder.
func NewSkinWindow(app fyneapp.App, binder *SpriteBinder, logger *slog.Logger) *SkinWindow {
	w := &SkinWindow{
		app:     app,
		binder:  binder,
		logger:  logger,
		buttons: make(map[string]*widgets.SpriteButton),
		scale:   1,
	}

	w.window = app.NewWindow(APPNAME)
	w.buildUI()
	w.window.SetFixedSize(true)
	w.layout()

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *SkinWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.addShortcuts()
}

// buildUI places sprites at their classic main-window coordinates.
func (w *SkinWindow) buildUI() {
	w.surface = container.NewWithoutLayout()

	w.place(w.binder.Image("main.background"), 0, 0)
	w.place(w.binder.Image("titleBar.selected"), 0, 0)
	w.place(w.binder.Image("clutterBar.normal"), 10, 22)
	w.place(w.binder.Image("status.stopped"), 26, 28)
	w.place(w.binder.Image("digit.noMinus"), 36, 26)
	w.place(w.binder.Image("digit.0"), 48, 26)
	w.place(w.binder.Image("digit.0"), 60, 26)
	w.place(w.binder.Image("digit.0"), 78, 26)
	w.place(w.binder.Image("digit.0"), 90, 26)
	w.place(w.binder.Image("mono.normal"), 212, 41)
	w.place(w.binder.Image("stereo.normal"), 239, 41)
	w.place(w.binder.Image("volumeSlider.background"), 107, 57)
	w.place(w.binder.Image("volumeSlider.thumb"), 107+51, 58)
	w.place(w.binder.Image("balanceSlider.background"), 177, 57)
	w.place(w.binder.Image("balanceSlider.thumb"), 177+12, 58)
	w.place(w.binder.Image("positionSlider.background"), 16, 72)

	w.title = w.binder.TextImage(APPNAME)
	w.place(w.title, 111, 27)

	w.addButton("previousButton", 16, 88)
	w.addButton("playButton", 39, 88)
	w.addButton("pauseButton", 62, 88)
	w.addButton("stopButton", 85, 88)
	w.addButton("nextButton", 108, 88)
	w.addButton("ejectButton", 136, 89)
	w.addButton("shuffleButton", 164, 89)
	w.addButton("repeatButton", 210, 89)
	w.addButton("eqButton", 219, 58)
	w.addButton("playlistButton", 242, 58)

	w.buttons["ejectButton"].SetOnTapped(w.handleOpenSkin)

	w.window.SetContent(w.surface)
	w.mainMenu = fyneapp.NewMainMenu(w.createMenu()...)
	w.window.SetMainMenu(w.mainMenu)
}

func (w *SkinWindow) place(obj fyneapp.CanvasObject, x, y float32) {
	w.surface.Add(obj)
	w.placements = append(w.placements, placement{obj: obj, x: x, y: y})
}

func (w *SkinWindow) addButton(name string, x, y float32) {
	btn := widgets.NewSpriteButton(
		w.binder.Image(name+"."+string(domain.StateNormal)),
		w.binder.Image(name+"."+string(domain.StatePressed)),
		nil,
	)
	w.buttons[name] = btn
	w.place(btn, x, y)
}

// layout moves every object to its scaled position.
func (w *SkinWindow) layout() {
	s := float32(w.scale)
	for _, p := range w.placements {
		p.obj.Move(fyneapp.NewPos(p.x*s, p.y*s))
		p.obj.Resize(p.obj.MinSize())
	}
	size := fyneapp.NewSize(domain.MainWindowWidth*s, domain.MainWindowHeight*s)
	w.surface.Resize(size)
	w.window.Resize(size)
}

// createMenu creates the application menu.
func (w *SkinWindow) createMenu() []*fyneapp.Menu {
	separator := fyneapp.NewMenuItemSeparator()

	openSkin := fyneapp.NewMenuItem("Open Skin...", w.handleOpenSkin)
	chooseFolder := fyneapp.NewMenuItem("Skin Folder...", w.handleChooseFolder)
	reload := fyneapp.NewMenuItem("Reload Skin", func() {
		if w.presenter != nil {
			w.presenter.OnReloadClicked()
		}
	})
	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})

	w.doubleItem = fyneapp.NewMenuItem("Double Size", w.toggleDoubleSize)
	w.skinsMenu = fyneapp.NewMenu("Skins", w.skinItems()...)

	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", openSkin, chooseFolder, reload, separator, exitMenu),
		fyneapp.NewMenu("View", w.doubleItem),
		w.skinsMenu,
	}
}

// skinItems builds one menu entry per skin in the skin folder.
func (w *SkinWindow) skinItems() []*fyneapp.MenuItem {
	if len(w.skins) == 0 {
		empty := fyneapp.NewMenuItem("No skins found", nil)
		empty.Disabled = true
		return []*fyneapp.MenuItem{empty}
	}

	items := make([]*fyneapp.MenuItem, 0, len(w.skins))
	for _, skin := range w.skins {
		path := skin.Path
		items = append(items, fyneapp.NewMenuItem(skin.Name, func() {
			if w.presenter == nil {
				return
			}
			if err := w.presenter.OnSkinOpened(path); err != nil {
				w.ShowNotification("Error", err.Error())
			}
		}))
	}
	return items
}

func (w *SkinWindow) toggleDoubleSize() {
	if w.presenter != nil {
		w.presenter.OnDoubleSizeToggled()
	}
}

// handleOpenSkin handles the "Open Skin" menu action and the eject button.
func (w *SkinWindow) handleOpenSkin() {
	if w.presenter == nil {
		return
	}

	dialog := NewFileDialog(w.window, w.presenter.SkinDirectory(), func(filePath string) {
		if err := w.presenter.OnSkinOpened(filePath); err != nil {
			w.ShowNotification("Error", err.Error())
		}
	}, w.logger)
	dialog.Show()
}

// handleChooseFolder handles the "Skin Folder" menu action.
func (w *SkinWindow) handleChooseFolder() {
	if w.presenter == nil {
		return
	}

	dialog := NewFolderDialog(w.window, func(folderPath string) {
		if err := w.presenter.OnSkinDirectorySelected(folderPath); err != nil {
			w.ShowNotification("Error", err.Error())
		}
	}, w.logger)
	dialog.Show()
}

// addShortcuts adds keyboard shortcuts.
func (w *SkinWindow) addShortcuts() {
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyD,
		Modifier: fyneapp.KeyModifierShortcutDefault,
	}, func(fyneapp.Shortcut) {
		w.toggleDoubleSize()
	})

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyL,
		Modifier: fyneapp.KeyModifierShortcutDefault,
	}, func(fyneapp.Shortcut) {
		w.handleOpenSkin()
	})
}

// ShowAndRun shows the window and runs the application.
func (w *SkinWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *SkinWindow) Close() {
	w.closeOnce.Do(func() {
		w.binder.Close()
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *SkinWindow) GetWindow() fyneapp.Window {
	return w.window
}

// SkinName returns the name last shown.
func (w *SkinWindow) SkinName() string {
	return w.skinName
}

// Scale returns the render scale.
func (w *SkinWindow) Scale() int {
	return w.scale
}

// SkinList returns the skins offered in the Skins menu.
func (w *SkinWindow) SkinList() []domain.SkinEntry {
	return w.skins
}

// Button returns the named skinned button, e.g. "playButton".
func (w *SkinWindow) Button(name string) (*widgets.SpriteButton, bool) {
	b, ok := w.buttons[name]
	return b, ok
}

// SkinView interface implementation

// SetSkinName shows the skin name in the title text and the window title.
func (w *SkinWindow) SetSkinName(name string) {
	w.skinName = name
	w.window.SetTitle(APPNAME + " - " + name)

	text := []rune(name)
	if len(text) > titleChars {
		text = text[:titleChars]
	}
	w.binder.SetText(w.title, string(text))
	w.layout()
}

// SetScale switches between normal and double-size rendering.
func (w *SkinWindow) SetScale(factor int) {
	w.scale = factor
	w.binder.SetScale(factor)
	if w.doubleItem != nil {
		w.doubleItem.Checked = factor > 1
	}
	w.layout()
}

// SetSkinList rebuilds the Skins menu.
func (w *SkinWindow) SetSkinList(skins []domain.SkinEntry) {
	w.skins = skins
	w.skinsMenu.Items = w.skinItems()
	w.mainMenu.Refresh()
}

// ShowNotification displays a system notification.
func (w *SkinWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// Verify SkinView implementation
var _ SkinView = (*SkinWindow)(nil)
