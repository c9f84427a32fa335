package fyne

import (
	"log/slog"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/tejashwikalptaru/skinamp/internal/service"
)

// FileDialog is a helper for picking a skin archive.
type FileDialog struct {
	window   fyneapp.Window
	startDir string
	callback func(string)
	logger   *slog.Logger
}

// NewFileDialog creates a new skin file dialog. startDir may be empty.
func NewFileDialog(window fyneapp.Window, startDir string, callback func(string), logger *slog.Logger) *FileDialog {
	return &FileDialog{
		window:   window,
		startDir: startDir,
		callback: callback,
		logger:   logger,
	}
}

// Show displays the file dialog.
func (d *FileDialog) Show() {
	fd := dialog.NewFileOpen(func(reader fyneapp.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("file dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		filePath := reader.URI().Path()
		if d.callback != nil {
			d.callback(filePath)
		}
	}, d.window)

	fd.SetFilter(storage.NewExtensionFileFilter(service.SkinExtensions))
	if d.startDir != "" {
		lister, err := storage.ListerForURI(storage.NewFileURI(d.startDir))
		if err != nil {
			d.logger.Debug("skin folder not listable", slog.String("dir", d.startDir), slog.Any("error", err))
		} else {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

// FolderDialog is a helper for choosing the skin folder.
type FolderDialog struct {
	window   fyneapp.Window
	callback func(string)
	logger   *slog.Logger
}

// NewFolderDialog creates a new folder dialog.
func NewFolderDialog(window fyneapp.Window, callback func(string), logger *slog.Logger) *FolderDialog {
	return &FolderDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// Show displays the folder dialog.
func (d *FolderDialog) Show() {
	dialog.ShowFolderOpen(func(uri fyneapp.ListableURI, err error) {
		if err != nil {
			d.logger.Error("folder dialog error", slog.Any("error", err))
			return
		}
		if uri == nil {
			return // User cancelled
		}

		folderPath := uri.Path()
		if d.callback != nil {
			d.callback(folderPath)
		}
	}, d.window)
}
