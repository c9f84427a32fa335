package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

// SkinExtensions are the file extensions a skin archive may carry.
var SkinExtensions = []string{".wsz", ".zip"}

// SkinLibrary finds skin archives in a folder.
// All operations are thread-safe via sync.RWMutex; only one scan runs at a time.
type SkinLibrary struct {
	// Dependencies (injected)
	logger *slog.Logger
	prober ports.SkinProber
	bus    ports.EventBus

	// State
	scanning   bool
	cancelScan context.CancelFunc

	// Concurrency control
	mu sync.RWMutex
}

// NewSkinLibrary creates a new skin library.
func NewSkinLibrary(logger *slog.Logger, prober ports.SkinProber, bus ports.EventBus) *SkinLibrary {
	return &SkinLibrary{
		logger: logger,
		prober: prober,
		bus:    bus,
	}
}

// begin marks a scan as running and returns its context.
func (s *SkinLibrary) begin(op string) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanning {
		return nil, domain.NewServiceError("SkinLibrary", op, "scan already in progress", nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.scanning = true
	s.cancelScan = cancel
	return ctx, nil
}

func (s *SkinLibrary) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelScan != nil {
		s.cancelScan()
	}
	s.scanning = false
	s.cancelScan = nil
}

// ScanFolder walks folder recursively and returns the skin archives in it, sorted
// by name. Files with a skin extension that are not ZIP archives are skipped.
// Publishes started, progress and completed (or cancelled) events.
func (s *SkinLibrary) ScanFolder(folder string) ([]domain.SkinEntry, error) {
	ctx, err := s.begin("ScanFolder")
	if err != nil {
		return nil, err
	}
	defer s.end()

	s.bus.Publish(domain.NewSkinScanStartedEvent(folder))

	files, err := s.collectSkinFiles(ctx, folder)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.bus.Publish(domain.NewSkinScanCancelledEvent(folder, "user cancelled"))
			return nil, domain.ErrScanCancelled
		}
		return nil, domain.NewServiceError("SkinLibrary", "ScanFolder", "cannot read skin folder", err)
	}

	skins, err := s.probeAll(ctx, files)
	if err != nil {
		s.bus.Publish(domain.NewSkinScanCancelledEvent(folder, "user cancelled"))
		return skins, err
	}

	s.bus.Publish(domain.NewSkinScanCompletedEvent(folder, skins))
	s.logger.Debug("skin folder scanned",
		slog.String("folder", folder),
		slog.Int("files", len(files)),
		slog.Int("skins", len(skins)))

	return skins, nil
}

// ScanFiles probes specific files instead of a folder.
func (s *SkinLibrary) ScanFiles(paths []string) ([]domain.SkinEntry, error) {
	ctx, err := s.begin("ScanFiles")
	if err != nil {
		return nil, err
	}
	defer s.end()

	files := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsSkinFile(p) {
			files = append(files, p)
		}
	}
	return s.probeAll(ctx, files)
}

func (s *SkinLibrary) probeAll(ctx context.Context, files []string) ([]domain.SkinEntry, error) {
	skins := make([]domain.SkinEntry, 0, len(files))
	total := len(files)

	for i, path := range files {
		select {
		case <-ctx.Done():
			return sortEntries(skins), domain.ErrScanCancelled
		default:
		}

		entry, err := s.prober.Probe(path)
		if err != nil {
			// Skip files that are not skins but continue scanning
			s.logger.Debug("skipping file", slog.String("path", path), slog.Any("error", err))
		} else {
			skins = append(skins, entry)
		}

		s.bus.Publish(domain.NewSkinScanProgressEvent(domain.ScanProgress{
			CurrentFile:  path,
			FilesScanned: i + 1,
			TotalFiles:   total,
			SkinsFound:   len(skins),
		}))
	}

	return sortEntries(skins), nil
}

func sortEntries(skins []domain.SkinEntry) []domain.SkinEntry {
	sort.SliceStable(skins, func(i, j int) bool {
		a, b := strings.ToLower(skins[i].Name), strings.ToLower(skins[j].Name)
		if a != b {
			return a < b
		}
		return skins[i].Path < skins[j].Path
	})
	return skins
}

// CancelScan cancels the currently running scan operation.
func (s *SkinLibrary) CancelScan() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.scanning {
		return domain.NewServiceError("SkinLibrary", "CancelScan", "no scan in progress", nil)
	}
	if s.cancelScan != nil {
		s.cancelScan()
	}
	return nil
}

// IsScanning returns true if a scan is currently in progress.
func (s *SkinLibrary) IsScanning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanning
}

// IsSkinFile reports whether path has a skin archive extension.
func IsSkinFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SkinExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// collectSkinFiles recursively collects files with a skin extension.
func (s *SkinLibrary) collectSkinFiles(ctx context.Context, folder string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if err != nil {
			if path == folder {
				return err
			}
			// Skip entries we can't access
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsSkinFile(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Shutdown cancels any running scan.
func (s *SkinLibrary) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanning && s.cancelScan != nil {
		s.cancelScan()
	}
	return nil
}
