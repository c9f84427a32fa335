// Package archive opens classic .wsz skin archives (renamed ZIP files).
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

// Options bound how much of an archive the loader is willing to inflate.
type Options struct {
	// MaxEntryBytes caps the uncompressed size of a single entry
	MaxEntryBytes int64

	// MaxEntries caps the number of entries in the archive
	MaxEntries int
}

// DefaultOptions returns limits that comfortably fit any real skin.
func DefaultOptions() Options {
	return Options{
		MaxEntryBytes: 16 << 20,
		MaxEntries:    512,
	}
}

// sniffLen is enough for filetype to recognise every format it knows.
const sniffLen = 262

// Loader reads a whole archive into memory. It never extracts to disk, so there
// are no temp files to clean up, and the file handle is closed before Load returns.
type Loader struct {
	logger *slog.Logger
	opts   Options
}

// NewLoader creates a new archive loader.
func NewLoader(logger *slog.Logger, opts Options) *Loader {
	defaults := DefaultOptions()
	if opts.MaxEntryBytes <= 0 {
		opts.MaxEntryBytes = defaults.MaxEntryBytes
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaults.MaxEntries
	}
	return &Loader{logger: logger, opts: opts}
}

// Load reads the archive at filePath and returns its entries keyed by lowercased base name.
func (l *Loader) Load(ctx context.Context, filePath string) (*domain.SkinArchive, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, domain.NewArchiveError(domain.ArchiveUnreadable, filePath, "empty path", domain.ErrInvalidFilePath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, domain.NewArchiveError(domain.ArchiveUnreadable, filePath, "cannot read file", err)
	}

	return l.LoadBytes(ctx, filePath, data)
}

// LoadBytes parses an archive already held in memory. filePath is only used for
// error messages and the resulting SkinArchive.
func (l *Loader) LoadBytes(ctx context.Context, filePath string, data []byte) (*domain.SkinArchive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, domain.NewArchiveError(domain.ArchiveUnreadable, filePath,
			fmt.Sprintf("not a zip archive (looks like %s)", sniff(data)), err)
	}

	if len(zr.File) > l.opts.MaxEntries {
		return nil, domain.NewArchiveError(domain.ArchiveUnreadable, filePath,
			fmt.Sprintf("too many entries: %d > %d", len(zr.File), l.opts.MaxEntries), nil)
	}

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := normalizeName(f.Name)
		if name == "" || f.FileInfo().IsDir() {
			continue
		}
		if _, dup := files[name]; dup {
			l.logger.Debug("duplicate archive entry ignored",
				slog.String("entry", f.Name),
				slog.String("archive", filePath))
			continue
		}

		content, err := l.readEntry(f)
		if err != nil {
			return nil, domain.NewArchiveError(domain.ArchiveUnreadable, filePath,
				fmt.Sprintf("cannot read entry %q", f.Name), err)
		}
		files[name] = content
	}

	if len(files) == 0 {
		return nil, domain.NewArchiveError(domain.ArchiveEmpty, filePath, "archive has no file entries", nil)
	}

	sum := sha256.Sum256(data)
	archive := &domain.SkinArchive{
		Key:   hex.EncodeToString(sum[:8]),
		Path:  filePath,
		Files: files,
	}

	l.logger.Debug("archive loaded",
		slog.String("path", filePath),
		slog.String("key", archive.Key),
		slog.Int("entries", len(files)))

	return archive, nil
}

func (l *Loader) readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > uint64(l.opts.MaxEntryBytes) {
		return nil, fmt.Errorf("entry is %d bytes, limit %d", f.UncompressedSize64, l.opts.MaxEntryBytes)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// The header size can lie; bound the actual read too.
	content, err := io.ReadAll(io.LimitReader(rc, l.opts.MaxEntryBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > l.opts.MaxEntryBytes {
		return nil, fmt.Errorf("entry exceeds %d bytes", l.opts.MaxEntryBytes)
	}
	return content, nil
}

// normalizeName lowercases the base name of an entry. Skins are often zipped with
// their enclosing folder, and some tools write Windows separators.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasSuffix(name, "/") {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToLower(base)
}

func sniff(data []byte) string {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "unknown data"
	}
	return kind.Extension
}

// Probe reads only the header of filePath and reports it as a skin entry when it
// is a ZIP archive. Nothing is inflated.
func (l *Loader) Probe(filePath string) (domain.SkinEntry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return domain.SkinEntry{}, domain.NewArchiveError(domain.ArchiveUnreadable, filePath, "cannot open file", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.SkinEntry{}, domain.NewArchiveError(domain.ArchiveUnreadable, filePath, "cannot stat file", err)
	}
	if info.IsDir() {
		return domain.SkinEntry{}, domain.NewArchiveError(domain.ArchiveUnreadable, filePath, "is a directory", domain.ErrInvalidFilePath)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return domain.SkinEntry{}, domain.NewArchiveError(domain.ArchiveUnreadable, filePath, "cannot read header", err)
	}
	if kind := sniff(head[:n]); kind != "zip" {
		return domain.SkinEntry{}, domain.NewArchiveError(domain.ArchiveUnreadable, filePath,
			fmt.Sprintf("not a zip archive (%s)", kind), domain.ErrNotSkinArchive)
	}

	return domain.SkinEntry{
		Path:      filePath,
		Name:      DisplayName(filePath),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// DisplayName derives a human readable skin name from an archive path.
func DisplayName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var (
	_ ports.ArchiveLoader = (*Loader)(nil)
	_ ports.SkinProber    = (*Loader)(nil)
)
