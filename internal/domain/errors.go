// Package domain defines domain-specific errors.
// These errors represent skin loading failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that adapters and services can return.
// The struct errors below match these sentinels through errors.Is.
var (
	// ErrArchiveUnreadable is returned when a skin file is not a valid ZIP archive.
	ErrArchiveUnreadable = errors.New("archive unreadable")

	// ErrArchiveEmpty is returned when a skin archive contains no file entries.
	ErrArchiveEmpty = errors.New("archive empty")

	// ErrBitmapInvalidHeader is returned when BMP magic bytes or header fields are invalid.
	ErrBitmapInvalidHeader = errors.New("bitmap has invalid header")

	// ErrBitmapUnsupportedDepth is returned for bit depths the decoder does not handle.
	ErrBitmapUnsupportedDepth = errors.New("bitmap has unsupported bit depth")

	// ErrBitmapTruncated is returned when the buffer is shorter than the header declares.
	ErrBitmapTruncated = errors.New("bitmap data truncated")

	// ErrExtractionOutOfBounds is returned when a sprite region exceeds its bitmap.
	ErrExtractionOutOfBounds = errors.New("sprite region out of bounds")

	// ErrConfigMalformed is returned when a skin text config cannot be parsed.
	ErrConfigMalformed = errors.New("skin config malformed")

	// ErrMissingRequiredBitmaps is returned when none of the mandatory sprite sheets decoded.
	ErrMissingRequiredBitmaps = errors.New("missing required bitmaps")

	// ErrLoadSuperseded is returned to a load whose result was discarded because a newer
	// load was requested.
	ErrLoadSuperseded = errors.New("skin load superseded by a newer request")

	// ErrLoadCancelled is returned when a load is cancelled before it could be applied.
	ErrLoadCancelled = errors.New("skin load cancelled")

	// ErrSpriteNotFound is returned when a sprite name is not in the sprite map.
	ErrSpriteNotFound = errors.New("sprite not found")

	// ErrSheetMissing is returned when a skin does not carry the sheet a sprite lives on.
	ErrSheetMissing = errors.New("sprite sheet missing")

	// ErrSkinNotCached is returned when a skin key is not resident in the asset cache.
	ErrSkinNotCached = errors.New("skin not cached")

	// ErrCacheEntryTooLarge is returned when a single skin exceeds the whole cache budget.
	ErrCacheEntryTooLarge = errors.New("skin exceeds cache budget")

	// ErrManagerClosed is returned when a load is requested after Shutdown.
	ErrManagerClosed = errors.New("skin manager closed")

	// ErrScanCancelled is returned when a skin folder scan is cancelled.
	ErrScanCancelled = errors.New("skin scan cancelled")

	// ErrNotSkinArchive is returned when a file does not look like a skin archive.
	ErrNotSkinArchive = errors.New("not a skin archive")

	// ErrInvalidFilePath is returned when a file path is invalid.
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ArchiveErrorKind classifies archive failures.
type ArchiveErrorKind string

// Archive error kinds.
const (
	ArchiveUnreadable ArchiveErrorKind = "unreadable"
	ArchiveEmpty      ArchiveErrorKind = "empty"
)

// ArchiveError represents a failure to open or read a skin archive.
type ArchiveError struct {
	Kind    ArchiveErrorKind
	Path    string // Archive path
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s '%s': %s", e.Kind, e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error kind.
func (e *ArchiveError) Is(target error) bool {
	switch e.Kind {
	case ArchiveUnreadable:
		return target == ErrArchiveUnreadable
	case ArchiveEmpty:
		return target == ErrArchiveEmpty
	}
	return false
}

// NewArchiveError creates a new ArchiveError.
func NewArchiveError(kind ArchiveErrorKind, path, message string, err error) *ArchiveError {
	return &ArchiveError{
		Kind:    kind,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// BitmapErrorKind classifies bitmap decoding failures.
type BitmapErrorKind string

// Bitmap error kinds.
const (
	BitmapInvalidHeader    BitmapErrorKind = "invalidHeader"
	BitmapUnsupportedDepth BitmapErrorKind = "unsupportedDepth"
	BitmapTruncated        BitmapErrorKind = "truncated"
)

// BitmapError represents a failure to decode a BMP blob.
type BitmapError struct {
	Kind    BitmapErrorKind
	Sheet   string // Sheet file name, filled in by the caller when known
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BitmapError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("bitmap %s (%s): %s", e.Kind, e.Sheet, e.Message)
	}
	return fmt.Sprintf("bitmap %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *BitmapError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error kind.
func (e *BitmapError) Is(target error) bool {
	switch e.Kind {
	case BitmapInvalidHeader:
		return target == ErrBitmapInvalidHeader
	case BitmapUnsupportedDepth:
		return target == ErrBitmapUnsupportedDepth
	case BitmapTruncated:
		return target == ErrBitmapTruncated
	}
	return false
}

// NewBitmapError creates a new BitmapError.
func NewBitmapError(kind BitmapErrorKind, message string, err error) *BitmapError {
	return &BitmapError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ExtractionError is returned when a sprite region does not fit its source bitmap.
// It is recoverable: callers fall back to the default skin's sprite.
type ExtractionError struct {
	Sprite string // Sprite name
	Sheet  string // Sheet file name
	Region string // Requested rectangle
	Bounds string // Bitmap bounds
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("sprite %s on %s: region %s outside bitmap %s", e.Sprite, e.Sheet, e.Region, e.Bounds)
}

// Is matches ErrExtractionOutOfBounds.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionOutOfBounds
}

// ConfigParseError represents a malformed text config. It is always recoverable:
// the parser returns documented defaults alongside it.
type ConfigParseError struct {
	File    string // Config file name (region.txt, pledit.txt, viscolor.txt)
	Line    int    // 1-based line number, 0 when not line specific
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config %s:%d malformed: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("config %s malformed: %s", e.File, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// Is matches ErrConfigMalformed.
func (e *ConfigParseError) Is(target error) bool {
	return target == ErrConfigMalformed
}

// NewConfigParseError creates a new ConfigParseError.
func NewConfigParseError(file string, line int, message string, err error) *ConfigParseError {
	return &ConfigParseError{
		File:    file,
		Line:    line,
		Message: message,
		Err:     err,
	}
}

// SkinLoadErrorKind classifies fatal skin load failures.
type SkinLoadErrorKind string

// Skin load error kinds.
const (
	SkinLoadArchive        SkinLoadErrorKind = "archive"
	SkinLoadMissingBitmaps SkinLoadErrorKind = "missingRequiredBitmaps"
	SkinLoadCache          SkinLoadErrorKind = "cache"
	SkinLoadCancelled      SkinLoadErrorKind = "cancelled"
	SkinLoadSuperseded     SkinLoadErrorKind = "superseded"
)

// SkinLoadError aggregates the reasons a load attempt failed.
// The previous skin stays active whenever one of these is returned.
type SkinLoadError struct {
	Kind SkinLoadErrorKind
	Path string
	Seq  uint64 // Request sequence number
	Err  error
}

// Error implements the error interface.
func (e *SkinLoadError) Error() string {
	return fmt.Sprintf("could not load skin '%s' (%s): %v", e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *SkinLoadError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to users for a failed load.
func (e *SkinLoadError) UserMessage() string {
	switch e.Kind {
	case SkinLoadArchive, SkinLoadMissingBitmaps:
		return "could not load skin: corrupt or incomplete file"
	case SkinLoadCache:
		return "could not load skin: skin is too large"
	default:
		return "skin change was cancelled"
	}
}

// NewSkinLoadError creates a new SkinLoadError.
func NewSkinLoadError(kind SkinLoadErrorKind, path string, seq uint64, err error) *SkinLoadError {
	return &SkinLoadError{
		Kind: kind,
		Path: path,
		Seq:  seq,
		Err:  err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "SkinManager")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
