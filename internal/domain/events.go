// Package domain defines events for the event-driven architecture.
// Events replace callbacks and decouple the skin manager from render consumers.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Skin load lifecycle events
	EventSkinLoadStarted    EventType = "skin.load_started"
	EventSkinChanged        EventType = "skin.changed"
	EventSkinLoadFailed     EventType = "skin.load_failed"
	EventSkinLoadSuperseded EventType = "skin.load_superseded"

	// Cache events
	EventCacheEvicted EventType = "cache.evicted"

	// Watcher events
	EventSkinFileChanged EventType = "skin.file_changed"

	// Skin folder scan events
	EventSkinScanStarted   EventType = "library.scan_started"
	EventSkinScanProgress  EventType = "library.scan_progress"
	EventSkinScanCompleted EventType = "library.scan_completed"
	EventSkinScanCancelled EventType = "library.scan_cancelled"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// SkinLoadStartedEvent is published when a load request enters the Loading state.
type SkinLoadStartedEvent struct {
	baseEvent
	Path string
	Seq  uint64
}

// Type returns the event type.
func (e SkinLoadStartedEvent) Type() EventType {
	return EventSkinLoadStarted
}

// NewSkinLoadStartedEvent creates a new SkinLoadStartedEvent.
func NewSkinLoadStartedEvent(path string, seq uint64) SkinLoadStartedEvent {
	return SkinLoadStartedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
		Seq:       seq,
	}
}

// SkinChangedEvent is published after the current skin has been swapped.
// Consumers re-read sprites from the skin manager when they receive it.
type SkinChangedEvent struct {
	baseEvent
	Key         string
	PreviousKey string
	Path        string
	Name        string
	Seq         uint64
	Warnings    int
	Duration    time.Duration
}

// Type returns the event type.
func (e SkinChangedEvent) Type() EventType {
	return EventSkinChanged
}

// NewSkinChangedEvent creates a new SkinChangedEvent.
func NewSkinChangedEvent(skin *Skin, previousKey string, seq uint64, duration time.Duration) SkinChangedEvent {
	return SkinChangedEvent{
		baseEvent:   newBaseEvent(),
		Key:         skin.Key,
		PreviousKey: previousKey,
		Path:        skin.Path,
		Name:        skin.Name,
		Seq:         seq,
		Warnings:    len(skin.Warnings),
		Duration:    duration,
	}
}

// SkinLoadFailedEvent is published when a load fails. The previous skin stays current.
type SkinLoadFailedEvent struct {
	baseEvent
	Path    string
	Seq     uint64
	Error   error
	Message string // User-facing message
}

// Type returns the event type.
func (e SkinLoadFailedEvent) Type() EventType {
	return EventSkinLoadFailed
}

// NewSkinLoadFailedEvent creates a new SkinLoadFailedEvent.
func NewSkinLoadFailedEvent(err *SkinLoadError) SkinLoadFailedEvent {
	return SkinLoadFailedEvent{
		baseEvent: newBaseEvent(),
		Path:      err.Path,
		Seq:       err.Seq,
		Error:     err,
		Message:   err.UserMessage(),
	}
}

// SkinLoadSupersededEvent is published when a finished load is discarded
// because a newer request exists.
type SkinLoadSupersededEvent struct {
	baseEvent
	Path      string
	Seq       uint64
	LatestSeq uint64
}

// Type returns the event type.
func (e SkinLoadSupersededEvent) Type() EventType {
	return EventSkinLoadSuperseded
}

// NewSkinLoadSupersededEvent creates a new SkinLoadSupersededEvent.
func NewSkinLoadSupersededEvent(path string, seq, latest uint64) SkinLoadSupersededEvent {
	return SkinLoadSupersededEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
		Seq:       seq,
		LatestSeq: latest,
	}
}

// CacheEvictedEvent is published when the asset cache drops a skin.
type CacheEvictedEvent struct {
	baseEvent
	Key        string
	FreedBytes int64
	UsedBytes  int64
}

// Type returns the event type.
func (e CacheEvictedEvent) Type() EventType {
	return EventCacheEvicted
}

// NewCacheEvictedEvent creates a new CacheEvictedEvent.
func NewCacheEvictedEvent(key string, freed, used int64) CacheEvictedEvent {
	return CacheEvictedEvent{
		baseEvent:  newBaseEvent(),
		Key:        key,
		FreedBytes: freed,
		UsedBytes:  used,
	}
}

// SkinFileChangedEvent is published by the watcher when the current skin file changes on disk.
type SkinFileChangedEvent struct {
	baseEvent
	Path string
}

// Type returns the event type.
func (e SkinFileChangedEvent) Type() EventType {
	return EventSkinFileChanged
}

// NewSkinFileChangedEvent creates a new SkinFileChangedEvent.
func NewSkinFileChangedEvent(path string) SkinFileChangedEvent {
	return SkinFileChangedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
	}
}

// SkinScanStartedEvent is published when a skin folder scan begins.
type SkinScanStartedEvent struct {
	baseEvent
	Folder string
}

// Type returns the event type.
func (e SkinScanStartedEvent) Type() EventType {
	return EventSkinScanStarted
}

// NewSkinScanStartedEvent creates a new SkinScanStartedEvent.
func NewSkinScanStartedEvent(folder string) SkinScanStartedEvent {
	return SkinScanStartedEvent{
		baseEvent: newBaseEvent(),
		Folder:    folder,
	}
}

// SkinScanProgressEvent is published after each candidate file is probed.
type SkinScanProgressEvent struct {
	baseEvent
	Progress ScanProgress
}

// Type returns the event type.
func (e SkinScanProgressEvent) Type() EventType {
	return EventSkinScanProgress
}

// NewSkinScanProgressEvent creates a new SkinScanProgressEvent.
func NewSkinScanProgressEvent(progress ScanProgress) SkinScanProgressEvent {
	return SkinScanProgressEvent{
		baseEvent: newBaseEvent(),
		Progress:  progress,
	}
}

// SkinScanCompletedEvent is published when a scan finishes.
type SkinScanCompletedEvent struct {
	baseEvent
	Folder string
	Skins  []SkinEntry
}

// Type returns the event type.
func (e SkinScanCompletedEvent) Type() EventType {
	return EventSkinScanCompleted
}

// NewSkinScanCompletedEvent creates a new SkinScanCompletedEvent.
func NewSkinScanCompletedEvent(folder string, skins []SkinEntry) SkinScanCompletedEvent {
	return SkinScanCompletedEvent{
		baseEvent: newBaseEvent(),
		Folder:    folder,
		Skins:     skins,
	}
}

// SkinScanCancelledEvent is published when a scan is cancelled.
type SkinScanCancelledEvent struct {
	baseEvent
	Folder string
	Reason string
}

// Type returns the event type.
func (e SkinScanCancelledEvent) Type() EventType {
	return EventSkinScanCancelled
}

// NewSkinScanCancelledEvent creates a new SkinScanCancelledEvent.
func NewSkinScanCancelledEvent(folder, reason string) SkinScanCancelledEvent {
	return SkinScanCancelledEvent{
		baseEvent: newBaseEvent(),
		Folder:    folder,
		Reason:    reason,
	}
}
