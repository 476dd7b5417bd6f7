package tui

import (
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/tasksync"
)

// Msg is the sealed interface for all timer view messages.
// All message types must implement the sealed() method.
type Msg interface {
	sealed()
}

// MsgTick is sent on every clock tick to recompute the elapsed value.
type MsgTick struct {
	Now time.Time
}

func (MsgTick) sealed() {}

// MsgSyncUpdate is sent when the task store pushes a new document state.
type MsgSyncUpdate struct {
	Snapshot tasksync.Snapshot
}

func (MsgSyncUpdate) sealed() {}

// MsgActionDone is sent after a start or pause action finishes. Errors
// are surfaced through the timer state's banner, not through this
// message.
type MsgActionDone struct{}

func (MsgActionDone) sealed() {}

// MsgCompleteDone is sent after the complete action finishes.
type MsgCompleteDone struct {
	Err     error
	Granted []domain.Achievement
}

func (MsgCompleteDone) sealed() {}

// MsgError is sent when the subscription itself fails to establish.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
