// Package tui implements the interactive timer view on top of
// bubbletea. It renders one observed task: the ticking elapsed value,
// the live sync state and the start/pause/complete actions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/tasksync"
	"github.com/YuriiYurchuk/Focus-Flow/internal/timer"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

// TimerModel is the bubbletea model for the timer view.
type TimerModel struct {
	container *app.Container
	state     *timer.State
	updates   chan tasksync.Snapshot
	fatalErr  error

	keys   KeyMap
	styles Styles
	help   help.Model

	granted []domain.Achievement
	lastErr string

	ownerID string
	taskID  string

	tickInterval time.Duration
	width        int
	height       int
}

// NewTimerModel creates a timer view bound to one task. The store
// subscription starts in Init, not here.
func NewTimerModel(c *app.Container, ownerID, taskID string) (*TimerModel, error) {
	state, err := c.TimerState(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	tick, err := c.Config.TickInterval()
	if err != nil {
		return nil, err
	}

	m := &TimerModel{
		container:    c,
		state:        state,
		updates:      make(chan tasksync.Snapshot, 1),
		keys:         DefaultKeyMap(),
		styles:       DefaultStyles(),
		help:         help.New(),
		ownerID:      ownerID,
		taskID:       taskID,
		tickInterval: tick,
	}
	state.Observer().SetOnUpdate(m.pushUpdate)
	return m, nil
}

// pushUpdate hands a snapshot to the bubbletea loop. Only the latest
// snapshot matters, so a pending one is dropped rather than blocking
// the store's delivery goroutine.
func (m *TimerModel) pushUpdate(snap tasksync.Snapshot) {
	for {
		select {
		case m.updates <- snap:
			return
		default:
			select {
			case <-m.updates:
			default:
			}
		}
	}
}

// Init subscribes to the task and starts the tick loop.
func (m *TimerModel) Init() tea.Cmd {
	return tea.Batch(m.observe(), m.waitForSync(), m.tick())
}

// observe returns a command that establishes the store subscription.
func (m *TimerModel) observe() tea.Cmd {
	return func() tea.Msg {
		if err := m.state.Observer().Observe(context.Background(), m.ownerID, m.taskID); err != nil {
			return MsgError{Err: err}
		}
		return nil
	}
}

// waitForSync returns a command that blocks until the next store push.
func (m *TimerModel) waitForSync() tea.Cmd {
	return func() tea.Msg {
		return MsgSyncUpdate{Snapshot: <-m.updates}
	}
}

// tick returns a command that fires the next clock tick.
func (m *TimerModel) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return MsgTick{Now: t}
	})
}

// toggle returns a command that dispatches start or pause. Failures
// land in the timer state's own error banner.
func (m *TimerModel) toggle() tea.Cmd {
	return func() tea.Msg {
		m.state.Toggle(context.Background())
		return MsgActionDone{}
	}
}

// complete returns a command that completes the task, records the
// completion in the owner's stats and grants any newly earned
// achievements.
func (m *TimerModel) complete() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.container.CompleteTaskUseCase().Execute(ctx, usecase.CompleteTaskInput{
			OwnerID: m.ownerID,
			TaskID:  m.taskID,
		})
		if err != nil {
			return MsgCompleteDone{Err: err}
		}
		if _, err := m.container.RecordCompletionUseCase().Execute(ctx, usecase.RecordCompletionInput{
			OwnerID: m.ownerID,
			Task:    out.Task,
		}); err != nil {
			return MsgCompleteDone{Err: err}
		}
		granted, err := m.container.GrantAchievementsUseCase().Execute(ctx, usecase.GrantAchievementsInput{
			OwnerID: m.ownerID,
		})
		if err != nil {
			return MsgCompleteDone{Err: err}
		}
		return MsgCompleteDone{Granted: granted.Granted}
	}
}

// Update handles messages and keybindings.
func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.state.Observer().Stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.lastErr = ""
			return m, m.toggle()
		case key.Matches(msg, m.keys.Complete):
			m.lastErr = ""
			return m, m.complete()
		case key.Matches(msg, m.keys.ClearError):
			m.lastErr = ""
			m.state.ClearError()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m, nil

	case MsgTick:
		m.state.Tick(msg.Now)
		return m, m.tick()

	case MsgSyncUpdate:
		// The snapshot itself is read from the state at render time;
		// the message only wakes the loop so the view refreshes.
		m.state.Tick(m.container.Clock.Now())
		return m, m.waitForSync()

	case MsgActionDone:
		return m, nil

	case MsgCompleteDone:
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
			return m, nil
		}
		m.granted = append(m.granted, msg.Granted...)
		return m, nil

	case MsgError:
		m.fatalErr = msg.Err
		return m, nil
	}

	return m, nil
}

// View renders the timer.
func (m *TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("FocusFlow Timer"))
	b.WriteString("\n\n")

	if m.fatalErr != nil {
		b.WriteString(m.styles.ErrorMsg.Render(fmt.Sprintf("error: %v", m.fatalErr)))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render("press q to quit"))
		return m.styles.App.Render(b.String())
	}

	snap := m.state.Snapshot()
	switch snap.State {
	case tasksync.StateDisconnected:
		b.WriteString(m.styles.Elapsed.Render("connecting..."))
		b.WriteString("\n")
	case tasksync.StateMissing:
		b.WriteString(m.styles.SyncMissing.Render(fmt.Sprintf("task %s no longer exists", m.taskID)))
		b.WriteString("\n")
	case tasksync.StateSynced:
		m.renderTask(&b, snap)
	}

	if msg := m.errorLine(); msg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorMsg.Render(msg))
		b.WriteString("\n")
	}

	for _, a := range m.granted {
		b.WriteString("\n")
		b.WriteString(m.styles.Grants.Render(fmt.Sprintf("Achievement unlocked: %s %s", a.Icon, a.Title)))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}

// renderTask renders the synced task: title, status, elapsed and the
// sync and loading indicators.
func (m *TimerModel) renderTask(b *strings.Builder, snap tasksync.Snapshot) {
	task := snap.Task
	if task == nil {
		return
	}

	status := m.styles.StatusStyle(task.Status).Render(
		fmt.Sprintf("%s %s", StatusIcon(task.Status), task.Status.Display()))
	b.WriteString(fmt.Sprintf("%s  %s\n", m.styles.Title.Render(task.Title), status))

	elapsedStyle := m.styles.Elapsed
	if snap.Active {
		elapsedStyle = m.styles.ElapsedRunning
	}
	b.WriteString(elapsedStyle.Render(formatElapsed(m.state.Elapsed())))
	b.WriteString("\n")

	if snap.SyncErr != nil {
		b.WriteString(m.styles.SyncWarning.Render("sync lost, showing last known state"))
	} else {
		b.WriteString(m.styles.SyncOK.Render("live"))
	}

	loading := m.state.Loading()
	switch {
	case loading.Starting:
		b.WriteString(m.styles.Loading.Render("  starting..."))
	case loading.Pausing:
		b.WriteString(m.styles.Loading.Render("  pausing..."))
	}
	b.WriteString("\n")
}

// errorLine picks the banner to show: a complete failure wins over the
// timer state's auto-expiring start/pause error.
func (m *TimerModel) errorLine() string {
	if m.lastErr != "" {
		return m.lastErr
	}
	return m.state.Err(m.container.Clock.Now())
}

// formatElapsed renders a duration as h:mm:ss.
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
