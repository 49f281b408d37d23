package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/crawlboard/internal/crawler"
	"github.com/five82/crawlboard/internal/grid"
)

type actionKind int

const (
	actionSubmit actionKind = iota
	actionRequeue
	actionDelete
)

func (k actionKind) String() string {
	switch k {
	case actionSubmit:
		return "submit"
	case actionRequeue:
		return "requeue"
	case actionDelete:
		return "delete"
	default:
		return "action"
	}
}

// actionResultMsg reports the outcome of a mutating request. The store is
// never written here; the next poll picks the change up.
type actionResultMsg struct {
	kind   actionKind
	id     int64
	target string
	result crawler.Result
	err    error
}

func submitCmd(ctx context.Context, svc crawler.Service, target string) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return actionResultMsg{kind: actionSubmit, target: target, err: errNoService}
		}
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		r, err := svc.Submit(ctx, target)
		return actionResultMsg{kind: actionSubmit, id: r.ID, target: target, result: r, err: err}
	}
}

func requeueCmd(ctx context.Context, svc crawler.Service, id int64) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return actionResultMsg{kind: actionRequeue, id: id, err: errNoService}
		}
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		r, err := svc.Requeue(ctx, id)
		return actionResultMsg{kind: actionRequeue, id: id, result: r, err: err}
	}
}

func deleteCmd(ctx context.Context, svc crawler.Service, id int64) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return actionResultMsg{kind: actionDelete, id: id, err: errNoService}
		}
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return actionResultMsg{kind: actionDelete, id: id, err: svc.Delete(ctx, id)}
	}
}

var errNoService = errors.New("not connected to a crawl service")

// handleActionResult turns a finished request into a status message.
func (m *Model) handleActionResult(msg actionResultMsg) {
	if msg.kind == actionSubmit {
		m.submitting = false
	}

	if msg.err != nil {
		m.logger.Warn(msg.kind.String()+" failed",
			zap.Int64("id", msg.id),
			zap.String("url", msg.target),
			zap.Error(msg.err),
		)
		m.setStatus(actionFailure(msg), true)
		return
	}

	m.logger.Info(msg.kind.String()+" succeeded",
		zap.Int64("id", msg.id),
		zap.String("url", msg.target),
	)
	if msg.kind == actionDelete {
		if r, ok := m.table.Selection(); ok && r.ID == msg.id {
			m.closeDetail()
		}
	}
	m.setStatus(actionSuccess(msg), false)
}

func actionPending(kind actionKind, id int64) string {
	switch kind {
	case actionRequeue:
		return fmt.Sprintf("Re-queueing #%d...", id)
	case actionDelete:
		return fmt.Sprintf("Deleting #%d...", id)
	default:
		return "Working..."
	}
}

func actionSuccess(msg actionResultMsg) string {
	switch msg.kind {
	case actionSubmit:
		return fmt.Sprintf("Queued #%d %s", msg.result.ID, grid.TruncateURL(msg.result.Url, grid.URLCellWidth))
	case actionRequeue:
		return fmt.Sprintf("Re-queued #%d", msg.id)
	case actionDelete:
		return fmt.Sprintf("Deleted #%d", msg.id)
	default:
		return "Done"
	}
}

func actionFailure(msg actionResultMsg) string {
	switch {
	case errors.Is(msg.err, crawler.ErrInvalidURL):
		return "Not a valid http(s) URL: " + msg.target
	case errors.Is(msg.err, crawler.ErrNotFound):
		return fmt.Sprintf("#%d no longer exists", msg.id)
	case msg.kind == actionSubmit:
		return "Submit failed: " + msg.err.Error()
	case msg.kind == actionRequeue:
		return fmt.Sprintf("Re-queue #%d failed: %v", msg.id, msg.err)
	default:
		return fmt.Sprintf("Delete #%d failed: %v", msg.id, msg.err)
	}
}

func deletePrompt(r crawler.Result) string {
	return fmt.Sprintf("Press D again to delete #%d %s", r.ID, grid.TruncateURL(r.Url, 40))
}
