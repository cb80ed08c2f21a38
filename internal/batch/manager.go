package batch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/logging"
)

// Outcome is what processing one container produced.
type Outcome struct {
	Outputs []string
	Tracks  int
}

// Processor extracts subtitles from a single container file. The extraction
// pipeline satisfies this.
type Processor interface {
	Process(ctx context.Context, sourcePath string) (Outcome, error)
}

// Manager drains pending batch items in insertion order. One item failing
// never aborts the run; cancellation marks the in-flight item cancelled and
// stops before the next one.
type Manager struct {
	store     *Store
	processor Processor
	logger    *slog.Logger
	onItem    func(*Item)
}

// ManagerOption configures the manager.
type ManagerOption func(*Manager)

// WithLogger attaches a logger; the manager is silent without one.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithItemCallback registers a callback invoked after each item reaches a
// terminal state. Callers use it to render per-file results as they land.
func WithItemCallback(fn func(*Item)) ManagerOption {
	return func(m *Manager) { m.onItem = fn }
}

// NewManager returns a manager over the given store and processor.
func NewManager(store *Store, processor Processor, opts ...ManagerOption) *Manager {
	m := &Manager{store: store, processor: processor, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run processes every pending item and returns the aggregate summary. Items
// left in_progress by an interrupted run are reset to pending first, so
// rerunning against the same database resumes where it stopped: terminal
// items are never reprocessed.
func (m *Manager) Run(ctx context.Context) (Summary, error) {
	if reset, err := m.store.ResetInFlight(ctx); err != nil {
		return Summary{}, err
	} else if reset > 0 {
		m.logger.Info("reset interrupted items",
			logging.FieldComponent, "batch",
			"count", reset)
	}

	for {
		if err := ctx.Err(); err != nil {
			summary, sumErr := m.store.Summarize(context.Background())
			if sumErr != nil {
				return summary, sumErr
			}
			return summary, err
		}

		item, err := m.store.NextPending(ctx)
		if err != nil {
			return Summary{}, err
		}
		if item == nil {
			break
		}
		if err := m.runItem(ctx, item); err != nil {
			return Summary{}, err
		}
	}
	return m.store.Summarize(ctx)
}

func (m *Manager) runItem(ctx context.Context, item *Item) error {
	started := time.Now().UTC()
	item.Status = StatusInProgress
	item.StartedAt = &started
	item.ErrorMessage = ""
	if err := m.store.Update(ctx, item); err != nil {
		return err
	}

	m.logger.Info("processing batch item",
		logging.FieldComponent, "batch",
		"item", item.ID,
		"source", item.SourcePath)

	outcome, procErr := m.processor.Process(ctx, item.SourcePath)

	finished := time.Now().UTC()
	item.FinishedAt = &finished
	switch {
	case procErr == nil:
		item.Status = StatusCompleted
		item.TracksExtracted = outcome.Tracks
		if len(outcome.Outputs) > 0 {
			if data, err := json.Marshal(outcome.Outputs); err == nil {
				item.OutputFilesJSON = string(data)
			}
		}
	case errors.Is(procErr, context.Canceled) || errors.Is(procErr, context.DeadlineExceeded):
		item.Status = StatusCancelled
		item.ErrorMessage = "cancelled"
	default:
		item.SetFailed(procErr.Error())
		m.logger.Error("batch item failed",
			logging.FieldComponent, "batch",
			"item", item.ID,
			"source", item.SourcePath,
			"error", procErr)
	}

	// Persist the terminal state even when the run context is gone.
	if err := m.store.Update(context.Background(), item); err != nil {
		return err
	}
	if m.onItem != nil {
		m.onItem(item)
	}
	return nil
}

// Outputs decodes the item's recorded output file list.
func (i *Item) Outputs() []string {
	if i.OutputFilesJSON == "" {
		return nil
	}
	var outputs []string
	if err := json.Unmarshal([]byte(i.OutputFilesJSON), &outputs); err != nil {
		return nil
	}
	return outputs
}
