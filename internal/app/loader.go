package app

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/raysh454/visitor-counter/internal/counter"
	"github.com/raysh454/visitor-counter/internal/logging"
)

// FailurePrefix starts the one diagnostic line written when a load fails.
const FailurePrefix = "Error fetching visitor count:"

// Loader is the top-level handler for a single page load. It runs the widget
// once, logs a failure and swallows it. Create one Loader per page load.
type Loader struct {
	widget *counter.Widget
	logger logging.Logger
	runID  string

	once    sync.Once
	outcome counter.Outcome
}

func NewLoader(widget *counter.Widget, logger logging.Logger) *Loader {
	runID := uuid.New().String()
	return &Loader{
		widget: widget,
		runID:  runID,
		logger: logger.With(
			logging.Field{Key: "component", Value: "loader"},
			logging.Field{Key: "run_id", Value: runID},
		),
	}
}

// RunID identifies this page load in log lines.
func (l *Loader) RunID() string { return l.runID }

// OnReady is called on the document-ready signal. Only the first call
// fetches; later calls return the first outcome.
func (l *Loader) OnReady(ctx context.Context, target counter.Target) counter.Outcome {
	l.once.Do(func() {
		l.outcome = l.widget.Run(ctx, target)
		if l.outcome.Failed() {
			l.logger.Error(FailurePrefix, logging.Field{Key: "error", Value: l.outcome.Err.Error()})
			return
		}
		l.logger.Debug("visitor count rendered",
			logging.Field{Key: "text", Value: l.outcome.Text},
			logging.Field{Key: "applied", Value: l.outcome.Applied})
	})
	return l.outcome
}
