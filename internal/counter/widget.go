package counter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/raysh454/visitor-counter/internal/logging"
	"github.com/raysh454/visitor-counter/internal/webclient"
)

// Target is where the count is displayed.
type Target interface {
	// SetDisplayText replaces the visible text of the element. It returns
	// ErrTargetNotFound when the element does not exist.
	SetDisplayText(ctx context.Context, text string) error
}

// Widget fetches the visitor count and renders it into a Target.
type Widget struct {
	cfg    Config
	client webclient.WebClient
	logger logging.Logger
}

func NewWidget(cfg Config, client webclient.WebClient, logger logging.Logger) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid counter config: %w", err)
	}
	if client == nil {
		return nil, errors.New("webclient is required")
	}
	return &Widget{
		cfg:    cfg,
		client: client,
		logger: logger.With(logging.Field{Key: "component", Value: "counter"}),
	}, nil
}

// Config returns the widget configuration.
func (w *Widget) Config() Config { return w.cfg }

// Fetch issues one GET to the endpoint and decodes the count. Non-2xx
// responses fail before the body is decoded.
func (w *Widget) Fetch(ctx context.Context) (*CountResponse, error) {
	resp, err := w.client.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: w.cfg.EndpointURL})
	if err != nil {
		return nil, &Failure{Stage: StageFetch, Err: err}
	}
	if !resp.OK() {
		return nil, &Failure{Stage: StageStatus, Err: &StatusError{StatusCode: resp.StatusCode}}
	}
	cr, err := DecodeCountResponse(resp.Body)
	if err != nil {
		return nil, &Failure{Stage: StageDecode, Err: err}
	}
	return cr, nil
}

// Run performs one fetch-and-render pass. It does not retry and it does not
// report failures beyond the returned Outcome.
func (w *Widget) Run(ctx context.Context, target Target) Outcome {
	w.logger.Debug("state transition",
		logging.Field{Key: "from", Value: StateIdle.String()},
		logging.Field{Key: "to", Value: StateFetching.String()})

	out := w.run(ctx, target)

	w.logger.Debug("state transition",
		logging.Field{Key: "from", Value: StateFetching.String()},
		logging.Field{Key: "to", Value: out.State.String()},
		logging.Field{Key: "applied", Value: out.Applied})
	return out
}

func (w *Widget) run(ctx context.Context, target Target) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failed(StageRender, fmt.Errorf("panic: %v", r))
		}
	}()

	cr, err := w.Fetch(ctx)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return Outcome{State: StateFailed, Err: f}
		}
		return failed(StageFetch, err)
	}

	text := cr.DisplayText()
	if target == nil {
		return Outcome{State: StateRendered, Text: text}
	}
	switch err := target.SetDisplayText(ctx, text); {
	case errors.Is(err, ErrTargetNotFound):
		return Outcome{State: StateRendered, Text: text}
	case err != nil:
		return failed(StageRender, err)
	}
	return Outcome{State: StateRendered, Text: text, Applied: true}
}
