package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/visitor-counter/internal/logging"
)

// ChromedpClient loads URLs in a headless Chrome tab, the way a browser page
// would reach the counting endpoint. Only GET is supported.
type ChromedpClient struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
	logger        logging.Logger
}

// NewChromedpClient starts a browser process. It fails when Chrome cannot be
// launched in the current environment.
func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run forces the browser to start so a missing Chrome is reported here.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	componentLogger.Debug("created chromedp webclient",
		logging.Field{Key: "headless", Value: cfg.Headless})

	return &ChromedpClient{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       cfg.Timeout,
		logger:        componentLogger,
	}, nil
}

// Do navigates a fresh tab to req.URL and returns the rendered body text. The
// status code and headers come from the document's Network.responseReceived event.
func (cdc *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return nil, fmt.Errorf("method %s not supported by chromedp backend", method)
	}

	tabCtx, cancel := chromedp.NewContext(cdc.browserCtx)
	defer cancel()
	if cdc.timeout > 0 {
		var timeoutCancel context.CancelFunc
		tabCtx, timeoutCancel = context.WithTimeout(tabCtx, cdc.timeout)
		defer timeoutCancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		mu      sync.Mutex
		status  int
		headers = http.Header{}
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		status = int(e.Response.Status)
		for k, v := range e.Response.Headers {
			headers.Set(k, fmt.Sprint(v))
		}
	})

	cdc.logger.Debug("navigating chromedp tab", logging.Field{Key: "url", Value: req.URL})

	var text string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(req.URL),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("chromedp navigate: %w", ctx.Err())
		}
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return &Response{
		Request:    req,
		Headers:    headers,
		Body:       []byte(text),
		StatusCode: status,
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests
func (cdc *ChromedpClient) Get(ctx context.Context, url string) (*Response, error) {
	return cdc.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (cdc *ChromedpClient) Close() error {
	cdc.browserCancel()
	cdc.allocCancel()
	return nil
}
