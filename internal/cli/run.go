package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/raysh454/visitor-counter/internal/app"
	"github.com/raysh454/visitor-counter/internal/counter"
	"github.com/raysh454/visitor-counter/internal/dom"
	"github.com/raysh454/visitor-counter/internal/logging"
	"github.com/raysh454/visitor-counter/internal/server"
	"github.com/raysh454/visitor-counter/internal/webclient"
)

// Runner executes a parsed command. Client is built from Config when nil.
type Runner struct {
	Config *app.Config
	Client webclient.WebClient
	Logger logging.Logger
	Stdout io.Writer
}

// Configure loads the config file named by args and applies flag overrides.
func Configure(args *CLIArgs) (*app.Config, error) {
	cfg, err := app.LoadConfig(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if args.Endpoint != "" {
		cfg.Counter.EndpointURL = args.Endpoint
	}
	if args.Backend != "" {
		cfg.WebClient.Client = webclient.Client(args.Backend)
	}
	if args.In != "" {
		cfg.PagePath = args.In
	}
	if args.Addr != "" {
		cfg.ListenAddr = args.Addr
	}
	if args.Headed {
		cfg.WebClient.Headless = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Run dispatches args to the matching command.
func (r *Runner) Run(ctx context.Context, args *CLIArgs) error {
	if r.Client == nil {
		client, err := webclient.NewWebClient(r.Config.WebClient, r.Logger)
		if err != nil {
			return err
		}
		r.Client = client
	}
	defer r.Client.Close()

	widget, err := counter.NewWidget(r.Config.Counter, r.Client, r.Logger)
	if err != nil {
		return err
	}

	switch args.Command {
	case CommandRender:
		return r.render(ctx, widget, args)
	case CommandServe:
		return r.serve(ctx, widget)
	case CommandBrowse:
		return r.browse(ctx, widget, args)
	default:
		return fmt.Errorf("unknown command %q", args.Command)
	}
}

func (r *Runner) render(ctx context.Context, widget *counter.Widget, args *CLIArgs) error {
	raw, err := os.ReadFile(r.Config.PagePath)
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}
	target, err := dom.NewDocumentTarget(bytes.NewReader(raw), r.Config.Counter.ElementID)
	if err != nil {
		return err
	}
	before, err := target.HTML()
	if err != nil {
		return err
	}

	app.NewLoader(widget, r.Logger).OnReady(ctx, target)

	after, err := target.HTML()
	if err != nil {
		return err
	}
	if args.DryRun {
		_, err := io.WriteString(r.Stdout, dom.Diff(before, after))
		return err
	}
	if args.Out == "" || args.Out == "-" {
		_, err := io.WriteString(r.Stdout, after)
		return err
	}
	if err := os.WriteFile(args.Out, []byte(after), 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

func (r *Runner) serve(ctx context.Context, widget *counter.Widget) error {
	s, err := server.NewServer(server.Config{
		ListenAddr: r.Config.ListenAddr,
		PagePath:   r.Config.PagePath,
		Widget:     widget,
		Logger:     r.Logger,
	})
	if err != nil {
		return err
	}
	httpServer := s.HTTPServer()

	stop := context.AfterFunc(ctx, func() { _ = httpServer.Close() })
	defer stop()

	r.Logger.Info("listening", logging.Field{Key: "addr", Value: httpServer.Addr})
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Runner) browse(ctx context.Context, widget *counter.Widget, args *CLIArgs) error {
	target, err := dom.OpenPage(ctx, args.PageURL, r.Config.Counter.ElementID, dom.BrowserOptions{Headless: r.Config.WebClient.Headless})
	if err != nil {
		return err
	}
	defer target.Close()

	app.NewLoader(widget, r.Logger).OnReady(ctx, target)

	text, found, err := target.Text(ctx)
	if err != nil {
		return err
	}
	if !found {
		_, err = fmt.Fprintf(r.Stdout, "element #%s not found\n", r.Config.Counter.ElementID)
		return err
	}
	_, err = fmt.Fprintln(r.Stdout, text)
	return err
}
