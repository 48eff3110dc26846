// Command visitorcount fetches the visitor count from a counting endpoint and
// writes it into the #visitor-count element of a page.
//
// Usage:
//
//	visitorcount render -in index.html -endpoint https://.../prod/visitor-count
//	visitorcount serve  -config visitor-counter.yaml
//	visitorcount browse -page https://resume.example/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/visitor-counter/internal/cli"
	"github.com/raysh454/visitor-counter/internal/logging"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, cli.Usage)
		os.Exit(2)
	}

	cfg, err := cli.Configure(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &cli.Runner{
		Config: cfg,
		Logger: logging.NewWriterLogger(os.Stderr, cfg.LogComponent, level),
		Stdout: os.Stdout,
	}
	if err := runner.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args.Command, err)
		os.Exit(1)
	}
}
