package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/visitor-counter/internal/cli"
	"github.com/raysh454/visitor-counter/internal/testutil"
)

const page = "<!DOCTYPE html>\n<html><head></head><body>\n<span id=\"visitor-count\"></span>\n</body></html>"

func setup(t *testing.T, client *testutil.DummyWebClient, extra ...string) (*cli.Runner, *cli.CLIArgs, *bytes.Buffer, *testutil.DummyLogger) {
	t.Helper()
	in := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(in, []byte(page), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	args, err := cli.ParseArgs(append([]string{"render", "-in", in, "-endpoint", "https://counter.example.test/count"}, extra...))
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	cfg, err := cli.Configure(args)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var out bytes.Buffer
	logger := &testutil.DummyLogger{}
	return &cli.Runner{Config: cfg, Client: client, Logger: logger, Stdout: &out}, args, &out, logger
}

func TestRunner_RenderToStdout(t *testing.T) {
	r, args, out, logger := setup(t, &testutil.DummyWebClient{Body: `{"count": 42}`})

	if err := r.Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), `<span id="visitor-count">42</span>`) {
		t.Errorf("count not rendered: %s", out.String())
	}
	if logger.ErrorCount() != 0 {
		t.Errorf("expected no errors, got %v", logger.Errors)
	}
}

func TestRunner_RenderDryRunPrintsDiff(t *testing.T) {
	r, args, out, _ := setup(t, &testutil.DummyWebClient{Body: `{"count": "1,024"}`}, "-dry-run")

	if err := r.Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{`+<span id="visitor-count">1,024</span>`, `-<span id="visitor-count"></span>`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("diff missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunner_RenderToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.html")
	r, args, out, _ := setup(t, &testutil.DummyWebClient{Body: `{"count": 7}`}, "-out", dest)

	if err := r.Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	written, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(written), `<span id="visitor-count">7</span>`) {
		t.Errorf("count not rendered: %s", written)
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
}

func TestRunner_RenderFailureIsSwallowed(t *testing.T) {
	r, args, out, logger := setup(t, &testutil.DummyWebClient{Err: testutil.ErrConnRefused}, "-dry-run")

	if err := r.Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if strings.TrimSpace(out.String()) != "" {
		t.Errorf("page must be unchanged, got diff %q", out.String())
	}
	if logger.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", logger.ErrorCount())
	}
}

func TestConfigure_RejectsMissingEndpoint(t *testing.T) {
	args, err := cli.ParseArgs([]string{"render"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}

	if _, err := cli.Configure(args); err == nil {
		t.Error("expected error without an endpoint")
	}
}
