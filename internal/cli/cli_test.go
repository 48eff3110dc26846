package cli_test

import (
	"testing"

	"github.com/raysh454/visitor-counter/internal/cli"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		args    []string
		wantErr bool
		check   func(t *testing.T, a *cli.CLIArgs)
	}{
		"no command": {args: nil, wantErr: true},
		"unknown command": {args: []string{"deploy"}, wantErr: true},
		"browse without page": {args: []string{"browse"}, wantErr: true},
		"stray positional": {args: []string{"render", "page.html"}, wantErr: true},
		"unknown flag": {args: []string{"render", "-retries", "3"}, wantErr: true},
		"render flags": {
			args: []string{"render", "-config", "vc.yaml", "-in", "index.html", "-out", "dist/index.html", "-dry-run"},
			check: func(t *testing.T, a *cli.CLIArgs) {
				if a.Command != cli.CommandRender || a.ConfigPath != "vc.yaml" || a.In != "index.html" || a.Out != "dist/index.html" || !a.DryRun {
					t.Errorf("unexpected args %+v", a)
				}
			},
		},
		"serve is case insensitive": {
			args: []string{"SERVE", "-addr", ":9090", "-endpoint", "https://api.example/count"},
			check: func(t *testing.T, a *cli.CLIArgs) {
				if a.Command != cli.CommandServe || a.Addr != ":9090" || a.Endpoint != "https://api.example/count" {
					t.Errorf("unexpected args %+v", a)
				}
			},
		},
		"browse": {
			args: []string{"browse", "-page", "https://resume.example/", "-headed", "-backend", "chromedp"},
			check: func(t *testing.T, a *cli.CLIArgs) {
				if a.PageURL != "https://resume.example/" || !a.Headed || a.Backend != "chromedp" {
					t.Errorf("unexpected args %+v", a)
				}
			},
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			a, err := cli.ParseArgs(tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr is %v but error is %v", tc.wantErr, err)
			}
			if tc.check != nil {
				tc.check(t, a)
			}
		})
	}
}
