package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config holds the options used to construct a WebClient backend.
type Config struct {
	Client Client `yaml:"client"`

	// Timeout bounds a whole request. Zero means no client-side timeout; the
	// request then lives as long as the caller's context.
	Timeout time.Duration `yaml:"timeout"`

	// Headless controls whether the chromedp backend hides the browser window.
	Headless bool `yaml:"headless"`
}

// DefaultConfig returns the nethttp backend with no timeout.
func DefaultConfig() Config {
	return Config{
		Client:   ClientNetHTTP,
		Headless: true,
	}
}
