package server

import (
	"github.com/raysh454/visitor-counter/internal/counter"
	"github.com/raysh454/visitor-counter/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// PagePath is the HTML file served at "/". It is re-read on every request.
	PagePath string

	// Widget renders the count into each served page.
	Widget *counter.Widget

	// Logger defaults to a StdoutLogger when nil.
	Logger logging.Logger
}
