// Package counter fetches a visitor count from a remote counting endpoint and
// writes it into a rendering target.
//
// The package never decides how failures are reported. Widget.Run returns an
// Outcome; the caller (see internal/app) chooses to log and swallow.
package counter
