// Package logging builds the hclog logger shared by pixelator commands.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "pixelator"

// Options controls logger construction.
type Options struct {
	Verbose bool      // log at debug level
	Quiet   bool      // only log errors; wins over Verbose
	JSON    bool      // emit JSON lines instead of text
	Output  io.Writer // defaults to os.Stderr
}

// Level returns the level selected by the options.
func (o Options) Level() hclog.Level {
	switch {
	case o.Quiet:
		return hclog.Error
	case o.Verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}

// New creates the root logger.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Output:     out,
		Level:      opts.Level(),
		JSONFormat: opts.JSON,
	})
}
