// Pixelator - colour palette extraction and mapping
//
// Pixelator extracts representative colour palettes from images, keeps them
// in a local palette store, and recolours images with them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/pixelator/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
