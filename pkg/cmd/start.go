// Package cmd implements the command-line interface for the mcpkit demo
// server.
package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ksysoev/mcpkit/pkg/demo"
	"github.com/ksysoev/mcpkit/pkg/demoserver"
	"github.com/ksysoev/mcpkit/pkg/registry"
	"github.com/ksysoev/mcpkit/pkg/scan"
)

// runStart initializes and runs the mcpkit demo server with the provided
// configuration. It sets up the component chain in the following order:
// 1. Registry, configured per cfg.Registry's duplicate-registration policy
// 2. The sample demo.Host, scanned and registered against it
// 3. The illustrative stdio demoserver, reading in and writing out
//
// The function runs until the context is cancelled or an error occurs.
// Returns error if any component initialization fails or the server
// encounters an error.
func runStart(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	reg := registry.New(registry.Options{
		AllowOverrides:   cfg.Registry.AllowOverrides,
		WarnOnDuplicates: cfg.Registry.WarnOnDuplicates,
	})

	host := demo.NewHost()
	if err := scan.Register(reg, host, demo.Markers()...); err != nil {
		return err
	}

	srv := demoserver.New(reg, in, out, slog.Default())
	if err := srv.ValidateSchemas(); err != nil {
		return err
	}

	return srv.Run(ctx)
}
