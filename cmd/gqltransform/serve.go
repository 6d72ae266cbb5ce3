package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	config "github.com/hanpama/gqltransform/internal/config"
	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	otel "github.com/hanpama/gqltransform/internal/otel"
	server "github.com/hanpama/gqltransform/internal/server"
	watch "github.com/hanpama/gqltransform/internal/watch"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve the transformed schema over HTTP, backed by an in-memory store",
		ArgsUsage: "[schema files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides server.addr)"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "rebuild the schema when a schema file changes"},
			&cli.StringFlag{Name: "otel-endpoint", Usage: "OTLP gRPC collector endpoint (overrides otel.endpoint)"},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if endpoint := c.String("otel-endpoint"); endpoint != "" {
		cfg.Otel.Endpoint = endpoint
	}

	bus := eventbus.New()
	eventbus.Use(bus)
	defer eventbus.Use(nil)
	defer logEvents(bus, log.Logger)()

	shutdown, err := otel.Setup(ctx, bus, cfg.Otel.Endpoint, cfg.Otel.Service)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	handler, live, p, err := newHandler(ctx, cfg, log.Logger)
	if err != nil {
		return err
	}

	if c.Bool("watch") {
		files, err := cfg.SchemaFiles()
		if err != nil {
			return err
		}
		w, err := watch.New(files, func(ctx context.Context, paths []string) {
			log.Info().Strs("paths", paths).Msg("rebuilding schema")
			if err := live.reload(ctx, p); err != nil {
				log.Error().Err(err).Msg("rebuild failed, keeping previous schema")
			}
		}, watch.WithLogger(log.Logger))
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := ignoreCanceled(w.Run(ctx)); err != nil {
				log.Error().Err(err).Msg("watcher stopped")
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", handler)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info().Str("addr", cfg.Server.Addr).Msg("GraphQL server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler builds the project and the HTTP handler serving it.
func newHandler(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *liveSchema, *project, error) {
	p, err := newProject(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	live := &liveSchema{}
	if err := live.reload(ctx, p); err != nil {
		return nil, nil, nil, err
	}

	opts := []server.Option{
		server.WithGraphiQL(cfg.Server.GraphiQLEnabled()),
	}
	if cfg.Server.Timeout > 0 {
		opts = append(opts, server.WithTimeout(cfg.Server.Timeout))
	}
	if cfg.Server.Pretty {
		opts = append(opts, server.WithPretty())
	}
	if cfg.Server.MaxBodyBytes > 0 {
		opts = append(opts, server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes))
	}
	if len(cfg.Server.CORS) > 0 {
		opts = append(opts, server.WithCORS(cfg.Server.CORS...))
	}
	return server.New(live, opts...), live, p, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
