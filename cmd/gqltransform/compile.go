package main

import (
	"context"
	"fmt"
	"os"

	watch "github.com/hanpama/gqltransform/internal/watch"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Print the transformed schema",
		ArgsUsage: "[schema files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the schema to `FILE` instead of stdout"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "recompile when a schema file changes"},
		},
		Action: runCompile,
	}
}

func runCompile(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	p, err := newProject(cfg, log.Logger)
	if err != nil {
		return err
	}

	emit := func(ctx context.Context) error {
		out, err := p.compile(ctx)
		if err != nil {
			return err
		}
		if path := c.String("out"); path != "" {
			if err := os.WriteFile(path, []byte(out.TypeDefs), 0o644); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			log.Info().Str("path", path).Msg("schema written")
			return nil
		}
		_, err = fmt.Fprint(c.Root().Writer, out.TypeDefs)
		return err
	}

	if !c.Bool("watch") {
		return emit(ctx)
	}
	if err := emit(ctx); err != nil {
		log.Error().Err(err).Msg("compile failed")
	}
	files, err := cfg.SchemaFiles()
	if err != nil {
		return err
	}
	w, err := watch.New(files, func(ctx context.Context, paths []string) {
		log.Info().Strs("paths", paths).Msg("recompiling")
		if err := emit(ctx); err != nil {
			log.Error().Err(err).Msg("compile failed")
		}
	}, watch.WithLogger(log.Logger))
	if err != nil {
		return err
	}
	defer w.Close()
	log.Info().Int("files", len(files)).Msg("watching schema files")
	return ignoreCanceled(w.Run(ctx))
}
