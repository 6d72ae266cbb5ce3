package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	config "github.com/hanpama/gqltransform/internal/config"
	executable "github.com/hanpama/gqltransform/internal/executable"
	executor "github.com/hanpama/gqltransform/internal/executor"
	language "github.com/hanpama/gqltransform/internal/language"
	memstore "github.com/hanpama/gqltransform/internal/memstore"
	model "github.com/hanpama/gqltransform/internal/model"
	testdirective "github.com/hanpama/gqltransform/internal/testdirective"
	transform "github.com/hanpama/gqltransform/internal/transform"
	"github.com/rs/zerolog"
)

// project compiles the schema of one configuration. Every model it finds is
// served by the same in-memory store, so data survives recompilation.
type project struct {
	cfg    *config.Config
	store  *memstore.Store
	logger zerolog.Logger
}

func newProject(cfg *config.Config, logger zerolog.Logger) (*project, error) {
	opts := []memstore.Option{memstore.WithLogger(logger.With().Str("component", "memstore").Logger())}
	if cfg.Transform.Sync {
		opts = append(opts, memstore.WithVersions())
	}
	store := memstore.New(opts...)
	for modelName, items := range cfg.Seed {
		if err := store.Seed(modelName, items...); err != nil {
			return nil, fmt.Errorf("seed %s: %w", modelName, err)
		}
	}
	return &project{cfg: cfg, store: store, logger: logger}, nil
}

// compile reads the schema files and runs them through the transformers.
func (p *project) compile(ctx context.Context) (*transform.Output, error) {
	files, err := p.cfg.SchemaFiles()
	if err != nil {
		return nil, err
	}
	sources, err := p.cfg.ReadSchema()
	if err != nil {
		return nil, err
	}

	named := make([]*language.Source, len(sources))
	for i, src := range sources {
		named[i] = &language.Source{Name: filepath.Base(files[i]), Input: src}
	}
	doc, err := language.ParseSchemas(named...)
	if err != nil {
		return nil, err
	}
	models, err := model.Declared(doc)
	if err != nil {
		return nil, err
	}

	var modelOpts []model.Option
	if p.cfg.Transform.Sync {
		modelOpts = append(modelOpts, model.WithSync())
	}
	if !p.cfg.Transform.ConditionsEnabled() {
		modelOpts = append(modelOpts, model.WithoutConditions())
	}
	tr, err := transform.New([]transform.Transformer{
		model.New(p.store.Services(models...), modelOpts...),
		testdirective.NewConfig(),
		testdirective.New(),
	},
		transform.WithLogger(p.logger.With().Str("component", "transform").Logger()),
		transform.WithPreservedDirectives(p.cfg.Transform.Preserve...),
	)
	if err != nil {
		return nil, err
	}
	return tr.Run(ctx, transform.Input{TypeDefs: sources})
}

// build compiles the project into an executable schema.
func (p *project) build(ctx context.Context) (*executable.Schema, error) {
	out, err := p.compile(ctx)
	if err != nil {
		return nil, err
	}
	return executable.New(out,
		executable.WithLogger(p.logger.With().Str("component", "executor").Logger()),
		executable.WithIntrospection(p.cfg.Server.IntrospectionEnabled()),
	)
}

// liveSchema serves requests with the most recently built schema.
type liveSchema struct {
	current atomic.Pointer[executable.Schema]
}

func (l *liveSchema) Execute(ctx context.Context, query, operationName string, variables map[string]any) *executor.ExecutionResult {
	return l.current.Load().Execute(ctx, query, operationName, variables)
}

// reload rebuilds the schema. On failure the previous schema keeps serving.
func (l *liveSchema) reload(ctx context.Context, p *project) error {
	sch, err := p.build(ctx)
	if err != nil {
		return err
	}
	l.current.Store(sch)
	return nil
}
