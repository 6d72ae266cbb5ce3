// Package model implements the @model directive: for every annotated object
// it generates get/list queries, create/update/delete mutations, the
// subscriptions watching them, and all supporting input and connection types.
// Generated fields are bound to the resolvers of a caller-supplied Service.
package model

import (
	"fmt"

	language "github.com/hanpama/gqltransform/internal/language"
	synth "github.com/hanpama/gqltransform/internal/synth"
	transform "github.com/hanpama/gqltransform/internal/transform"
)

const Definitions = `
directive @model(
  modelName: String
  queries: ModelQueryMap
  mutations: ModelMutationMap
  subscriptions: ModelSubscriptionMap
) on OBJECT

directive @aws_subscribe(mutations: [String]) on FIELD_DEFINITION

input ModelMutationMap {
  create: String
  update: String
  delete: String
}

input ModelQueryMap {
  get: String
  list: String
}

input ModelSubscriptionMap {
  onCreate: [String]
  onUpdate: [String]
  onDelete: [String]
  level: ModelSubscriptionLevel
}

enum ModelSubscriptionLevel {
  off
  public
  on
}
`

// Service holds the data-access resolvers of one model. A nil resolver means
// the operation is not offered and its field is not generated.
type Service struct {
	Get    transform.Resolver
	List   transform.Resolver
	Create transform.Resolver
	Update transform.Resolver
	Delete transform.Resolver
}

func (s Service) empty() bool {
	return s.Get == nil && s.List == nil && s.Create == nil && s.Update == nil && s.Delete == nil
}

// Services maps model names to their service.
type Services map[string]Service

type options struct {
	sync       bool
	conditions bool
}

type Option func(*options)

// WithSync adds the _version and startedAt fields used by sync-enabled clients.
func WithSync() Option {
	return func(o *options) { o.sync = true }
}

// WithoutConditions drops condition inputs and the condition argument of
// mutations. Scalar filters are then named Model<Scalar>FilterInput.
func WithoutConditions() Option {
	return func(o *options) { o.conditions = false }
}

// Transformer is the @model transformer.
type Transformer struct {
	transform.Base
	services Services
	opts     options
}

func New(services Services, opts ...Option) *Transformer {
	o := options{conditions: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Transformer{
		Base:     transform.NewBase("ModelTransformer", Definitions),
		services: services,
		opts:     o,
	}
}

func (t *Transformer) Hooks() transform.Hooks {
	return transform.Hooks{
		Object: t.object,
		// @aws_subscribe written by hand is left for the formatter.
		Field: func(*transform.Context, *language.Definition, *language.FieldDefinition, *language.Directive) error {
			return nil
		},
	}
}

func (t *Transformer) object(ctx *transform.Context, def *language.Definition, d *language.Directive) error {
	args, err := parseArgs(def, d)
	if err != nil {
		return err
	}

	closure := synth.NonModelClosure(def, ctx)
	for _, obj := range closure {
		ensureType(ctx, synth.NonModelInput(obj, closure, ctx))
	}

	name := args.ModelName
	if name == "" {
		name = def.Name
	}
	svc, ok := t.services[name]
	if !ok {
		return &ModelNotFoundError{Model: name, Type: def.Name}
	}
	if svc.empty() {
		return &NoResolversError{Model: name}
	}

	g := &generator{
		ctx:     ctx,
		def:     def,
		args:    args,
		svc:     svc,
		closure: closure,
		opts:    t.opts,
	}
	if err := g.queries(); err != nil {
		return err
	}
	if err := g.mutations(); err != nil {
		return err
	}
	if err := g.subscriptions(); err != nil {
		return err
	}
	g.patchConditionInput()
	return nil
}

// generator carries the state of one @model expansion.
type generator struct {
	ctx     *transform.Context
	def     *language.Definition
	args    Args
	svc     Service
	closure []*language.Definition
	opts    options
}

func (g *generator) typeName() string { return g.def.Name }

// ensureType adds def unless a type of that name already exists. Shared
// inputs are generated once per schema.
func ensureType(ctx *transform.Context, def *language.Definition) {
	if !ctx.HasType(def.Name) {
		ctx.PutType(def)
	}
}

type ModelNotFoundError struct {
	Model string
	Type  string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("@model on %s could not find a model named %q; set modelName or register the model service", e.Type, e.Model)
}

type NoResolversError struct {
	Model string
}

func (e *NoResolversError) Error() string {
	return fmt.Sprintf("model %q provides no resolvers", e.Model)
}
