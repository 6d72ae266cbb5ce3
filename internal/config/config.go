// Package config loads the gqltransform.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the project file name looked up when none is given.
const DefaultFile = "gqltransform.yaml"

// Config describes a project: where its SDL lives, how it is transformed and
// how the development server runs.
type Config struct {
	// Schema lists SDL files or glob patterns, relative to the project file.
	Schema    []string          `yaml:"schema" validate:"required,min=1,dive,required"`
	Transform Transform         `yaml:"transform"`
	Server    Server            `yaml:"server"`
	Otel      Otel              `yaml:"otel"`
	Seed      map[string][]Item `yaml:"seed" validate:"dive,keys,required,endkeys"`

	// Dir is the directory holding the project file. Schema paths are
	// resolved against it.
	Dir string `yaml:"-"`
}

// Item is one seed record for the in-memory store.
type Item = map[string]any

type Transform struct {
	// Sync adds _version fields and versioned writes.
	Sync bool `yaml:"sync"`
	// Conditions defaults to true.
	Conditions *bool    `yaml:"conditions"`
	Preserve   []string `yaml:"preserve" validate:"dive,required"`
}

type Server struct {
	Addr          string        `yaml:"addr" validate:"required"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
	Pretty        bool          `yaml:"pretty"`
	MaxBodyBytes  int64         `yaml:"maxBodyBytes" validate:"gte=0"`
	Introspection *bool         `yaml:"introspection"`
	GraphiQL      *bool         `yaml:"graphiql"`
	CORS          []string      `yaml:"cors" validate:"dive,required"`
}

type Otel struct {
	Endpoint string `yaml:"endpoint" validate:"omitempty,hostname_port"`
	Service  string `yaml:"service" validate:"required_with=Endpoint"`
}

// Default returns the configuration used for fields the project file leaves
// out.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080", Timeout: 10 * time.Second},
		Otel:   Otel{Service: "gqltransform"},
	}
}

// ConditionsEnabled reports whether mutations get condition arguments.
func (t Transform) ConditionsEnabled() bool { return t.Conditions == nil || *t.Conditions }

func (s Server) IntrospectionEnabled() bool { return s.Introspection == nil || *s.Introspection }

func (s Server) GraphiQLEnabled() bool { return s.GraphiQL == nil || *s.GraphiQL }

// Load reads, decodes and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes a project file over Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidationError lists every field that failed validation, by YAML path.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Fields, "; ")
}

// Validate checks the struct constraints of c.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range errs {
		path := strings.TrimPrefix(fe.Namespace(), "Config.")
		msg := path + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, msg)
	}
	return out
}

// SchemaFiles expands the schema patterns into a sorted, de-duplicated list
// of files. A pattern matching nothing is an error.
func (c *Config) SchemaFiles() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.Schema {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.Dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("schema pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("schema pattern %q matches no files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// ReadSchema returns the contents of every schema file, in SchemaFiles order.
func (c *Config) ReadSchema() ([]string, error) {
	files, err := c.SchemaFiles()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		out = append(out, string(data))
	}
	return out, nil
}
