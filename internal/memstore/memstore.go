// Package memstore is an in-memory data source for @model types. Each model
// is a table of items keyed by id, kept in insertion order. The resolvers it
// hands out understand the arguments the model transformer generates: filter
// and condition inputs, limit and nextToken pagination and, when versioning
// is on, the _version field of sync-enabled schemas.
package memstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	model "github.com/hanpama/gqltransform/internal/model"
	synth "github.com/hanpama/gqltransform/internal/synth"
	transform "github.com/hanpama/gqltransform/internal/transform"
	"github.com/rs/zerolog"
)

// DefaultLimit is the page size of list queries without a limit argument.
const DefaultLimit = 100

// Item is one stored record.
type Item = map[string]any

// ErrNotFound is returned by updates and deletes of missing items.
var ErrNotFound = errors.New("item not found")

// ConditionalCheckFailedError reports a write rejected by its condition, a
// duplicate id or a stale _version.
type ConditionalCheckFailedError struct {
	Model  string
	ID     string
	Reason string
}

func (e *ConditionalCheckFailedError) Error() string {
	return fmt.Sprintf("conditional request failed for %s %q: %s", e.Model, e.ID, e.Reason)
}

type table struct {
	order []string
	items map[string]Item
}

// Store holds the tables of every model.
type Store struct {
	mu       sync.RWMutex
	tables   map[string]*table
	logger   zerolog.Logger
	newID    func() string
	versions bool
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDGenerator replaces uuid.NewString as the source of generated ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithVersions maintains _version on every item and rejects writes carrying
// a stale one.
func WithVersions() Option {
	return func(s *Store) { s.versions = true }
}

func New(opts ...Option) *Store {
	s := &Store{
		tables: make(map[string]*table),
		logger: zerolog.Nop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// peek returns the table without creating it. Callers hold at least the read
// lock.
func (s *Store) peek(name string) *table {
	if t := s.tables[name]; t != nil {
		return t
	}
	return &table{}
}

func (s *Store) table(name string) *table {
	t := s.tables[name]
	if t == nil {
		t = &table{items: make(map[string]Item)}
		s.tables[name] = t
	}
	return t
}

// Seed inserts items into the model's table. Items without an id get a
// generated one.
func (s *Store) Seed(modelName string, items ...Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if _, err := s.insert(modelName, cloneItem(item)); err != nil {
			return err
		}
	}
	return nil
}

// Services returns a full CRUD service for each named model.
func (s *Store) Services(models ...string) model.Services {
	out := make(model.Services, len(models))
	for _, name := range models {
		out[name] = s.Service(name)
	}
	return out
}

// Service returns the resolvers serving one model.
func (s *Store) Service(modelName string) model.Service {
	return model.Service{
		Get:    func(_ context.Context, p transform.ResolveParams) (any, error) { return s.get(modelName, p.Args) },
		List:   func(_ context.Context, p transform.ResolveParams) (any, error) { return s.list(modelName, p.Args) },
		Create: func(_ context.Context, p transform.ResolveParams) (any, error) { return s.create(modelName, p.Args) },
		Update: func(_ context.Context, p transform.ResolveParams) (any, error) { return s.update(modelName, p.Args) },
		Delete: func(_ context.Context, p transform.ResolveParams) (any, error) { return s.delete(modelName, p.Args) },
	}
}

func (s *Store) get(modelName string, args map[string]any) (any, error) {
	id, _ := args["id"].(string)
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.peek(modelName).items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (s *Store) list(modelName string, args map[string]any) (any, error) {
	filter, _ := args["filter"].(map[string]any)
	limit := DefaultLimit
	if l, ok := args["limit"].(int); ok && l > 0 {
		limit = l
	}
	offset := 0
	if tok, ok := args["nextToken"].(string); ok && tok != "" {
		n, err := decodeToken(tok)
		if err != nil {
			return nil, err
		}
		offset = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.peek(modelName)
	var matched []any
	var next any
	skipped := 0
	for _, id := range t.order {
		item := t.items[id]
		ok, err := matches(item, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(matched) == limit {
			next = encodeToken(offset + limit)
			break
		}
		matched = append(matched, cloneItem(item))
	}
	if matched == nil {
		matched = []any{}
	}
	s.logger.Debug().Str("model", modelName).Int("items", len(matched)).Msg("list")
	return Item{"items": matched, "nextToken": next}, nil
}

func (s *Store) create(modelName string, args map[string]any) (any, error) {
	input, _ := args["input"].(map[string]any)
	condition, _ := args["condition"].(map[string]any)
	item := cloneItem(input)
	if item == nil {
		item = Item{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if condition != nil {
		ok, err := matches(Item{}, condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ConditionalCheckFailedError{Model: modelName, ID: fmt.Sprint(item["id"]), Reason: "condition not met"}
		}
	}
	created, err := s.insert(modelName, item)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("model", modelName).Str("id", created["id"].(string)).Msg("create")
	return cloneItem(created), nil
}

// insert stores item, generating its id when missing. Callers hold the lock.
func (s *Store) insert(modelName string, item Item) (Item, error) {
	id, _ := item["id"].(string)
	if id == "" {
		id = s.newID()
		item["id"] = id
	}
	t := s.table(modelName)
	if _, exists := t.items[id]; exists {
		return nil, &ConditionalCheckFailedError{Model: modelName, ID: id, Reason: "item already exists"}
	}
	if s.versions {
		item[synth.VersionField] = 1
	}
	t.items[id] = item
	t.order = append(t.order, id)
	return item, nil
}

func (s *Store) update(modelName string, args map[string]any) (any, error) {
	input, _ := args["input"].(map[string]any)
	condition, _ := args["condition"].(map[string]any)
	id, _ := input["id"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.checkWrite(modelName, id, input, condition)
	if err != nil {
		return nil, err
	}
	updated := cloneItem(current)
	for k, v := range input {
		if k == synth.VersionField {
			continue
		}
		if v == nil {
			delete(updated, k)
			continue
		}
		updated[k] = cloneValue(v)
	}
	if s.versions {
		updated[synth.VersionField] = version(current) + 1
	}
	s.table(modelName).items[id] = updated
	s.logger.Debug().Str("model", modelName).Str("id", id).Msg("update")
	return cloneItem(updated), nil
}

func (s *Store) delete(modelName string, args map[string]any) (any, error) {
	input, _ := args["input"].(map[string]any)
	condition, _ := args["condition"].(map[string]any)
	id, _ := input["id"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.checkWrite(modelName, id, input, condition)
	if err != nil {
		return nil, err
	}
	t := s.table(modelName)
	delete(t.items, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	s.logger.Debug().Str("model", modelName).Str("id", id).Msg("delete")
	return current, nil
}

// checkWrite loads the item a write targets and applies its condition and
// version check. Callers hold the lock.
func (s *Store) checkWrite(modelName, id string, input, condition map[string]any) (Item, error) {
	current, ok := s.table(modelName).items[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", modelName, id, ErrNotFound)
	}
	if condition != nil {
		ok, err := matches(current, condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ConditionalCheckFailedError{Model: modelName, ID: id, Reason: "condition not met"}
		}
	}
	if s.versions {
		if v, ok := input[synth.VersionField]; ok && v != nil {
			if n, _ := toFloat(v); int(n) != version(current) {
				return nil, &ConditionalCheckFailedError{Model: modelName, ID: id, Reason: "version mismatch"}
			}
		}
	}
	return current, nil
}

func version(item Item) int {
	n, _ := toFloat(item[synth.VersionField])
	return int(n)
}

const tokenPrefix = "offset:"

func encodeToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + strconv.Itoa(offset)))
}

func decodeToken(tok string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err == nil && strings.HasPrefix(string(raw), tokenPrefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(string(raw), tokenPrefix)); err == nil && n >= 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("invalid nextToken %q", tok)
}

// cloneItem copies item together with the maps and lists nested in it, so
// stored items never share state with their callers.
func cloneItem(item Item) Item {
	if item == nil {
		return nil
	}
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneItem(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return v
	}
}
