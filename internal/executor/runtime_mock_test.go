package executor

import (
	"context"
	"fmt"
	"sync"
)

// mockResolver resolves a single field in tests.
type mockResolver func(ctx context.Context, source any, args map[string]any) (any, error)

func valueResolver(val any) mockResolver {
	return func(context.Context, any, map[string]any) (any, error) { return val, nil }
}

func errorResolver(err error) mockResolver {
	return func(context.Context, any, map[string]any) (any, error) { return nil, err }
}

// call is one recorded ResolveField invocation.
type call struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// mockRuntime resolves "ObjectType.Field" keys from a map and records every
// call. Unregistered fields resolve to nil.
type mockRuntime struct {
	mu           sync.Mutex
	resolvers    map[string]mockResolver
	calls        []call
	typeResolver func(value any) (string, error)
	serializer   func(typeName string, val any) (any, error)
}

func newMockRuntime(resolvers map[string]mockResolver) *mockRuntime {
	return &mockRuntime{
		resolvers: resolvers,
		typeResolver: func(value any) (string, error) {
			if m, ok := value.(map[string]any); ok {
				if typename, ok := m["__typename"].(string); ok {
					return typename, nil
				}
			}
			return "", fmt.Errorf("cannot resolve type")
		},
		serializer: func(_ string, val any) (any, error) { return val, nil },
	}
}

func (m *mockRuntime) ResolveField(ctx context.Context, req FieldRequest) (any, error) {
	m.mu.Lock()
	r := m.resolvers[req.ObjectType+"."+req.Field]
	m.calls = append(m.calls, call{ObjectType: req.ObjectType, Field: req.Field, Source: req.Source, Args: req.Args})
	m.mu.Unlock()
	if r == nil {
		return nil, nil
	}
	return r(ctx, req.Source, req.Args)
}

func (m *mockRuntime) ResolveType(_ context.Context, _ string, value any) (string, error) {
	return m.typeResolver(value)
}

func (m *mockRuntime) SerializeLeafValue(_ context.Context, typeName string, value any) (any, error) {
	return m.serializer(typeName, value)
}

func (m *mockRuntime) getCalls() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]call(nil), m.calls...)
}
