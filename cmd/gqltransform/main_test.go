package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	config "github.com/hanpama/gqltransform/internal/config"
	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blogConfig = filepath.Join("testdata", "blog", config.DefaultFile)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"gqltransform", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestCompilePrintsSchema(t *testing.T) {
	out, err := runApp(t, "compile", "-c", blogConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "listPosts(filter: ModelPostFilterInput, limit: Int, nextToken: String): ModelPostConnection")
	assert.Contains(t, out, "onCreatePost: Post")
	assert.NotContains(t, out, "@model")
}

func TestCompileSchemaArguments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.graphql")
	require.NoError(t, os.WriteFile(path, []byte(`type Todo @model { id: ID! name: String }`), 0o644))
	target := filepath.Join(dir, "out.graphql")

	_, err := runApp(t, "compile", "--out", target, path)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "createTodo(input: CreateTodoInput!, condition: ModelTodoConditionInput): Todo")
}

func TestCompileErrors(t *testing.T) {
	_, err := runApp(t, "compile", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = runApp(t, "--log-level", "loud", "compile", "-c", blogConfig)
	assert.ErrorContains(t, err, "failed to parse log level")
}

func post(t *testing.T, h http.Handler, query string) map[string]any {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Nil(t, res["errors"])
	return res["data"].(map[string]any)
}

func TestServeSeededStore(t *testing.T) {
	cfg, err := config.Load(blogConfig)
	require.NoError(t, err)
	h, _, _, err := newHandler(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	data := post(t, h, `{ listPosts(filter: {status: {eq: PUBLISHED}}) { items { id title } } }`)
	assert.Equal(t, map[string]any{"listPosts": map[string]any{
		"items": []any{map[string]any{"id": "p1", "title": "Hello"}},
	}}, data)

	post(t, h, `mutation { createPost(input: {id: "p3", title: "New", status: PUBLISHED}) { id } }`)
	data = post(t, h, `{ getPost(id: "p3") { title status } }`)
	assert.Equal(t, map[string]any{"getPost": map[string]any{"title": "New", "status": "PUBLISHED"}}, data)
}

func TestReloadKeepsDataAndPreviousSchemaOnError(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`type Note @model { id: ID! text: String }`), 0o644))
	cfg := config.Default()
	cfg.Schema = []string{"schema.graphql"}
	cfg.Dir = dir

	ctx := context.Background()
	h, live, p, err := newHandler(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	post(t, h, `mutation { createNote(input: {id: "n1", text: "hi"}) { id } }`)

	require.NoError(t, os.WriteFile(schemaPath, []byte(`type Note @model { id: ID! text: String pinned: Boolean }`), 0o644))
	require.NoError(t, live.reload(ctx, p))
	data := post(t, h, `{ getNote(id: "n1") { text pinned } }`)
	assert.Equal(t, map[string]any{"getNote": map[string]any{"text": "hi", "pinned": nil}}, data)

	require.NoError(t, os.WriteFile(schemaPath, []byte(`type Note @model {`), 0o644))
	err = live.reload(ctx, p)
	require.Error(t, err)
	data = post(t, h, `{ getNote(id: "n1") { pinned } }`)
	assert.Equal(t, map[string]any{"getNote": map[string]any{"pinned": nil}}, data)
}

func newTestBus(t *testing.T) *eventbus.Bus {
	t.Helper()
	bus := eventbus.New()
	eventbus.Use(bus)
	t.Cleanup(func() { eventbus.Use(nil) })
	return bus
}

func TestLogEvents(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := config.Load(blogConfig)
	require.NoError(t, err)
	h, _, _, err := newHandler(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	bus := newTestBus(t)
	off := logEvents(bus, zerolog.New(&buf))
	defer off()

	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ nope }"), nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"message":"graphql operation failed"`)
	assert.Contains(t, lines[1], `"status":200`)
}
