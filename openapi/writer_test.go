package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gaborage/slimgen/internal/testutil"
	"github.com/gaborage/slimgen/reflector"
)

func TestWrite(t *testing.T) {
	root := testutil.WriteProject(t, testutil.UsersProject())
	b := NewBuilder(usersCatalog(), reflector.New(root), Options{Info: DefaultInfo("shop-api", "1.0.0")})
	doc, err := b.Build(context.Background(), testutil.UsersRoutes)
	require.NoError(t, err)

	t.Run("json only", func(t *testing.T) {
		out := t.TempDir()
		written, err := Write(doc, out, false)
		require.NoError(t, err)
		assert.Equal(t, []string{JSONPath(out)}, written)
		assert.NoFileExists(t, filepath.Join(out, OutputDir, YAMLFile))

		data, err := os.ReadFile(JSONPath(out))
		require.NoError(t, err)
		var parsed map[string]any
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Equal(t, Version, parsed["openapi"])
	})

	t.Run("with yaml", func(t *testing.T) {
		out := t.TempDir()
		written, err := Write(doc, out, true)
		require.NoError(t, err)
		require.Len(t, written, 2)

		data, err := os.ReadFile(filepath.Join(out, OutputDir, YAMLFile))
		require.NoError(t, err)
		assert.Contains(t, string(data), "openapi: 3.1.1\n")
		assert.NotContains(t, string(data), "{\"")

		var parsed map[string]any
		require.NoError(t, yaml.Unmarshal(data, &parsed))
		assert.Equal(t, "3.1.1", parsed["openapi"])
		assert.Contains(t, parsed["paths"], "/users/{id}")
	})

	t.Run("replaces previous document", func(t *testing.T) {
		out := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(out, OutputDir), 0o755))
		require.NoError(t, os.WriteFile(JSONPath(out), []byte("stale"), 0o644))

		_, err := Write(doc, out, false)
		require.NoError(t, err)
		data, err := os.ReadFile(JSONPath(out))
		require.NoError(t, err)
		assert.NotEqual(t, "stale", string(data))
	})
}

func TestMarshalYAMLKeepsKeyOrder(t *testing.T) {
	data, err := MarshalYAML(NewDocument(DefaultInfo("a", "1"), ""))
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &node))
	root := node.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}

	jsonData, err := json.Marshal(NewDocument(DefaultInfo("a", "1"), ""))
	require.NoError(t, err)
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	_, _ = dec.Token()
	tok, err := dec.Token()
	require.NoError(t, err)
	assert.Equal(t, tok.(string), keys[0])
}
