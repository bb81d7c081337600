//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// DtoMap renders v as its JSON object so tests can send malformed variants.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets key, or deletes it when value is nil.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// Nested applies Field inside the object stored under parent.
func Nested(parent, key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		child, ok := m[parent].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[parent] = child
		}
		Field(key, value)(child)
	}
}
