package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set(KeyLLMProvider, "ollama"))
	require.NoError(t, store.Set(KeyLLMRatePerMinute, 30))
	require.NoError(t, store.Set("features.experimental", true))
	require.NoError(t, store.Set("models.allowed", []string{"llama3.2", "mistral"}))

	assert.Equal(t, "ollama", store.GetString(KeyLLMProvider))
	assert.Equal(t, 30, store.GetInt(KeyLLMRatePerMinute))
	assert.True(t, store.GetBool("features.experimental"))
	assert.Equal(t, []string{"llama3.2", "mistral"}, store.GetStringSlice("models.allowed"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing.key"))
	assert.Zero(t, store.GetInt("missing.key"))
	assert.False(t, store.GetBool("missing.key"))
	assert.Nil(t, store.GetStringSlice("missing.key"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyLLMProvider, "openai"))
	require.NoError(t, store.Set(KeyLLMRatePerMinute, 60))
	require.NoError(t, store.Set(KeyVectorBackend, "qdrant"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "openai", reopened.GetString(KeyLLMProvider))
	assert.Equal(t, 60, reopened.GetInt(KeyLLMRatePerMinute), "TOML int64 round-trips to int")
	assert.Equal(t, "qdrant", reopened.GetString(KeyVectorBackend))
}

func TestConfigStore_WritesTOMLSections(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyLLMProvider, "anthropic"))
	require.NoError(t, store.Set(KeyLLMModel, "claude-sonnet-4-5"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]", "dotted keys become TOML sections")
	assert.Contains(t, string(data), `provider = 'anthropic'`)
	assert.NotContains(t, string(data), `"llm.provider"`)
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_TypeMismatchIsZeroValue(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set(KeyLLMProvider, "ollama"))

	assert.Zero(t, store.GetInt(KeyLLMProvider))
	assert.False(t, store.GetBool(KeyLLMProvider))
	assert.Nil(t, store.GetStringSlice(KeyLLMProvider))
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	nested := map[string]any{
		"llm": map[string]any{
			"provider": "ollama",
			"model":    "llama3.2",
		},
		"top": "level",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, "ollama", flat["llm.provider"])
	assert.Equal(t, "llama3.2", flat["llm.model"])
	assert.Equal(t, "level", flat["top"])

	assert.Equal(t, nested, unflattenMap(flat))
}
