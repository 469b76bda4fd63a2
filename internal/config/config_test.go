package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/corpus"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/retrieval"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "routing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTopK, c.TopK)
	assert.Equal(t, []string{"IPC", "CrPC"}, c.Domains["criminal"])
	require.Len(t, c.Boosts, 1)
	assert.Equal(t, "theft", c.Boosts[0].Trigger)
	assert.NoError(t, c.Validate())
}

func TestLoad_RepoConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "routing.yaml"))
	require.NoError(t, err)
	assert.NoError(t, c.Validate())
	assert.Equal(t, []string{"civil", "constitutional", "criminal"}, c.Labels())
}

func TestParse_OverridesAndDefaults(t *testing.T) {
	c, err := Parse([]byte(`
top_k: 2
domains:
  labour: [IDA]
boosts: []
classifier:
  default_label: labour
  rules:
    - label: labour
      keywords: [strike]
`))
	require.NoError(t, err)

	assert.Equal(t, 2, c.TopK)
	assert.Equal(t, map[string][]string{"labour": {"IDA"}}, c.Domains)
	assert.Empty(t, c.Boosts)
	assert.Equal(t, 5000, c.Classifier.TimeoutMs)
	assert.NoError(t, c.Validate())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("top_k: [not a number"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.TopK = 0
	c.Boosts = append(c.Boosts, retrieval.BoostRule{Trigger: "murder", SectionPattern: "(", Bonus: 3})
	c.Classifier.DefaultLabel = "tax"

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_k")
	assert.Contains(t, err.Error(), "section pattern")
	assert.Contains(t, err.Error(), `"tax"`)

	c = Default()
	c.Domains = nil
	assert.Error(t, c.Validate())

	// External classifier labels are checked per request, not here.
	c = Default()
	c.Classifier.Endpoint = "http://classifier/predict"
	c.Classifier.DefaultLabel = "tax"
	assert.NoError(t, c.Validate())
}

func TestWarnings(t *testing.T) {
	c := Default()
	c.Domains["labour"] = nil
	store := corpus.NewStore(
		corpus.Document{ID: "IPC"},
		corpus.Document{ID: "CivilCode"},
	)

	got := c.Warnings(store)

	assert.Equal(t, []string{
		`domain "constitutional": none of its documents are loaded (Constitution)`,
		`domain "criminal": documents not loaded: CrPC`,
		`domain "labour" has no documents configured`,
	}, got)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("PORT", "9090")

	env := FromEnv()

	assert.Equal(t, "openai", env.Model.Provider)
	assert.Equal(t, "sk-test", env.Model.APIKey)
	assert.Equal(t, "gpt-4o-mini", env.Model.Model)
	assert.Equal(t, 10, env.RateLimitBurst)
	assert.Equal(t, "9090", env.Port)
	assert.Equal(t, "processed_data", env.CorpusDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEGAL_ROUTE_TEST_VAR=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LEGAL_ROUTE_TEST_VAR") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("LEGAL_ROUTE_TEST_VAR"))
}
