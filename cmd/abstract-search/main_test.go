// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abstract-search/internal/secrets"
	"github.com/pdiddy/abstract-search/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg := loadConfig()
	assert.Equal(t, defaultEndpoint, cfg.Client.Endpoint)
	assert.Equal(t, 10, cfg.PubMed.MaxResults)
	assert.Equal(t, 30*time.Second, cfg.PubMed.Timeout)
	assert.Equal(t, defaultModel, cfg.AI.Model)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "abstract-search/"+version, cfg.PubMed.UserAgent)
}

func TestLoadConfigOverridesAndSecrets(t *testing.T) {
	resetViper(t)
	viper.Set("pubmed.max_results", 25)
	viper.Set("ai.api_key", "sk-config")
	viper.Set("server.allowed_origins", []string{"https://app.example.org"})

	prev := loadedSecrets
	loadedSecrets = secrets.Secrets{secrets.OpenAIAPIKey: "sk-file", secrets.NCBIEmail: "me@example.org"}
	t.Cleanup(func() { loadedSecrets = prev })

	cfg := loadConfig()
	assert.Equal(t, 25, cfg.PubMed.MaxResults)
	assert.Equal(t, "sk-config", cfg.AI.APIKey)
	assert.Equal(t, "me@example.org", cfg.PubMed.Email)
	assert.Equal(t, []string{"https://app.example.org"}, cfg.Server.AllowedOrigins)
}

func TestFormatHistory(t *testing.T) {
	entries := []types.HistoryEntry{{
		ID:           7,
		Question:     "Does coffee raise blood pressure in adults with a family history of hypertension?",
		ArticleCount: 4,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, entries, false))
	assert.Contains(t, buf.String(), "Does coffee raise blood pressure in adults with...")
	assert.Contains(t, buf.String(), "1 entries")

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, true))
	var got []types.HistoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Empty(t, got)

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, false))
	assert.Equal(t, "No history.\n", buf.String())
}
