// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/abstract-search/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{Dir: filepath.Join(t.TempDir(), "history"), MaxResults: 2})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"Does coffee raise blood pressure?", "CRISPR off-target effects", "Gut microbiota and obesity"} {
		_, err := s.Record(context.Background(), types.HistoryEntry{
			Question:     q,
			SearchTerms:  "terms " + q,
			ArticleCount: i + 1,
			Summary:      "summary " + q,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	s, err := Open(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
	assert.Equal(t, defaultMaxResults, s.maxResults)
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	got, err := s.List(context.Background(), QueryOptions{MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Gut microbiota and obesity", got[0].Question)
	assert.Equal(t, "Does coffee raise blood pressure?", got[2].Question)
	assert.Equal(t, 3, got[0].ArticleCount)
	assert.True(t, got[0].CreatedAt.Equal(time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)))
	assert.NotZero(t, got[0].ID)
}

func TestListDefaultLimit(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	got, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListContains(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	tests := []struct {
		name     string
		contains string
		want     int
	}{
		{"case insensitive question match", "crispr", 1},
		{"matches search terms", "terms gut", 1},
		{"no match", "malaria", 0},
		{"like wildcards are literal", "%", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(context.Background(), QueryOptions{Contains: tt.contains, MaxResults: 10})
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestRecordDefaultsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	before := time.Now().Add(-time.Second)

	_, err := s.Record(context.Background(), types.HistoryEntry{Question: "q"})
	require.NoError(t, err)

	got, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.After(before))
}

func TestExportYAML(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf))

	var entries []types.HistoryEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "Gut microbiota and obesity", entries[0].Question)
	assert.Equal(t, "summary CRISPR off-target effects", entries[1].Summary)
}

func TestExportYAMLEmpty(t *testing.T) {
	s := openTestStore(t)
	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf))
	assert.Equal(t, "[]\n", buf.String())
}
