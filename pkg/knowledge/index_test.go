package knowledge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "state", "knowledge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_SearchEmptyIndex(t *testing.T) {
	idx := newTestIndex(t)

	snippets, err := idx.Search(context.Background(), "anything", 2)
	require.NoError(t, err)
	require.Empty(t, snippets)
}

func TestIndex_RebuildAndSearch(t *testing.T) {
	idx := newTestIndex(t)
	docs := []Document{
		{Name: "sleep.txt", Content: "Sleep hygiene: keep a consistent sleep schedule, avoid screens before bed, limit caffeine. Insomnia and tiredness improve with routine."},
		{Name: "stress.txt", Content: "Stress management: physical activity, relaxation techniques, time management, setting boundaries, social support."},
	}

	chunks, err := idx.Rebuild(context.Background(), docs, 1000, 200)
	require.NoError(t, err)
	require.Equal(t, 2, chunks)

	snippets, err := idx.Search(context.Background(), "I can't sleep and I'm always tired", 2)
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	// Most relevant first, ranks assigned in order.
	require.Contains(t, snippets[0].Text, "Sleep hygiene")
	require.Equal(t, 0, snippets[0].Rank)
	require.Equal(t, 1, snippets[1].Rank)
	require.GreaterOrEqual(t, snippets[0].Score, snippets[1].Score)
}

func TestIndex_SearchRespectsK(t *testing.T) {
	idx := newTestIndex(t)
	docs := []Document{
		{Name: "a.txt", Content: "anxiety and worry"},
		{Name: "b.txt", Content: "depression and sadness"},
		{Name: "c.txt", Content: "mindfulness and breathing"},
	}
	_, err := idx.Rebuild(context.Background(), docs, 1000, 200)
	require.NoError(t, err)

	snippets, err := idx.Search(context.Background(), "worry", 2)
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	none, err := idx.Search(context.Background(), "worry", 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestIndex_RebuildReplacesPreviousContents(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	_, err := idx.Rebuild(ctx, []Document{{Name: "old.txt", Content: "old content"}}, 1000, 200)
	require.NoError(t, err)
	_, err = idx.Rebuild(ctx, []Document{{Name: "new.txt", Content: "new content"}}, 1000, 200)
	require.NoError(t, err)

	count, err := idx.ChunkCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestEnsureSeedCorpus(t *testing.T) {
	dir := t.TempDir()

	written, err := EnsureSeedCorpus(dir)
	require.NoError(t, err)
	require.Equal(t, len(seedDocuments), written)

	// Second call must not rewrite anything.
	written, err = EnsureSeedCorpus(dir)
	require.NoError(t, err)
	require.Zero(t, written)

	docs, err := LoadDocuments(dir)
	require.NoError(t, err)
	require.Len(t, docs, len(seedDocuments))
}
