// Package knowledge implements the retrieval side of the pipeline: a seed
// corpus, a chunker, a local embedder, and a sqlite-backed vector index
// answering top-k similarity queries.
package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Snippet is one retrieved chunk, ranked by similarity to the query.
type Snippet struct {
	Text  string
	Score float64
	Rank  int
}

// Index is the persistent knowledge index.
type Index struct {
	db *sql.DB
}

// OpenIndex creates/opens the index database at path.
func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	// Single shared connection avoids sqlite writer lock contention when
	// rebuilds and searches overlap.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) Close() error {
	if idx == nil || idx.db == nil {
		return nil
	}
	return idx.db.Close()
}

func (idx *Index) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			indexed_at_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			content TEXT NOT NULL,
			model TEXT NOT NULL,
			vector_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS chunks_document_idx ON chunks(document_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := idx.db.Exec(stmt); err != nil {
			return fmt.Errorf("init index schema: %w", err)
		}
	}
	return nil
}

// Rebuild drops the current contents and re-indexes every document in docs,
// chunking with the given size/overlap. Returns the number of chunks stored.
func (idx *Index) Rebuild(ctx context.Context, docs []Document, chunkSize, chunkOverlap int) (int, error) {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"chunks", "documents"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	now := time.Now().UnixMilli()
	total := 0
	for _, doc := range docs {
		docID := uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, name, indexed_at_ms) VALUES (?, ?, ?)`,
			docID, doc.Name, now,
		); err != nil {
			return 0, fmt.Errorf("insert document %s: %w", doc.Name, err)
		}

		for position, chunk := range SplitText(doc.Content, chunkSize, chunkOverlap) {
			vec := EmbedText(chunk)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunks (id, document_id, position, content, model, vector_json)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), docID, position, chunk, embeddingModelID, encodeVector(vec),
			); err != nil {
				return 0, fmt.Errorf("insert chunk %s#%d: %w", doc.Name, position, err)
			}
			total++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return total, nil
}

// Search embeds query and returns at most k snippets ordered most relevant
// first. An empty index yields an empty result, not an error.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]Snippet, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT content, model, vector_json FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	queryVec := EmbedText(query)
	scored := []Snippet{}
	for rows.Next() {
		var content, model, vectorJSON string
		if err := rows.Scan(&content, &model, &vectorJSON); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if model != embeddingModelID {
			continue
		}
		scored = append(scored, Snippet{
			Text:  content,
			Score: CosineSimilarity(queryVec, decodeVector(vectorJSON)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i
	}
	return scored, nil
}

// ChunkCount reports how many chunks are indexed.
func (idx *Index) ChunkCount(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

func encodeVector(vec []float32) string {
	data, err := json.Marshal(vec)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeVector(raw string) []float32 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil
	}
	return vec
}
