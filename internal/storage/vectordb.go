package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// VectorStore persists chunk embeddings in a pgvector table.
type VectorStore struct {
	pool *pgxpool.Pool
}

func NewVectorStore(pool *pgxpool.Pool) *VectorStore {
	return &VectorStore{pool: pool}
}

// Rebuild replaces the whole index: the chunk table is dropped, recreated at
// the given embedding dimension and filled in one transaction, so readers see
// either the old index or the complete new one.
func (s *VectorStore) Rebuild(ctx context.Context, source string, contents []string, embeddings [][]float32, dim int) error {
	if len(contents) != len(embeddings) {
		return fmt.Errorf("got %d chunks but %d embeddings", len(contents), len(embeddings))
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("ensure vector extension: %w", err)
	}
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS chunks"); err != nil {
		return fmt.Errorf("drop chunks: %w", err)
	}
	create := fmt.Sprintf(
		"CREATE TABLE chunks (id uuid PRIMARY KEY, source text NOT NULL, content text NOT NULL, embedding vector(%d) NOT NULL)",
		dim)
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("create chunks: %w", err)
	}

	for i := range contents {
		_, err := tx.Exec(ctx,
			"INSERT INTO chunks (id, source, content, embedding) VALUES ($1, $2, $3, $4)",
			uuid.New(), source, contents[i], pgvector.NewVector(embeddings[i]))
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

// QuerySimilar returns the topK nearest chunk contents by L2 distance, in
// distance order.
func (s *VectorStore) QuerySimilar(ctx context.Context, queryEmb []float32, topK int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT content FROM chunks ORDER BY embedding <-> $1 LIMIT $2",
		pgvector.NewVector(queryEmb), topK)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		results = append(results, content)
	}
	return results, rows.Err()
}
