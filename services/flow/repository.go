package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles flow persistence in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// InitSchema creates the flows table if it does not exist.
func (r *Repository) InitSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS flows (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			nodes      JSONB NOT NULL DEFAULT '[]',
			edges      JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Seed inserts the flow generated from the default rule set if it does not already exist.
func (r *Repository) Seed(ctx context.Context) error {
	seed := SampleFlow()
	nodesJSON, err := json.Marshal(seed.Graph.Nodes)
	if err != nil {
		return fmt.Errorf("marshal seed nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(seed.Graph.Edges)
	if err != nil {
		return fmt.Errorf("marshal seed edges: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO flows (id, name, nodes, edges)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, seed.ID, seed.Name, nodesJSON, edgesJSON)
	if err != nil {
		return fmt.Errorf("seed flow: %w", err)
	}
	return nil
}

// Get retrieves a flow by ID. Returns nil, nil if not found.
func (r *Repository) Get(ctx context.Context, id string) (*Flow, error) {
	var f Flow
	var nodesJSON, edgesJSON []byte

	err := r.db.QueryRow(ctx, `
		SELECT id, name, nodes, edges, created_at, updated_at
		FROM flows WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &nodesJSON, &edgesJSON, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get flow: %w", err)
	}

	if err := json.Unmarshal(nodesJSON, &f.Graph.Nodes); err != nil {
		return nil, fmt.Errorf("unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(edgesJSON, &f.Graph.Edges); err != nil {
		return nil, fmt.Errorf("unmarshal edges: %w", err)
	}
	return &f, nil
}

// Save inserts or replaces a flow.
func (r *Repository) Save(ctx context.Context, f *Flow) error {
	nodesJSON, err := json.Marshal(f.Graph.Nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(f.Graph.Edges)
	if err != nil {
		return fmt.Errorf("marshal edges: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO flows (id, name, nodes, edges)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, nodes = EXCLUDED.nodes, edges = EXCLUDED.edges, updated_at = NOW()
		RETURNING created_at, updated_at
	`, f.ID, f.Name, nodesJSON, edgesJSON).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save flow: %w", err)
	}
	return nil
}

// Delete removes a flow. It reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM flows WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete flow: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InitDB creates the schema and seeds initial data. Called from main on startup.
func InitDB(ctx context.Context, pool *pgxpool.Pool) error {
	repo := NewRepository(pool)
	if err := repo.InitSchema(ctx); err != nil {
		return err
	}
	return repo.Seed(ctx)
}

// MemoryRepository keeps flows in process memory. It backs the service when
// no database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	flows map[string]Flow
}

// NewMemoryRepository returns a repository seeded with the sample flow.
func NewMemoryRepository() *MemoryRepository {
	seed := SampleFlow()
	return &MemoryRepository{flows: map[string]Flow{seed.ID: *seed}}
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*Flow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flows[id]
	if !ok {
		return nil, nil
	}
	f.Graph = f.Graph.Clone()
	return &f, nil
}

func (m *MemoryRepository) Save(_ context.Context, f *Flow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := m.flows[f.ID]; ok {
		f.CreatedAt = existing.CreatedAt
	} else {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	stored := *f
	stored.Graph = f.Graph.Clone()
	m.flows[f.ID] = stored
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.flows[id]
	delete(m.flows, id)
	return ok, nil
}

// SampleFlowID identifies the seeded flow.
const SampleFlowID = "550e8400-e29b-41d4-a716-446655440000"

// SampleFlow is the laid-out tree generated from DefaultRuleSet.
func SampleFlow() *Flow {
	rs := DefaultRuleSet()
	return &Flow{
		ID:    SampleFlowID,
		Name:  rs.Title,
		Graph: ApplyLayout(Generate(rs.Rules), true),
	}
}
