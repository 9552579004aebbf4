package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	domain "github.com/bryanwahyu/product-content-ai/internal/domain/product"
)

// AnalysisRepository keeps analyses for the lifetime of the process.
// One mutex guards both the id counter and the map.
type AnalysisRepository struct {
	mu     sync.RWMutex
	nextID domain.AnalysisID
	data   map[domain.AnalysisID]*domain.Analysis
	clock  application.Clock
}

func NewAnalysisRepository(clock application.Clock) *AnalysisRepository {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &AnalysisRepository{
		nextID: 1,
		data:   make(map[domain.AnalysisID]*domain.Analysis),
		clock:  clock,
	}
}

// Create assigns the next id, stamps createdAt and stores a copy
func (r *AnalysisRepository) Create(ctx context.Context, in domain.NewAnalysis) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	a := in.Build(id, r.clock.Now())
	r.data[id] = a
	return a.Clone(), nil
}

// Get returns a copy of the record or domain.ErrNotFound
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a.Clone(), nil
}

// List returns copies ordered by createdAt desc, id desc
func (r *AnalysisRepository) List(ctx context.Context) ([]*domain.Analysis, error) {
	r.mu.RLock()
	out := make([]*domain.Analysis, 0, len(r.data))
	for _, a := range r.data {
		out = append(out, a.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Delete removes the record and reports whether it existed
func (r *AnalysisRepository) Delete(ctx context.Context, id domain.AnalysisID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return false, nil
	}
	delete(r.data, id)
	return true, nil
}

// Len returns the number of stored records.
func (r *AnalysisRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
