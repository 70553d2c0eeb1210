package memory

import (
	"context"
	"sort"
	"strings"

	"kaniu/internal/domain/lostfound"
	"kaniu/internal/ports/storage"
)

func (t *tx) InsertReport(ctx context.Context, r lostfound.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ID) == "" {
		return storage.ErrInvalidReference
	}
	if _, exists := t.st.reports[r.ID]; exists {
		return storage.ErrConflict
	}
	if r.AnimalID != "" {
		if _, ok := t.st.animals[r.AnimalID]; !ok {
			return storage.ErrInvalidReference
		}
	}
	t.st.reports[r.ID] = r
	return nil
}

func (t *tx) UpdateReport(ctx context.Context, r lostfound.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := t.st.reports[r.ID]; !exists {
		return storage.ErrNotFound
	}
	if r.MatchedReportID != "" {
		if _, ok := t.st.reports[r.MatchedReportID]; !ok {
			return storage.ErrInvalidReference
		}
	}
	t.st.reports[r.ID] = r
	return nil
}

func (t *tx) GetReport(ctx context.Context, id string) (lostfound.Report, error) {
	if err := ctx.Err(); err != nil {
		return lostfound.Report{}, err
	}
	r, ok := t.st.reports[id]
	if !ok {
		return lostfound.Report{}, storage.ErrNotFound
	}
	return r, nil
}

func (t *tx) ListOpenReports(ctx context.Context, filter lostfound.ListFilter) ([]lostfound.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]lostfound.Report, 0)
	for _, r := range t.st.reports {
		if r.Status != lostfound.StatusOpen {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		out = append(out, r)
	}

	// Orden por created_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
