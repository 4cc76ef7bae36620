package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"buddymatch/internal/domain/reports"
)

type reportRepo struct {
	mu   sync.RWMutex
	byID map[string]reports.Report
}

func NewReportRepo() reports.Repository {
	return &reportRepo{byID: make(map[string]reports.Report)}
}

func (r *reportRepo) Create(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	r.byID[rep.ID] = rep
	return nil
}
