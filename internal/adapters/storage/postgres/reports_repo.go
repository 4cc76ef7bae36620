package postgres

import (
	"context"
	"database/sql"

	"buddymatch/internal/domain/reports"
)

type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, reporter_id, type, target_id, reason, post_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rep.ID,
		rep.ReporterID,
		string(rep.Type),
		rep.TargetID,
		rep.Reason,
		rep.PostID,
		rep.CreatedAt,
	)
	return err
}
