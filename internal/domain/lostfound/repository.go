package lostfound

import "context"

type Repository interface {
	InsertReport(ctx context.Context, r Report) error
	UpdateReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (Report, error)
	ListOpenReports(ctx context.Context, filter ListFilter) ([]Report, error)
}

type ListFilter struct {
	Type  ReportType // vacío = ambos
	Limit int
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}
