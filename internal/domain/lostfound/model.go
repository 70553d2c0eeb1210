package lostfound

import "time"

// @Enum lost, found
type ReportType string

const (
	ReportLost  ReportType = "lost"
	ReportFound ReportType = "found"
)

// @Enum open, resolved, cancelled
type Status string

const (
	StatusOpen      Status = "open"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
)

type Location struct {
	Latitude  float64
	Longitude float64
}

// Report es un aviso de animal perdido o encontrado. No se borra:
// se resuelve o se cancela.
type Report struct {
	ID         string
	ReporterID string
	Type       ReportType
	AnimalID   string // opcional, si el animal está registrado

	Location    Location
	Address     string
	Description string

	MatchedReportID string
	Status          Status
	ResolvedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
