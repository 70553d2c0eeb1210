package postgres

import (
	"context"

	"kaniu/internal/domain/lostfound"
)

const reportColumns = `id, reporter_id, report_type, animal_id, latitude, longitude, address, description,
	matched_report_id, status, resolved_at, created_at, updated_at`

func (t *tx) InsertReport(ctx context.Context, r lostfound.Report) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO lost_found_reports (`+reportColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		r.ID, r.ReporterID, string(r.Type), nullString(r.AnimalID),
		r.Location.Latitude, r.Location.Longitude, r.Address, r.Description,
		nullString(r.MatchedReportID), string(r.Status), r.ResolvedAt, r.CreatedAt, r.UpdatedAt,
	)
	return mapErr(err)
}

func (t *tx) UpdateReport(ctx context.Context, r lostfound.Report) error {
	return mustAffect(t.q.Exec(ctx, `
		UPDATE lost_found_reports
		SET
			description = $2,
			matched_report_id = $3,
			status = $4,
			resolved_at = $5,
			updated_at = $6
		WHERE id = $1
	`,
		r.ID, r.Description, nullString(r.MatchedReportID), string(r.Status), r.ResolvedAt, r.UpdatedAt,
	))
}

func (t *tx) GetReport(ctx context.Context, id string) (lostfound.Report, error) {
	row := t.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM lost_found_reports WHERE id = $1`, id)
	return scanReport(row)
}

func (t *tx) ListOpenReports(ctx context.Context, filter lostfound.ListFilter) ([]lostfound.Report, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	// tipo vacío = ambos
	rows, err := t.q.Query(ctx, `
		SELECT `+reportColumns+`
		FROM lost_found_reports
		WHERE status = 'open' AND ($1::text = '' OR report_type = $1::text)
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, string(filter.Type), limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]lostfound.Report, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, mapErr(rows.Err())
}

func scanReport(row rowScanner) (lostfound.Report, error) {
	var r lostfound.Report
	var typ, status string
	var animalID, matchedID *string
	if err := row.Scan(
		&r.ID,
		&r.ReporterID,
		&typ,
		&animalID,
		&r.Location.Latitude,
		&r.Location.Longitude,
		&r.Address,
		&r.Description,
		&matchedID,
		&status,
		&r.ResolvedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return lostfound.Report{}, mapErr(err)
	}
	r.Type = lostfound.ReportType(typ)
	r.Status = lostfound.Status(status)
	r.AnimalID = fromNullString(animalID)
	r.MatchedReportID = fromNullString(matchedID)
	r.ResolvedAt = utcPtr(r.ResolvedAt)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}
