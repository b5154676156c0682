package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/swissMack/simportal/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// such as provisioning a SIM with an ICCID that is already registered.
var ErrDuplicate = errors.New("repository: duplicate entry")

func (r *sqliteRepository) CreateSim(ctx context.Context, sim *model.SimCard) error {
	query := "INSERT INTO sims (id, iccid, imsi, msisdn, status, plan, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, sim.ID, sim.ICCID, sim.IMSI, nullable(sim.MSISDN), sim.Status, nullable(sim.Plan), sim.CreatedAt, sim.UpdatedAt)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicate
	}
	return err
}

func (r *sqliteRepository) GetSim(ctx context.Context, simID string) (*model.SimCard, error) {
	query := "SELECT id, iccid, imsi, msisdn, status, plan, created_at, updated_at FROM sims WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, simID)
	sim, err := scanSim(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sim, nil
}

func (r *sqliteRepository) ListSims(ctx context.Context) ([]*model.SimCard, error) {
	query := "SELECT id, iccid, imsi, msisdn, status, plan, created_at, updated_at FROM sims ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sims []*model.SimCard
	for rows.Next() {
		sim, err := scanSim(rows)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	return sims, rows.Err()
}

func (r *sqliteRepository) UpdateSim(ctx context.Context, sim *model.SimCard) error {
	query := "UPDATE sims SET imsi = ?, msisdn = ?, status = ?, plan = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, sim.IMSI, nullable(sim.MSISDN), sim.Status, nullable(sim.Plan), time.Now().UTC(), sim.ID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *sqliteRepository) DeleteSim(ctx context.Context, simID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sims WHERE id = ?", simID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// SetSimStatus transitions every listed SIM to the given status in one
// statement and reports how many rows actually changed.
func (r *sqliteRepository) SetSimStatus(ctx context.Context, simIDs []string, status string) (int64, error) {
	if len(simIDs) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(simIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf("UPDATE sims SET status = ?, updated_at = ? WHERE id IN (%s)", placeholders)

	args := make([]any, 0, len(simIDs)+2)
	args = append(args, status, time.Now().UTC())
	for _, id := range simIDs {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sqliteRepository) AddUsageSample(ctx context.Context, sample *model.UsageSample) error {
	query := "INSERT INTO usage_samples (id, sim_id, bytes_up, bytes_down, recorded_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, sample.ID, sample.SimID, sample.BytesUp, sample.BytesDown, sample.RecordedAt)
	return err
}

func (r *sqliteRepository) GetUsageTotals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error) {
	query := `
		SELECT COALESCE(SUM(bytes_up), 0), COALESCE(SUM(bytes_down), 0), COUNT(*)
		FROM usage_samples
		WHERE sim_id = ? AND recorded_at >= ? AND recorded_at < ?
	`
	row := r.db.QueryRowContext(ctx, query, simID, from, to)

	totals := &model.UsageTotals{SimID: simID, From: from, To: to}
	if err := row.Scan(&totals.BytesUp, &totals.BytesDown, &totals.Samples); err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *sqliteRepository) AddWebhookEvent(ctx context.Context, event *model.WebhookEvent) error {
	query := "INSERT INTO webhook_events (id, source, topic, payload, received_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, event.ID, event.Source, nullable(event.Topic), string(event.Payload), event.ReceivedAt)
	return err
}

func (r *sqliteRepository) ListWebhookEvents(ctx context.Context, source string) ([]*model.WebhookEvent, error) {
	query := "SELECT id, source, topic, payload, received_at FROM webhook_events"
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY received_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.WebhookEvent
	for rows.Next() {
		var ev model.WebhookEvent
		var topic sql.NullString
		var payload string
		if err := rows.Scan(&ev.ID, &ev.Source, &topic, &payload, &ev.ReceivedAt); err != nil {
			return nil, err
		}
		if topic.Valid {
			ev.Topic = topic.String
		}
		ev.Payload = []byte(payload)
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func (r *sqliteRepository) ClearWebhookEvents(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM webhook_events")
	return err
}

func (r *sqliteRepository) CreateAlert(ctx context.Context, alert *model.Alert) error {
	query := "INSERT INTO alerts (id, sim_id, severity, message, created_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, alert.ID, nullable(alert.SimID), alert.Severity, alert.Message, alert.CreatedAt)
	return err
}

func (r *sqliteRepository) ListAlerts(ctx context.Context) ([]*model.Alert, error) {
	query := "SELECT id, sim_id, severity, message, created_at FROM alerts ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*model.Alert
	for rows.Next() {
		var a model.Alert
		var simID sql.NullString
		if err := rows.Scan(&a.ID, &simID, &a.Severity, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		if simID.Valid {
			a.SimID = simID.String
		}
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSim(row rowScanner) (*model.SimCard, error) {
	var sim model.SimCard
	var msisdn, plan sql.NullString
	if err := row.Scan(&sim.ID, &sim.ICCID, &sim.IMSI, &msisdn, &sim.Status, &plan, &sim.CreatedAt, &sim.UpdatedAt); err != nil {
		return nil, err
	}
	if msisdn.Valid {
		sim.MSISDN = msisdn.String
	}
	if plan.Valid {
		sim.Plan = plan.String
	}
	return &sim, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
