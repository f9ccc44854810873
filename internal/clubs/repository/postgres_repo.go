package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
)

const uniqueViolation = "23505"

const recordColumns = `id, user_email, club, date_time,
	lead_source_1, lead_source_2, lead_source_3,
	strategic_focus_1, strategic_focus_2, strategic_focus_3,
	objection_1, objection_2, objection_3,
	complaint_1, complaint_2, complaint_3`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.ClubRecord, error) {
	var rec domain.ClubRecord
	err := row.Scan(
		&rec.ID, &rec.UserEmail, &rec.Club, &rec.DateTime,
		&rec.LeadSource1, &rec.LeadSource2, &rec.LeadSource3,
		&rec.StrategicFocus1, &rec.StrategicFocus2, &rec.StrategicFocus3,
		&rec.Objection1, &rec.Objection2, &rec.Objection3,
		&rec.Complaint1, &rec.Complaint2, &rec.Complaint3,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('club_records_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to allocate record id: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *domain.ClubRecord) error {
	query := `INSERT INTO club_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserEmail, rec.Club, rec.DateTime,
		rec.LeadSource1, rec.LeadSource2, rec.LeadSource3,
		rec.StrategicFocus1, rec.StrategicFocus2, rec.StrategicFocus3,
		rec.Objection1, rec.Objection2, rec.Objection3,
		rec.Complaint1, rec.Complaint2, rec.Complaint3,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrRecordExists
	}
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.ClubRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM club_records WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, email string) ([]domain.ClubRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM club_records WHERE user_email = $1 ORDER BY id`
	return r.list(ctx, query, email)
}

func (r *PostgresRepository) ListByUserAndClub(ctx context.Context, email, club string, period *domain.Period) ([]domain.ClubRecord, error) {
	if period == nil {
		query := `SELECT ` + recordColumns + ` FROM club_records WHERE user_email = $1 AND club = $2 ORDER BY id`
		return r.list(ctx, query, email, club)
	}

	query := `SELECT ` + recordColumns + ` FROM club_records
		WHERE user_email = $1 AND club = $2 AND strpos(date_time, $3) > 0
		ORDER BY id`
	return r.list(ctx, query, email, club, period.MonthYear())
}

func (r *PostgresRepository) SetFields(ctx context.Context, id int64, group domain.FieldGroup, values [3]string) (*domain.ClubRecord, error) {
	if !group.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFieldGroup, string(group))
	}
	cols := group.Columns()

	query := fmt.Sprintf(`UPDATE club_records SET %s = $2, %s = $3, %s = $4 WHERE id = $1 RETURNING `+recordColumns,
		cols[0], cols[1], cols[2])

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id, values[0], values[1], values[2]))
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return rec, err
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]domain.ClubRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []domain.ClubRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
