package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `user_id, email, name, password, is_google_user, reset_token, reset_token_expiry,
	clubwise_url, business_name, logo, first_name, last_name, phone,
	crm_api_key, crm_username, crm_password`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var resetToken sql.NullString
	var resetExpiry sql.NullInt64

	err := row.Scan(
		&u.UserID, &u.Email, &u.Name, &u.Password, &u.IsGoogleUser, &resetToken, &resetExpiry,
		&u.ClubwiseURL, &u.BusinessName, &u.Logo, &u.FirstName, &u.LastName, &u.Phone,
		&u.CRMAPIKey, &u.CRMUsername, &u.CRMPassword,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if resetToken.Valid && resetExpiry.Valid {
		u.ResetToken = resetToken.String
		u.ResetTokenExpiry = resetExpiry.Int64
	}
	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM accounts WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, err
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO accounts (user_id, email, name, password, is_google_user)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, user.UserID, user.Email, user.Name, user.Password, user.IsGoogleUser)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, email, token string, expiryMillis int64) error {
	query := `UPDATE accounts SET reset_token = $2, reset_token_expiry = $3 WHERE email = $1`

	res, err := r.db.ExecContext(ctx, query, email, token, expiryMillis)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return requireRow(res, domain.ErrUserNotFound)
}

func (r *PostgresRepository) CompletePasswordReset(ctx context.Context, email, token, passwordHash string, nowMillis int64) error {
	query := `
		UPDATE accounts
		SET password = $2, reset_token = NULL, reset_token_expiry = NULL
		WHERE email = $1 AND reset_token = $3 AND reset_token_expiry >= $4
	`

	res, err := r.db.ExecContext(ctx, query, email, passwordHash, token, nowMillis)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return requireRow(res, domain.ErrInvalidResetToken)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.User, error) {
	query := `
		UPDATE accounts SET
			clubwise_url  = COALESCE($2::text, clubwise_url),
			business_name = COALESCE($3::text, business_name),
			logo          = COALESCE($4::text, logo),
			first_name    = COALESCE($5::text, first_name),
			last_name     = COALESCE($6::text, last_name),
			phone         = COALESCE($7::text, phone),
			password      = COALESCE($8::text, password)
		WHERE email = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email,
		update.ClubwiseURL, update.BusinessName, update.Logo,
		update.FirstName, update.LastName, update.Phone, update.PasswordHash,
	))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, err
}

func (r *PostgresRepository) UpdateCRMCredentials(ctx context.Context, email string, creds domain.CRMCredentials) (*domain.User, error) {
	query := `
		UPDATE accounts SET crm_api_key = $2, crm_username = $3, crm_password = $4
		WHERE email = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email, creds.APIKey, creds.Username, creds.PasswordHash))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to update CRM credentials: %w", err)
	}
	return u, err
}

func (r *PostgresRepository) ClearExpiredResetTokens(ctx context.Context, nowMillis int64) (int, error) {
	query := `
		UPDATE accounts SET reset_token = NULL, reset_token_expiry = NULL
		WHERE reset_token_expiry < $1
	`

	res, err := r.db.ExecContext(ctx, query, nowMillis)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
