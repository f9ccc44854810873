package repository

import (
	"context"
	"errors"

	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
)

var ErrRecordExists = errors.New("club record already exists")

// Repository is the club record store.
type Repository interface {
	// NextID allocates a record id. Ids are unique and increasing even under
	// concurrent callers.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, record *domain.ClubRecord) error
	GetByID(ctx context.Context, id int64) (*domain.ClubRecord, error)
	ListByUser(ctx context.Context, email string) ([]domain.ClubRecord, error)
	// ListByUserAndClub may use period to narrow the read. Callers still
	// filter the result by period themselves.
	ListByUserAndClub(ctx context.Context, email, club string, period *domain.Period) ([]domain.ClubRecord, error)
	SetFields(ctx context.Context, id int64, group domain.FieldGroup, values [3]string) (*domain.ClubRecord, error)
	Ping(ctx context.Context) error
}
