package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	accountdomain "github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
	"github.com/gymsuite/gymsuite-backend/internal/clubs/repository"
	"github.com/gymsuite/gymsuite-backend/internal/observability/metrics"
)

// AccountLookup resolves an email to its account, or nil when there is none.
type AccountLookup interface {
	GetUser(ctx context.Context, email string) (*accountdomain.User, error)
}

type ClubService struct {
	repo     repository.Repository
	accounts AccountLookup
}

func NewClubService(repo repository.Repository, accounts AccountLookup) *ClubService {
	return &ClubService{
		repo:     repo,
		accounts: accounts,
	}
}

// GetLatestForMonth returns the record of (email, club) with the latest
// Date_Time inside period, time of day included when recorded. Equal
// instants resolve to the higher ID.
func (s *ClubService) GetLatestForMonth(ctx context.Context, email, club string, period domain.Period) (*domain.ClubRecord, error) {
	email = accountdomain.NormalizeEmail(email)
	records, err := s.repo.ListByUserAndClub(ctx, email, club, &period)
	if err != nil {
		return nil, err
	}

	var latest *domain.ClubRecord
	var latestAt time.Time
	for i := range records {
		rec := &records[i]
		at, err := domain.ParseRecordDate(rec.DateTime)
		if err != nil {
			log.Ctx(ctx).Warn().Int64("record_id", rec.ID).Str("date_time", rec.DateTime).Msg("skipping record with unparseable date")
			continue
		}
		if !period.Contains(at) {
			continue
		}
		if latest == nil || at.After(latestAt) || (at.Equal(latestAt) && rec.ID > latest.ID) {
			latest, latestAt = rec, at
		}
	}

	if latest == nil {
		return nil, domain.ErrRecordNotFound
	}
	return latest, nil
}

// ListClubsForUser returns the distinct clubs of the user's records in the
// order they were first recorded, together with the user's account.
func (s *ClubService) ListClubsForUser(ctx context.Context, email string) ([]domain.ClubOption, *accountdomain.User, error) {
	email = accountdomain.NormalizeEmail(email)
	records, err := s.repo.ListByUser(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	clubs := make([]domain.ClubOption, 0)
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Club]; ok {
			continue
		}
		seen[rec.Club] = struct{}{}
		clubs = append(clubs, domain.ClubOption{Label: rec.Club, Value: rec.Club})
	}

	user, err := s.accounts.GetUser(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return clubs, user, nil
}

// CreateRecord appends a record for an existing account and returns it as
// stored. The owner is always email, whatever the payload says.
func (s *ClubService) CreateRecord(ctx context.Context, email string, rec domain.ClubRecord) (out *domain.ClubRecord, err error) {
	defer func() { metrics.ClubRecordOperationsTotal.WithLabelValues("create", metrics.Result(err)).Inc() }()

	email = accountdomain.NormalizeEmail(email)
	user, err := s.accounts.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrForbidden
	}

	rec.Club = strings.TrimSpace(rec.Club)
	if rec.Club == "" {
		return nil, fmt.Errorf("%w: Club is required", domain.ErrInvalidRecord)
	}
	if rec.DateTime, err = domain.NormalizeRecordDate(rec.DateTime); err != nil {
		return nil, err
	}
	rec.UserEmail = email

	if rec.ID, err = s.repo.NextID(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &rec); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Int64("record_id", rec.ID).Str("club", rec.Club).Msg("club record created")
	return s.repo.GetByID(ctx, rec.ID)
}

// GetByID returns nil without error when the record does not exist.
func (s *ClubService) GetByID(ctx context.Context, id int64) (*domain.ClubRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *ClubService) SetFields(ctx context.Context, id int64, group domain.FieldGroup, values [3]string) (rec *domain.ClubRecord, err error) {
	defer func() { metrics.ClubRecordOperationsTotal.WithLabelValues("set_"+string(group), metrics.Result(err)).Inc() }()

	if !group.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFieldGroup, string(group))
	}
	return s.repo.SetFields(ctx, id, group, values)
}

func (s *ClubService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
