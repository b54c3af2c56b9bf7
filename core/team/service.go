package team

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
)

var (
	// errors
	ErrNotFound   = errors.New("team not found")
	ErrSlugExists = errors.New("a team with this slug already exists")
)

type (
	Repository interface {
		CreateTeam(ctx context.Context, t Team) (Team, error)
		QueryAllTeams(ctx context.Context) ([]Team, error)
		GetTeamByID(ctx context.Context, id string) (Team, error)
		GetTeamBySlug(ctx context.Context, slug string) (Team, error)
	}

	ServiceInterface interface {
		CheckUniqueness(slug string) error
		Create(ctx context.Context, nt NewTeam) (Team, error)
		QueryAll(ctx context.Context) ([]Team, error)
		// Get finds a team by ID or by slug.
		Get(ctx context.Context, idOrSlug string) (Team, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(slug string) error {
	_, err := svc.repo.GetTeamBySlug(context.Background(), slug)
	switch errors.Cause(err) {
	case nil:
		return core.NewValidationError(ErrSlugExists, core.FieldError{Field: "slug", Error: ErrSlugExists.Error()})
	case ErrNotFound:
		return nil
	default:
		return errors.Wrap(err, "checking slug uniqueness")
	}
}

func (svc *Service) Create(ctx context.Context, nt NewTeam) (Team, error) {
	t := Team{
		ID:             uuid.New().String(),
		Name:           nt.Name,
		Slug:           nt.Slug,
		Department:     nt.Department,
		MailingList:    nt.MailingList,
		TelegramChatID: nt.TelegramChatID,
		CreatedAt:      calendar.NowFunc().UTC(),
	}
	if t.Slug == "" {
		t.Slug = core.Slugify(t.Name)
	}
	return svc.repo.CreateTeam(ctx, t)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Team, error) {
	return svc.repo.QueryAllTeams(ctx)
}

func (svc *Service) Get(ctx context.Context, idOrSlug string) (Team, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		return svc.repo.GetTeamByID(ctx, idOrSlug)
	}
	return svc.repo.GetTeamBySlug(ctx, core.CleanString(idOrSlug, true /* lower */))
}
