package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/volley-vote-api/internal/displayname"
	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/internal/repository"
	"github.com/noah-isme/volley-vote-api/internal/week"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/validation"
)

const rosterLabelsCacheKey = "roster:labels"

type personRepository interface {
	Create(ctx context.Context, person *models.Person) error
	List(ctx context.Context) ([]models.Person, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PersonService manages the roster.
type PersonService struct {
	repo      personRepository
	cache     *CacheService
	clock     week.Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService constructs a PersonService. cache may be nil.
func NewPersonService(repo personRepository, cache *CacheService, clock week.Clock, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = week.SystemClock
	}
	return &PersonService{repo: repo, cache: cache, clock: clock, validator: validate, logger: logger}
}

// Register adds a person to the roster.
func (s *PersonService) Register(ctx context.Context, req dto.RegisterPersonRequest) (*models.Person, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "first and last name are required", validation.Fields(err))
	}

	person := &models.Person{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, person); err != nil {
		if errors.Is(err, repository.ErrPersonExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "person already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register person")
	}
	s.cache.Invalidate(ctx, rosterLabelsCacheKey)

	s.logger.Info("person registered", zap.String("person_id", person.ID))
	return person, nil
}

// List returns the roster with disambiguated display labels. The labelled
// roster is cached under rosterLabelsCacheKey until the next register or
// delete.
func (s *PersonService) List(ctx context.Context) ([]models.PersonView, error) {
	var cached []models.PersonView
	if s.cache.Get(ctx, rosterLabelsCacheKey, &cached) {
		if cached == nil {
			cached = []models.PersonView{}
		}
		return cached, nil
	}

	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list people")
	}
	views := labelled(people)
	s.cache.Set(ctx, rosterLabelsCacheKey, views, 0)
	return views, nil
}

// DisplayNames returns the label for every person on the roster.
func (s *PersonService) DisplayNames(ctx context.Context) (map[string]string, error) {
	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(views))
	for _, v := range views {
		labels[v.ID] = v.DisplayName
	}
	return labels, nil
}

// Delete removes a person, their marks and their subscription. Unknown ids
// report Deleted=false.
func (s *PersonService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "person id is required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}
	if deleted {
		s.cache.Invalidate(ctx, rosterLabelsCacheKey)
		s.logger.Info("person deleted", zap.String("person_id", id))
	}
	return &models.DeleteResult{Deleted: deleted}, nil
}

func labelled(people []models.Person) []models.PersonView {
	labels := labelsFor(people)
	views := make([]models.PersonView, 0, len(people))
	for _, p := range people {
		views = append(views, models.PersonView{Person: p, DisplayName: labels[p.ID]})
	}
	return views
}

func labelsFor(people []models.Person) map[string]string {
	input := make([]displayname.Person, 0, len(people))
	for _, p := range people {
		input = append(input, displayname.Person{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName})
	}
	return displayname.Disambiguate(input)
}
