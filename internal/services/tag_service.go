package services

import (
	"context"

	"recipebox/internal/apperr"
	"recipebox/internal/models"
	"recipebox/internal/query"
	"recipebox/internal/repositories"
)

const (
	maxTagNameLen        = 256
	maxIngredientNameLen = 255
)

// TagService handles business logic related to tags. The owner is always the
// authenticated user passed in by the caller.
type TagService struct {
	repo   repositories.TagRepository
	events *Notifier
}

// NewTagService creates a new TagService.
func NewTagService(repo repositories.TagRepository, events *Notifier) *TagService {
	return &TagService{
		repo:   repo,
		events: events,
	}
}

// ListTags returns the user's tags matching f.
func (s *TagService) ListTags(ctx context.Context, user *models.User, f query.Filter) ([]models.Tag, error) {
	return s.repo.List(ctx, user.ID, f)
}

// GetTag retrieves one of the user's tags.
func (s *TagService) GetTag(ctx context.Context, user *models.User, id uint) (*models.Tag, error) {
	return s.repo.GetByID(ctx, user.ID, id)
}

// CreateTag creates a tag owned by user.
func (s *TagService) CreateTag(ctx context.Context, user *models.User, req models.TagRequest) (*models.Tag, error) {
	if missing := req.MissingRequired(); len(missing) > 0 {
		return nil, apperr.Validation(missing)
	}
	name, verr := cleanName("name", *req.Name, maxTagNameLen)
	if verr != nil {
		return nil, verr
	}

	tag := &models.Tag{Name: name, UserID: user.ID}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	s.events.Emit(EventTagCreated, user.ID, tag.ID)
	return tag, nil
}

// UpdateTag renames one of the user's tags. A full update (partial=false)
// requires the name; a partial update without fields changes nothing.
func (s *TagService) UpdateTag(ctx context.Context, user *models.User, id uint, req models.TagRequest, partial bool) (*models.Tag, error) {
	tag, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if !partial {
		if missing := req.MissingRequired(); len(missing) > 0 {
			return nil, apperr.Validation(missing)
		}
	}
	if req.Name == nil {
		return tag, nil
	}

	name, verr := cleanName("name", *req.Name, maxTagNameLen)
	if verr != nil {
		return nil, verr
	}
	tag.Name = name
	tag.UserID = user.ID
	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	s.events.Emit(EventTagUpdated, user.ID, tag.ID)
	return tag, nil
}

// DeleteTag deletes one of the user's tags.
func (s *TagService) DeleteTag(ctx context.Context, user *models.User, id uint) error {
	if err := s.repo.Delete(ctx, user.ID, id); err != nil {
		return err
	}
	s.events.Emit(EventTagDeleted, user.ID, id)
	return nil
}
