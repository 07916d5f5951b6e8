package services

import (
	"context"
	"strings"

	"voyago/internal/models/db_models"
	"voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/utils"
)

type TagServiceInterface interface {
	GetAllTags(page int, pageSize int, ctx context.Context) ([]response_models.TagResponse, error)
	CreateTag(ctx context.Context, name, icon string) error
}

type TagService struct {
	tagRepo repositories.TagRepositoryInterface
}

func NewTagService(tagRepo repositories.TagRepositoryInterface) TagServiceInterface {
	return &TagService{
		tagRepo: tagRepo,
	}
}

func (s *TagService) GetAllTags(page int, pageSize int, ctx context.Context) ([]response_models.TagResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	tags, err := s.tagRepo.GetAllTags(page, pageSize, ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(tags) == 0 {
		return []response_models.TagResponse{}, utils.ErrTagNotFound
	}

	out := make([]response_models.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, response_models.TagResponse{
			ID:   t.ID.String(),
			Name: t.Name,
			Icon: t.Icon,
		})
	}
	return out, nil
}

func (s *TagService) CreateTag(ctx context.Context, name, icon string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return utils.ErrInvalidInput
	}

	tag := db_models.Tag{Name: name, Icon: icon}
	if err := s.tagRepo.CreateTag(tag, ctx); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
