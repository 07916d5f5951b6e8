package services

import (
	"context"
	"strings"

	"github.com/lib/pq"

	"voyago/internal/models/db_models"
	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/logger"
	"voyago/pkg/utils"
)

type ActivityServiceInterface interface {
	UpsertActivity(ctx context.Context, req request_models.UpsertActivityRequest) (string, error)
	GetActivityById(ctx context.Context, id string) (*response_models.ActivityResponse, error)
	ListActivities(ctx context.Context, page, pageSize int) ([]response_models.ActivityResponse, error)
	SearchActivities(ctx context.Context, keyword string, limit int) ([]response_models.ActivityResponse, error)
}

type ActivityService struct {
	activityRepo    repositories.ActivityRepository
	embeddingRepo   repositories.ActivityEmbeddingRepository
	destinationRepo repositories.DestinationRepository
	tagRepo         repositories.TagRepositoryInterface
	backend         utils.GenerationBackendInterface
	log             *logger.Logger
}

func NewActivityService(
	activityRepo repositories.ActivityRepository,
	embeddingRepo repositories.ActivityEmbeddingRepository,
	destinationRepo repositories.DestinationRepository,
	tagRepo repositories.TagRepositoryInterface,
	backend utils.GenerationBackendInterface,
	log *logger.Logger,
) ActivityServiceInterface {
	return &ActivityService{
		activityRepo:    activityRepo,
		embeddingRepo:   embeddingRepo,
		destinationRepo: destinationRepo,
		tagRepo:         tagRepo,
		backend:         backend,
		log:             log.With("service", "activity"),
	}
}

// UpsertActivity creates or updates a corpus record by title, then refreshes
// its search embedding. The embedding refresh is best-effort: the record
// still lands when the backend is down, it just stays invisible to
// similarity search until the next upsert.
func (s *ActivityService) UpsertActivity(ctx context.Context, req request_models.UpsertActivityRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Description) == "" {
		return "", utils.ErrInvalidInput
	}

	existing, err := s.activityRepo.FindByTitle(ctx, title)
	if err != nil {
		return "", utils.ErrDatabaseError
	}

	activity := &db_models.Activity{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		TimeWindow:  req.TimeWindow,
		Image:       req.Image,
		PeakHours:   req.PeakHours,
		CrowdLevel:  req.CrowdLevel,
	}

	if dest := strings.TrimSpace(req.Destination); dest != "" {
		destination, err := s.destinationRepo.GetOrCreateByName(ctx, dest)
		if err != nil {
			return "", utils.ErrDatabaseError
		}
		activity.DestinationID = destination.ID
	}

	if len(req.Tags) > 0 {
		tags, err := s.tagRepo.FindOrCreateByNames(ctx, req.Tags)
		if err != nil {
			return "", utils.ErrDatabaseError
		}
		activity.Tags = tags
	}

	if existing != nil {
		activity.BaseModel = existing.BaseModel
		if err := s.activityRepo.UpdateActivity(ctx, activity); err != nil {
			return "", utils.ErrDatabaseError
		}
	} else {
		id, err := s.activityRepo.CreateActivity(ctx, activity)
		if err != nil {
			return "", utils.ErrDatabaseError
		}
		activity.ID = id
	}

	s.refreshEmbedding(ctx, activity, req.Tags)

	return activity.ID.String(), nil
}

func (s *ActivityService) refreshEmbedding(ctx context.Context, activity *db_models.Activity, tagNames []string) {
	text := strings.Join([]string{
		activity.Title,
		activity.Description,
		activity.Category,
		activity.TimeWindow,
		strings.Join(tagNames, " "),
	}, " ")

	vec, err := s.backend.GetEmbedding(ctx, text)
	if err != nil {
		s.log.Warn("embedding refresh skipped", "activity_id", activity.ID, "error", err)
		return
	}

	embedding := db_models.ActivityEmbedding{
		ActivityID:  activity.ID.String(),
		Title:       activity.Title,
		Description: activity.Description,
		TimeWindow:  activity.TimeWindow,
		Image:       activity.Image,
		PeakHours:   activity.PeakHours,
		CrowdLevel:  activity.CrowdLevel,
		Tags:        pq.StringArray(tagNames),
		Embedding:   vec,
	}
	if err := s.embeddingRepo.UpsertEmbedding(ctx, embedding); err != nil {
		s.log.Warn("embedding not stored", "activity_id", activity.ID, "error", err)
	}
}

func (s *ActivityService) GetActivityById(ctx context.Context, id string) (*response_models.ActivityResponse, error) {
	activity, err := s.activityRepo.GetActivityById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if activity == nil {
		return nil, utils.ErrActivityNotFound
	}
	resp := toActivityResponse(*activity)
	return &resp, nil
}

func (s *ActivityService) ListActivities(ctx context.Context, page, pageSize int) ([]response_models.ActivityResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	activities, err := s.activityRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toActivityResponses(activities), nil
}

func (s *ActivityService) SearchActivities(ctx context.Context, keyword string, limit int) ([]response_models.ActivityResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, utils.ErrInvalidInput
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	activities, err := s.activityRepo.SearchByKeyword(ctx, keyword, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toActivityResponses(activities), nil
}

func toActivityResponses(activities []db_models.Activity) []response_models.ActivityResponse {
	out := make([]response_models.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResponse(a))
	}
	return out
}

func toActivityResponse(a db_models.Activity) response_models.ActivityResponse {
	return response_models.ActivityResponse{
		ID:          a.ID.String(),
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		TimeWindow:  a.TimeWindow,
		Image:       a.Image,
		PeakHours:   a.PeakHours,
		CrowdLevel:  a.CrowdLevel,
		Tags:        flattenTags(a.Tags),
	}
}
