package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"disasterprep/models"
	"disasterprep/query"
	"disasterprep/repository"
)

// AboutPage is everything the About page shows.
type AboutPage struct {
	Leadership   []*models.LeadershipMember `json:"leadership"`
	Timeline     []*models.TimelineEvent    `json:"timeline"` // Newest first
	Achievements []*models.Achievement      `json:"achievements"`
}

// AboutService loads the About page.
type AboutService interface {
	Load(ctx context.Context) (*AboutPage, error)
}

type aboutService struct {
	repo repository.ContentRepository
	log  *zap.Logger
}

// NewAboutService creates a new instance of AboutService.
func NewAboutService(repo repository.ContentRepository) AboutService {
	return &aboutService{repo: repo, log: zap.L().Named("AboutService")}
}

// Load fetches the three collections concurrently. Any failure fails the page.
func (s *aboutService) Load(ctx context.Context) (*AboutPage, error) {
	page := &AboutPage{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := repository.List[*models.LeadershipMember](gctx, s.repo, models.CollectionLeadershipTeam)
		page.Leadership = items
		return err
	})
	g.Go(func() error {
		items, err := repository.List[*models.TimelineEvent](gctx, s.repo, models.CollectionOrganizationTimeline)
		page.Timeline = query.SortNewestFirst(items, query.DateField[*models.TimelineEvent]("eventDate"))
		return err
	})
	g.Go(func() error {
		items, err := repository.List[*models.Achievement](gctx, s.repo, models.CollectionAchievements)
		page.Achievements = items
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load About page", zap.Error(err))
		return nil, err
	}
	s.log.Debug("Loaded About page",
		zap.Int("leadership", len(page.Leadership)),
		zap.Int("timeline", len(page.Timeline)),
		zap.Int("achievements", len(page.Achievements)))
	return page, nil
}
