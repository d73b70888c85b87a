package pmapi

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/models"
)

const (
	dashboardProjectStatsPath  = "/dashboard/projects/stats"
	dashboardEmployeeStatsPath = "/dashboard/employees/stats"
	dashboardOverviewPath      = "/dashboard/overview"
	dashboardActivitiesPath    = "/dashboard/activities"
	dashboardHealthPath        = "/dashboard/system/health"
)

type DashboardService struct {
	client Requester
	log    zerolog.Logger
}

func NewDashboardService(client Requester, log zerolog.Logger) *DashboardService {
	return &DashboardService{client: client, log: log}
}

func (s *DashboardService) ProjectStats(ctx context.Context) (models.ProjectStats, error) {
	payload, err := get[models.ProjectStatsPayload](ctx, s.client, dashboardProjectStatsPath)
	if err != nil {
		return models.ProjectStats{}, err
	}
	return payload.Stats(), nil
}

func (s *DashboardService) EmployeeStats(ctx context.Context) (models.EmployeeStats, error) {
	payload, err := get[models.EmployeeStatsPayload](ctx, s.client, dashboardEmployeeStatsPath)
	if err != nil {
		return models.EmployeeStats{}, err
	}
	return payload.Stats(), nil
}

func (s *DashboardService) ProjectBreakdown(ctx context.Context) (models.ProjectBreakdown, error) {
	payload, err := get[models.ProjectStatsPayload](ctx, s.client, dashboardProjectStatsPath)
	if err != nil {
		return models.ProjectBreakdown{}, err
	}
	return payload.Breakdown(), nil
}

// Overview reads the combined endpoint. Backends without it answer 404, in
// which case the overview is assembled from the two stats endpoints.
func (s *DashboardService) Overview(ctx context.Context) (models.Overview, error) {
	payload, err := get[models.OverviewPayload](ctx, s.client, dashboardOverviewPath)
	if err == nil {
		return overviewFrom(payload), nil
	}
	if !apiclient.IsStatus(err, http.StatusNotFound) {
		return models.Overview{}, err
	}

	s.log.Debug().Msg("overview endpoint missing, composing from stats")

	var projects models.ProjectStatsPayload
	var employees models.EmployeeStatsPayload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = get[models.ProjectStatsPayload](gctx, s.client, dashboardProjectStatsPath)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = get[models.EmployeeStatsPayload](gctx, s.client, dashboardEmployeeStatsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Overview{}, err
	}

	return overviewFrom(models.OverviewPayload{ProjectStats: &projects, EmployeeStats: &employees}), nil
}

func overviewFrom(payload models.OverviewPayload) models.Overview {
	var projects models.ProjectStatsPayload
	if payload.ProjectStats != nil {
		projects = *payload.ProjectStats
	}
	var employees models.EmployeeStatsPayload
	if payload.EmployeeStats != nil {
		employees = *payload.EmployeeStats
	}
	return models.Overview{
		ProjectStats:     projects.Stats(),
		EmployeeStats:    employees.Stats(),
		ProjectBreakdown: projects.Breakdown(),
	}
}

func (s *DashboardService) Activities(ctx context.Context) ([]models.Activity, error) {
	activities, err := get[[]models.Activity](ctx, s.client, dashboardActivitiesPath)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

func (s *DashboardService) SystemHealth(ctx context.Context) (models.SystemHealth, error) {
	return get[models.SystemHealth](ctx, s.client, dashboardHealthPath)
}
