package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"voyago/pkg/utils"
)

type fakeDashboardRepo struct {
	accounts    int64
	activities  int64
	itineraries int64
	err         error
}

func (f *fakeDashboardRepo) CountTotalAccounts(ctx context.Context) (int64, error) {
	return f.accounts, f.err
}

func (f *fakeDashboardRepo) CountTotalActivities(ctx context.Context) (int64, error) {
	return f.activities, f.err
}

func (f *fakeDashboardRepo) CountTotalItineraries(ctx context.Context) (int64, error) {
	return f.itineraries, f.err
}

func TestBuildStatsJoinsCountsAndCounters(t *testing.T) {
	t.Parallel()

	metrics := NewGenerationMetrics()
	metrics.RecordAttempt()
	metrics.RecordAttempt()
	metrics.RecordWin("structured")
	metrics.RecordFallback()

	svc := NewDashboardService(&fakeDashboardRepo{accounts: 12, activities: 140, itineraries: 9}, metrics)
	stats, err := svc.BuildStats(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(12), stats.TotalAccounts)
	require.Equal(t, int64(140), stats.TotalActivities)
	require.Equal(t, int64(9), stats.TotalItineraries)
	require.Equal(t, int64(2), stats.Generation.Attempts)
	require.Equal(t, int64(1), stats.Generation.Fallbacks)
	require.Equal(t, int64(1), stats.Generation.WinsByStrategy["structured"])
}

func TestBuildStatsMapsRepositoryFailure(t *testing.T) {
	t.Parallel()

	svc := NewDashboardService(&fakeDashboardRepo{err: errors.New("connection refused")}, NewGenerationMetrics())
	_, err := svc.BuildStats(context.Background())

	require.ErrorIs(t, err, utils.ErrDatabaseError)
}
