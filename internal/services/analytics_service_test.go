package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Sales: domain.RawTable{
			Name:    "Sales",
			Columns: []string{"Date", "ProductKey", "Sales", "Costs", "CustomerKey"},
			Rows: [][]any{
				{"2023-01-01", 1, 100.0, 60.0, 1},
				{"2023-01-01", 2, 200.0, 120.0, 2},
				{"2023-01-02", 3, 300.0, 180.0, 1},
				{"2023-01-02", 4, 25.0, 10.0, 3},
				{"2023-02-01", 1, 150.0, 90.0, 2},
			},
		},
		Products: domain.RawTable{
			Name:    "Products",
			Columns: []string{"ProductKey", "Category", "SubCategory", "Color"},
			Rows: [][]any{
				{1, "Bikes", "Road Bikes", "Red"},
				{2, "Bikes", "Mountain Bikes", "Blue"},
				{3, "Bikes", "Touring Bikes", "Black"},
				{4, "Clothing", "Jerseys", "Red"},
			},
		},
	}
}

var testSettings = DashboardSettings{
	ColorOrder:    []string{"Red", "Silver", "Black", "Yellow", "Blue"},
	BikeCategory:  "Bikes",
	SubCategories: []string{"Mountain Bikes", "Road Bikes", "Touring Bikes"},
}

func newTestService(t *testing.T, loads *atomic.Int32) *AnalyticsService {
	t.Helper()
	source := SnapshotSourceFunc(func(ctx context.Context) (domain.Snapshot, error) {
		if loads != nil {
			loads.Add(1)
		}
		return testSnapshot(), nil
	})
	pipeline := dataprocessing.NewPipeline(testLogger(), dataprocessing.DefaultOptions())
	return NewAnalyticsService(source, pipeline, testSettings, testLogger())
}

func TestAnalyticsService_RecomputesPerCall(t *testing.T) {
	var loads atomic.Int32
	svc := newTestService(t, &loads)

	first, err := svc.Compute(context.Background())
	require.NoError(t, err)
	second, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), loads.Load())
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.DailySeries, second.DailySeries)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	svc := newTestService(t, nil)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Len(t, d.Daily, 3)
	assert.Len(t, d.TrendValues, 3)
	require.NotNil(t, d.Trend)
	assert.Equal(t, 775.0, d.Summary.Total)
	require.Len(t, d.Monthly, 2)
	assert.Equal(t, 625.0, d.Monthly[0].Sales)

	// Clothing is red but not a bike
	red, ok := d.Colors.Get("Red")
	require.True(t, ok)
	assert.Equal(t, []float64{100, 150}, red)
	var order []string
	for _, g := range d.Colors.Groups {
		order = append(order, g.Category)
	}
	assert.Equal(t, []string{"Red", "Black", "Blue"}, order)

	assert.Equal(t, 4, d.SubCategories.Count())
	assert.Empty(t, d.Warnings)
}

func TestAnalyticsService_ColorDistribution(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		allowed  []string
		category string
		want     map[string][]float64
	}{
		{"defaults", nil, "", map[string][]float64{"Red": {100, 150}, "Blue": {200}, "Black": {300}}},
		{"explicit list", []string{"Blue"}, "", map[string][]float64{"Blue": {200}}},
		{"other category", []string{"Red"}, "Clothing", map[string][]float64{"Red": {25}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := svc.ColorDistribution(ctx, tt.allowed, tt.category)
			require.NoError(t, err)
			assert.Len(t, group.Groups, len(tt.want))
			for color, values := range tt.want {
				got, ok := group.Get(color)
				require.True(t, ok, color)
				assert.Equal(t, values, got)
			}
		})
	}
}

func TestAnalyticsService_SubcategoryDistribution(t *testing.T) {
	svc := newTestService(t, nil)

	view, err := svc.SubcategoryDistribution(context.Background(), []string{"Road Bikes"})
	require.NoError(t, err)
	require.Len(t, view.Records, 2)
	for _, r := range view.Records {
		assert.Equal(t, "Road Bikes", r.SubCategory)
	}
	values, ok := view.Groups.Get("Road Bikes")
	require.True(t, ok)
	assert.Equal(t, []float64{100, 150}, values)

	view, err = svc.SubcategoryDistribution(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, testSettings.SubCategories, view.Allowed)
	assert.Len(t, view.Records, 4)
}

func TestAnalyticsService_Trend(t *testing.T) {
	svc := newTestService(t, nil)

	view, err := svc.Trend(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view.Line)
	assert.Len(t, view.Values, len(view.Daily))
	assert.InDelta(t, view.Line.Intercept, view.Values[0], 1e-9)
}

func TestAnalyticsService_Errors(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		svc := NewAnalyticsService(nil, nil, testSettings, nil)
		_, err := svc.Compute(context.Background())
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("load failure", func(t *testing.T) {
		loadErr := apperrors.NewParsingError("bad workbook", nil)
		svc := NewAnalyticsService(SnapshotSourceFunc(func(context.Context) (domain.Snapshot, error) {
			return domain.Snapshot{}, loadErr
		}), nil, testSettings, testLogger())
		_, err := svc.Dashboard(context.Background())
		assert.ErrorIs(t, err, loadErr)
	})

	t.Run("schema error", func(t *testing.T) {
		svc := NewAnalyticsService(SnapshotSourceFunc(func(context.Context) (domain.Snapshot, error) {
			snap := testSnapshot()
			snap.Sales.Columns = []string{"When", "ProductKey", "Sales", "Costs", "CustomerKey"}
			return snap, nil
		}), nil, testSettings, testLogger())
		_, err := svc.Trend(context.Background())
		assert.True(t, errors.Is(err, apperrors.ErrSchema))
	})
}

func TestAnalyticsService_ConcurrentCallers(t *testing.T) {
	svc := newTestService(t, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Dashboard(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestAnalyticsService_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var loads atomic.Int32
	svc := NewAnalyticsService(SnapshotSourceFunc(func(ctx context.Context) (domain.Snapshot, error) {
		if loads.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
		case <-ctx.Done():
			return domain.Snapshot{}, ctx.Err()
		}
		return testSnapshot(), nil
	}), nil, testSettings, testLogger())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Compute(firstCtx)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.Compute(context.Background())
		secondErr <- err
	}()

	// Let the second caller join the in-flight computation.
	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case err := <-secondErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	assert.LessOrEqual(t, loads.Load(), int32(2))
}
