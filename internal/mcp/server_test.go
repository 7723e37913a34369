package mcp

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fyrsmithlabs/qtask/internal/task"
	"github.com/fyrsmithlabs/qtask/internal/telemetry"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *task.Store, *telemetry.TestTelemetry) {
	t.Helper()

	tel := telemetry.NewTestTelemetry()
	store := task.NewStore(task.WithRandomizer(task.StatePickerFunc(func() task.State {
		return task.StateEntangled
	})))

	cfg := DefaultConfig()
	cfg.MeterProvider = tel.MeterProvider()
	cfg.TaskOptions = []task.Option{
		task.WithStatePicker(task.StatePickerFunc(func() task.State { return task.StateSuperposition })),
		task.WithClock(func() time.Time { return fixedNow }),
	}

	srv, err := NewServer(cfg, store)
	require.NoError(t, err)
	return srv, store, tel
}

func intPtr(v int) *int { return &v }

func TestNewServer_RequiresStore(t *testing.T) {
	_, err := NewServer(nil, nil)
	require.Error(t, err)
}

func TestNewServer_RegistersTools(t *testing.T) {
	srv, _, _ := newTestServer(t)

	assert.Equal(t, []string{
		"task_add",
		"task_complete",
		"task_list",
		"task_randomize",
		"tool_search",
		"view_analytics",
		"view_grid",
		"view_scatter",
	}, srv.Tools().ListNames())
	assert.Len(t, srv.Tools().ListByCategory(CategoryView), 3)
}

func TestServer_TaskAdd(t *testing.T) {
	srv, store, _ := newTestServer(t)
	ctx := context.Background()

	out, err := srv.taskAdd(ctx, taskAddInput{Description: "  Write report  ", Priority: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Index)
	assert.Equal(t, "Write report", out.Description)
	assert.Equal(t, 4, out.Priority)
	assert.Equal(t, "Superposition", out.State)
	assert.Equal(t, fixedNow.Format(time.RFC3339), out.CreatedAt)
	assert.False(t, out.Completed)
	assert.Equal(t, 1, store.Len())

	t.Run("default priority", func(t *testing.T) {
		out, err := srv.taskAdd(ctx, taskAddInput{Description: "Refactor"})
		require.NoError(t, err)
		assert.Equal(t, task.DefaultPriority, out.Priority)
		assert.Equal(t, 1, out.Index)
	})

	t.Run("validation errors", func(t *testing.T) {
		_, err := srv.taskAdd(ctx, taskAddInput{Description: "   "})
		assert.ErrorIs(t, err, task.ErrValidation)

		_, err = srv.taskAdd(ctx, taskAddInput{Description: "x", Priority: intPtr(6)})
		assert.ErrorIs(t, err, task.ErrValidation)
		assert.Equal(t, 2, store.Len())
	})
}

func TestServer_TaskAdd_ConcurrentIndices(t *testing.T) {
	srv, store, _ := newTestServer(t)
	const n = 32

	outs := make([]taskOutput, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := srv.taskAdd(context.Background(), taskAddInput{Description: fmt.Sprintf("task %d", i)})
			assert.NoError(t, err)
			outs[i] = out
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, n)
	for _, out := range outs {
		assert.False(t, seen[out.Index], "index %d returned twice", out.Index)
		seen[out.Index] = true

		stored, err := store.Get(out.Index)
		require.NoError(t, err)
		assert.Equal(t, out.Description, stored.Description)
	}
	assert.Equal(t, n, store.Len())
}

func TestServer_TaskComplete(t *testing.T) {
	srv, store, _ := newTestServer(t)
	ctx := context.Background()

	_, err := srv.taskAdd(ctx, taskAddInput{Description: "Write report", Priority: intPtr(4)})
	require.NoError(t, err)

	out, err := srv.taskComplete(ctx, taskCompleteInput{Index: 0})
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, "Collapsed", out.State)

	// idempotent
	_, err = srv.taskComplete(ctx, taskCompleteInput{Index: 0})
	require.NoError(t, err)

	_, err = srv.taskComplete(ctx, taskCompleteInput{Index: 5})
	assert.ErrorIs(t, err, task.ErrNotFound)
	_, err = srv.taskComplete(ctx, taskCompleteInput{Index: -1})
	assert.ErrorIs(t, err, task.ErrNotFound)
	assert.Equal(t, 1, store.Len())

	analytics, err := srv.viewAnalytics(ctx, emptyInput{})
	require.NoError(t, err)
	require.NotNil(t, analytics.CompletionRate)
	assert.InDelta(t, 100.0, *analytics.CompletionRate, 0.001)
	assert.Equal(t, "1/1", analytics.CompletionLabel)
}

func TestServer_TaskRandomize(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	for _, d := range []string{"a", "b", "c"} {
		_, err := srv.taskAdd(ctx, taskAddInput{Description: d})
		require.NoError(t, err)
	}
	_, err := srv.taskComplete(ctx, taskCompleteInput{Index: 1})
	require.NoError(t, err)

	out, err := srv.taskRandomize(ctx, emptyInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Randomized)

	list, err := srv.taskList(ctx, emptyInput{})
	require.NoError(t, err)
	require.Equal(t, 3, list.Count)
	assert.Equal(t, "Entangled", list.Tasks[0].State)
	assert.Equal(t, "Collapsed", list.Tasks[1].State)
	assert.Equal(t, "Entangled", list.Tasks[2].State)
}

func TestServer_Views(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		grid, err := srv.viewGrid(ctx, emptyInput{})
		require.NoError(t, err)
		assert.True(t, grid.Empty)
		assert.Empty(t, grid.Cards)

		scatter, err := srv.viewScatter(ctx, emptyInput{})
		require.NoError(t, err)
		assert.True(t, scatter.Empty)

		analytics, err := srv.viewAnalytics(ctx, emptyInput{})
		require.NoError(t, err)
		assert.Nil(t, analytics.CompletionRate)
		assert.Len(t, analytics.StateCounts, 3)
		assert.Equal(t, 0, analytics.StateCounts["Collapsed"])
	})

	for _, p := range []int{1, 3, 5} {
		_, err := srv.taskAdd(ctx, taskAddInput{Description: "task", Priority: intPtr(p)})
		require.NoError(t, err)
	}

	t.Run("grid", func(t *testing.T) {
		grid, err := srv.viewGrid(ctx, emptyInput{})
		require.NoError(t, err)
		require.Len(t, grid.Cards, 3)
		assert.Equal(t, 1, grid.Cards[0].DisplayIndex)
		assert.Equal(t, 2, grid.Cards[2].Position)
		assert.InDelta(t, 0.6, grid.Cards[1].PriorityFraction, 0.001)
		assert.Equal(t, "2026-03-14 09:30", grid.Cards[0].Created)
	})

	t.Run("scatter", func(t *testing.T) {
		scatter, err := srv.viewScatter(ctx, emptyInput{})
		require.NoError(t, err)
		require.Len(t, scatter.Points, 3)
		assert.Equal(t, 5, scatter.Points[2].X)
		assert.Equal(t, 2, scatter.Points[2].Y)
		assert.Equal(t, "#ff00cc", scatter.Points[0].Hex)
		assert.InDelta(t, 1.0, scatter.Points[2].Size, 0.001)
	})

	t.Run("analytics", func(t *testing.T) {
		analytics, err := srv.viewAnalytics(ctx, emptyInput{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"1": 1, "3": 1, "5": 1}, analytics.PriorityCounts)
		assert.Equal(t, 3, analytics.StateCounts["Superposition"])
		require.NotNil(t, analytics.CompletionRate)
		assert.InDelta(t, 0.0, *analytics.CompletionRate, 0.001)
	})
}

func TestServer_ToolSearch(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	out, err := srv.toolSearch(ctx, toolSearchInput{Query: "task_add"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Tools)
	assert.Equal(t, "task_add", out.Tools[0].Name)
	assert.Equal(t, 3, out.Tools[0].Score)

	out, err = srv.toolSearch(ctx, toolSearchInput{Query: "histogram", Category: "view"})
	require.NoError(t, err)
	require.Len(t, out.Tools, 1)
	assert.Equal(t, "view_analytics", out.Tools[0].Name)

	_, err = srv.toolSearch(ctx, toolSearchInput{})
	assert.Error(t, err)
}

func TestServer_RecordsToolMetrics(t *testing.T) {
	srv, _, tel := newTestServer(t)
	ctx := context.Background()

	start := time.Now()
	srv.metrics.IncrementActive(ctx, "task_complete")
	_, err := srv.taskComplete(ctx, taskCompleteInput{Index: 3})
	srv.metrics.DecrementActive(ctx, "task_complete")
	srv.metrics.RecordInvocation(ctx, "task_complete", time.Since(start), err)
	require.Error(t, err)

	tool := attribute.String("tool", "task_complete")
	assert.Equal(t, int64(1), tel.SumValue(t, "qtask.mcp.tool.invocations_total", tool))
	assert.Equal(t, int64(1), tel.SumValue(t, "qtask.mcp.tool.errors_total", tool, attribute.String("reason", "not_found")))
	assert.Equal(t, int64(0), tel.SumValue(t, "qtask.mcp.tool.active_requests", tool))
	assert.Equal(t, uint64(1), tel.HistogramCount(t, "qtask.mcp.tool.duration_seconds"))
}
