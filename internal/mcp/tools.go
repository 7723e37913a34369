package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

// addTool registers fn as an MCP tool and records its metadata and metrics.
func addTool[In, Out any](s *Server, meta *ToolMetadata, fn func(context.Context, In) (Out, error)) error {
	if err := s.tools.Register(meta); err != nil {
		return err
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        meta.Name,
		Description: meta.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, meta.Name)
		out, err := fn(ctx, args)
		s.metrics.DecrementActive(ctx, meta.Name)
		s.metrics.RecordInvocation(ctx, meta.Name, time.Since(start), err)

		if err != nil {
			s.logger.Debug("tool failed", zap.String("tool", meta.Name), zap.Error(err))
			var zero Out
			return nil, zero, err
		}
		return nil, out, nil
	})
	return nil
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() error {
	registrations := []func() error{
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "task_add",
				Description: "Add a task with a description and a priority from 1 to 5; its quantum state is assigned at random",
				Category:    CategoryTask,
				Keywords:    []string{"create", "new", "entangle"},
			}, s.taskAdd)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "task_complete",
				Description: "Mark the task at a 0-based index as completed and collapse its state",
				Category:    CategoryTask,
				Keywords:    []string{"done", "finish", "collapse"},
			}, s.taskComplete)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "task_randomize",
				Description: "Re-roll the quantum state of every task that is not completed",
				Category:    CategoryTask,
				Keywords:    []string{"shuffle", "random", "state"},
			}, s.taskRandomize)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "task_list",
				Description: "List all tasks in insertion order with their index",
				Category:    CategoryTask,
				Keywords:    []string{"all", "show"},
			}, s.taskList)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "view_grid",
				Description: "Task cards with display numbers, priority fractions and formatted creation times",
				Category:    CategoryView,
				Keywords:    []string{"cards", "board"},
			}, s.viewGrid)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "view_scatter",
				Description: "3D scatter points: x priority, y position, z creation time, colored by state",
				Category:    CategoryView,
				Keywords:    []string{"plot", "visualization", "3d"},
			}, s.viewScatter)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "view_analytics",
				Description: "State and priority histograms and the completion rate",
				Category:    CategoryView,
				Keywords:    []string{"stats", "histogram", "completion"},
			}, s.viewAnalytics)
		},
		func() error {
			return addTool(s, &ToolMetadata{
				Name:        "tool_search",
				Description: "Find qtask tools by name, description or keyword",
				Category:    CategorySearch,
				Keywords:    []string{"discover", "help"},
			}, s.toolSearch)
		},
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) taskAdd(ctx context.Context, in taskAddInput) (taskOutput, error) {
	priority := task.DefaultPriority
	if in.Priority != nil {
		priority = *in.Priority
	}

	t, err := task.New(in.Description, priority, s.taskOps...)
	if err != nil {
		return taskOutput{}, err
	}
	index := s.store.Add(t)

	s.logger.Info("task added", zap.String("task.id", t.ID), zap.Int("index", index), zap.Int("priority", t.Priority))
	return toTaskOutput(index, t), nil
}

func (s *Server) taskComplete(ctx context.Context, in taskCompleteInput) (taskOutput, error) {
	t, err := s.store.Complete(in.Index)
	if err != nil {
		return taskOutput{}, err
	}

	s.logger.Info("task completed", zap.String("task.id", t.ID), zap.Int("index", in.Index))
	return toTaskOutput(in.Index, t), nil
}

func (s *Server) taskRandomize(ctx context.Context, _ emptyInput) (taskRandomizeOutput, error) {
	n := s.store.RandomizeStates()
	s.logger.Info("states randomized", zap.Int("count", n))
	return taskRandomizeOutput{Randomized: n}, nil
}

func (s *Server) taskList(ctx context.Context, _ emptyInput) (taskListOutput, error) {
	tasks := s.store.All()
	out := taskListOutput{Tasks: make([]taskOutput, len(tasks)), Count: len(tasks)}
	for i, t := range tasks {
		out.Tasks[i] = toTaskOutput(i, t)
	}
	return out, nil
}

func (s *Server) viewGrid(ctx context.Context, _ emptyInput) (gridOutput, error) {
	return toGridOutput(projection.Grid(s.store.All())), nil
}

func (s *Server) viewScatter(ctx context.Context, _ emptyInput) (scatterOutput, error) {
	return toScatterOutput(projection.Scatter(s.store.All())), nil
}

func (s *Server) viewAnalytics(ctx context.Context, _ emptyInput) (analyticsOutput, error) {
	return toAnalyticsOutput(projection.Analyze(s.store.All())), nil
}

func (s *Server) toolSearch(ctx context.Context, in toolSearchInput) (toolSearchOutput, error) {
	if in.Query == "" {
		return toolSearchOutput{}, fmt.Errorf("query is required")
	}

	var results []*SearchResult
	if in.Category != "" {
		results = s.tools.SearchByCategory(in.Query, ToolCategory(in.Category))
	} else {
		results = s.tools.Search(in.Query)
	}

	out := toolSearchOutput{Tools: make([]searchHit, len(results))}
	for i, r := range results {
		out.Tools[i] = searchHit{
			Name:        r.Tool.Name,
			Description: r.Tool.Description,
			Category:    string(r.Tool.Category),
			Score:       r.Score,
			MatchReason: r.MatchReason,
		}
	}
	return out, nil
}
