package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *ToolRegistry {
	t.Helper()
	r := NewToolRegistry()
	for _, tool := range []*ToolMetadata{
		{Name: "task_add", Description: "Add a task", Category: CategoryTask, Keywords: []string{"create"}},
		{Name: "task_list", Description: "List tasks", Category: CategoryTask},
		{Name: "view_grid", Description: "Task cards", Category: CategoryView, Keywords: []string{"board"}},
	} {
		require.NoError(t, r.Register(tool))
	}
	return r
}

func TestToolRegistry_Register(t *testing.T) {
	r := testRegistry(t)
	assert.Equal(t, 3, r.Count())

	err := r.Register(&ToolMetadata{Name: "task_add", Description: "dup"})
	assert.Error(t, err)

	assert.Error(t, r.Register(&ToolMetadata{Description: "no name"}))
	assert.Error(t, r.Register(&ToolMetadata{Name: "no_desc"}))
	assert.Error(t, r.Register(nil))

	tool, ok := r.Get("view_grid")
	require.True(t, ok)
	assert.Equal(t, CategoryView, tool.Category)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestToolRegistry_Search(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name      string
		query     string
		wantFirst string
		wantScore int
		wantCount int
	}{
		{name: "exact name", query: "task_add", wantFirst: "task_add", wantScore: 3, wantCount: 1},
		{name: "name substring", query: "TASK", wantFirst: "task_add", wantScore: 2, wantCount: 3},
		{name: "keyword", query: "board", wantFirst: "view_grid", wantScore: 1, wantCount: 1},
		{name: "regex", query: "^view_", wantFirst: "view_grid", wantScore: 2, wantCount: 1},
		{name: "no match", query: "zzz", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := r.Search(tt.query)
			require.Len(t, results, tt.wantCount)
			if tt.wantCount == 0 {
				return
			}
			assert.Equal(t, tt.wantFirst, results[0].Tool.Name)
			assert.Equal(t, tt.wantScore, results[0].Score)
			assert.NotEmpty(t, results[0].MatchReason)
		})
	}

	assert.Nil(t, r.Search(""))
}

func TestToolRegistry_SearchByCategory(t *testing.T) {
	r := testRegistry(t)

	results := r.SearchByCategory("task", CategoryView)
	require.Len(t, results, 1)
	assert.Equal(t, "view_grid", results[0].Tool.Name)
	assert.Equal(t, 1, results[0].Score)

	assert.Empty(t, r.SearchByCategory("task", CategorySearch))
}
