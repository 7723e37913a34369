// Package mcp exposes one task session as Model Context Protocol tools.
//
// The server owns a single task.Store and registers tools for the session
// intents (task_add, task_complete, task_randomize, task_list) and the three
// views (view_grid, view_scatter, view_analytics). tool_search finds tools by
// name, description or keyword.
//
// Tool errors are returned to the client as error results carrying the
// validation or not-found message. Every invocation is recorded by Metrics.
package mcp
