// Package dashboard is the terminal front end for a task session.
//
// It is a bubbletea program with a task form, a priority slider and three
// tabs (grid, quantum visualization, analytics) rendered from the session's
// task.Store through the projection package. Mutations happen synchronously
// inside Update; the only background work is the tick that clears the status
// line.
package dashboard
