// Package projection derives display data from a task snapshot.
//
// Every function here is pure: it reads the slice it is given and never
// touches a store. Shells call task.Store.All and hand the result to Grid,
// Scatter or Analyze.
package projection
