// Package gitrepo interrogates git working copies and produces immutable
// reference snapshots describing their local and upstream state.
package gitrepo
