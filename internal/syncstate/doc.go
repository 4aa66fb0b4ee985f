// Package syncstate classifies reference snapshots into synchronization
// states and annotations suitable for reporting.
package syncstate
