// Package status wires discovery, classification, and rendering into the
// synchronization report command.
package status
