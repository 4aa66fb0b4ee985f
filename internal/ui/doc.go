// Package ui adapts command lifecycle events to user-facing log output.
package ui
