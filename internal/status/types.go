package status

import (
	"time"

	"github.com/temirov/treestatus/internal/render"
)

// ReportOptions carries the resolved inputs of a synchronization report run.
type ReportOptions struct {
	RootPath     string
	MaximumDepth int
	Online       bool
	ColorMode    render.ColorMode
	FetchTimeout time.Duration
}
