package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/treestatus/internal/gitrepo"
	"github.com/temirov/treestatus/internal/render"
	"github.com/temirov/treestatus/internal/utils"
	"github.com/temirov/treestatus/internal/walker"
)

const (
	classificationLimitConstant            = 4
	loggerMissingMessageConstant           = "logger not configured"
	executorMissingMessageConstant         = "command executor not configured"
	outputWriterMissingMessageConstant     = "output writer not configured"
	rootNotReadableErrorTemplateConstant   = "root path %s is not readable: %w"
	rootNotADirectoryErrorTemplateConstant = "root path %s is not a directory"
	reportWriteErrorTemplateConstant       = "unable to write report: %w"
	reportCompletedMessageConstant         = "synchronization report completed"
	logFieldRootPathConstant               = "root_path"
	logFieldMaximumDepthConstant           = "maximum_depth"
	logFieldOnlineConstant                 = "online"
)

// Service construction errors.
var (
	ErrLoggerNotConfigured       = errors.New(loggerMissingMessageConstant)
	ErrExecutorNotConfigured     = errors.New(executorMissingMessageConstant)
	ErrOutputWriterNotConfigured = errors.New(outputWriterMissingMessageConstant)
)

// Service orchestrates discovery, classification, and rendering of one report run.
type Service struct {
	logger       *zap.Logger
	gitExecutor  CommandExecutor
	outputWriter io.Writer
}

// NewService assembles a report service from its dependencies.
func NewService(logger *zap.Logger, gitExecutor CommandExecutor, outputWriter io.Writer) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if outputWriter == nil {
		return nil, ErrOutputWriterNotConfigured
	}

	return &Service{
		logger:       logger,
		gitExecutor:  gitExecutor,
		outputWriter: outputWriter,
	}, nil
}

// Report walks the tree rooted at the configured path and writes the rendered
// report. Per-node synchronization states never fail the run; only an
// unreadable root or an invalid option surfaces as an error.
func (service *Service) Report(executionContext context.Context, options ReportOptions) error {
	rootInfo, statError := os.Stat(options.RootPath)
	if statError != nil {
		return fmt.Errorf(rootNotReadableErrorTemplateConstant, options.RootPath, statError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf(rootNotADirectoryErrorTemplateConstant, options.RootPath)
	}

	repositoryResolver, resolverError := gitrepo.NewRepositoryResolver(service.gitExecutor)
	if resolverError != nil {
		return resolverError
	}

	nodeClassifier := &snapshotClassifier{
		resolver: repositoryResolver,
		resolveOptions: gitrepo.ResolveOptions{
			Online:       options.Online,
			FetchTimeout: options.FetchTimeout,
		},
		logger: service.logger,
	}

	treeWalker, walkerError := walker.NewTreeWalker(nodeClassifier, walker.Options{
		MaximumDepth:        options.MaximumDepth,
		ClassificationLimit: classificationLimitConstant,
	})
	if walkerError != nil {
		return walkerError
	}

	reportTree, walkError := treeWalker.Walk(executionContext, options.RootPath)
	if walkError != nil {
		return fmt.Errorf(rootNotReadableErrorTemplateConstant, options.RootPath, walkError)
	}

	palette := render.NewPalette(service.outputWriter, options.ColorMode)
	renderedReport := render.NewTreeRenderer(palette).Render(reportTree)

	flushingWriter := utils.NewFlushingWriter(service.outputWriter)
	if _, writeError := io.WriteString(flushingWriter, renderedReport); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}

	service.logger.Debug(
		reportCompletedMessageConstant,
		zap.String(logFieldRootPathConstant, options.RootPath),
		zap.Int(logFieldMaximumDepthConstant, options.MaximumDepth),
		zap.Bool(logFieldOnlineConstant, options.Online),
	)

	return nil
}
