package status

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/treestatus/internal/execshell"
	"github.com/temirov/treestatus/internal/gitrepo"
	"github.com/temirov/treestatus/internal/syncstate"
	"github.com/temirov/treestatus/internal/walker"
)

const (
	noCommitsAnnotationConstant            = "no commits yet"
	fetchDegradedAnnotationSuffixConstant  = "; fetch failed, comparing against last known upstream"
	workingCopyResolvedMessageConstant     = "working copy resolved"
	logFieldRepositoryPathConstant         = "repository_path"
	logFieldSyncStateConstant              = "sync_state"
	logFieldLastCommitSubjectConstant      = "last_commit_subject"
)

// CommandExecutor describes the git execution dependency of the status report.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// snapshotClassifier adapts the repository resolver and the snapshot
// classifier to the walker. Resolution failures never escape: expected
// outcomes map to dedicated states while unexpected failures become
// resolution-error nodes carrying the failure message.
type snapshotClassifier struct {
	resolver       *gitrepo.RepositoryResolver
	resolveOptions gitrepo.ResolveOptions
	logger         *zap.Logger
}

func (classifier *snapshotClassifier) ClassifyWorkingCopy(executionContext context.Context, repositoryPath string) walker.ClassifiedWorkingCopy {
	snapshot, resolutionError := classifier.resolver.Resolve(executionContext, repositoryPath, classifier.resolveOptions)
	switch {
	case errors.Is(resolutionError, gitrepo.ErrNotARepository):
		return walker.ClassifiedWorkingCopy{State: syncstate.StateNotARepo}
	case errors.Is(resolutionError, gitrepo.ErrNoCommits):
		return walker.ClassifiedWorkingCopy{
			State:      syncstate.StateNoUpstream,
			Annotation: noCommitsAnnotationConstant,
		}
	case resolutionError != nil:
		return walker.ClassifiedWorkingCopy{
			State:      syncstate.StateResolutionError,
			Annotation: resolutionError.Error(),
		}
	}

	classification := syncstate.Classify(snapshot)
	annotation := classification.Annotation
	if snapshot.FetchDegraded {
		annotation = fmt.Sprintf("%s%s", annotation, fetchDegradedAnnotationSuffixConstant)
	}

	classifier.logger.Debug(
		workingCopyResolvedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldSyncStateConstant, string(classification.State)),
		zap.String(logFieldLastCommitSubjectConstant, snapshot.LastLogLine),
	)

	return walker.ClassifiedWorkingCopy{
		State:      classification.State,
		Branch:     snapshot.Branch,
		Annotation: annotation,
	}
}
