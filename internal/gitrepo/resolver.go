package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	gitRevParseSubcommandConstant      = "rev-parse"
	gitIsInsideWorkTreeFlagConstant    = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant           = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant    = "--symbolic-full-name"
	gitHeadReferenceConstant           = "HEAD"
	gitUpstreamReferenceConstant       = "@{u}"
	gitDiffSubcommandConstant          = "diff"
	gitQuietFlagConstant               = "--quiet"
	gitCachedFlagConstant              = "--cached"
	gitNoExtDiffFlagConstant           = "--no-ext-diff"
	gitMergeBaseSubcommandConstant     = "merge-base"
	gitFetchSubcommandConstant         = "fetch"
	gitFetchQuietFlagConstant          = "-q"
	gitNoTagsFlagConstant              = "--no-tags"
	gitNoRecurseSubmodulesFlagConstant = "--no-recurse-submodules"
	gitLogSubcommandConstant           = "log"
	gitLogLimitFlagConstant            = "-1"
	gitLogSubjectFormatFlagConstant    = "--format=%s"
	gitTrueOutputConstant              = "true"
	gitTerminalPromptVariableConstant  = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant  = "0"
	dirtyWorktreeExitCodeConstant      = 1
)

const (
	notARepositoryMessageConstant         = "not a git repository"
	noCommitsMessageConstant              = "repository has no commits"
	resolutionFailureTemplateConstant     = "resolving %s: %v"
	executorNotConfiguredMessageConstant  = "git executor not configured"
	defaultFetchTimeoutDurationConstant   = 10 * time.Second
	minimalAllowedFetchTimeoutConstant    = time.Millisecond
	detachedHeadBranchPlaceholderConstant = ""
)

// Sentinel errors describing expected resolution outcomes.
var (
	ErrNotARepository        = errors.New(notARepositoryMessageConstant)
	ErrNoCommits             = errors.New(noCommitsMessageConstant)
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// ResolutionFailureError reports an unexpected failure while interrogating a repository.
type ResolutionFailureError struct {
	Path  string
	Cause error
}

// Error describes the resolution failure including the repository path.
func (failureError ResolutionFailureError) Error() string {
	return fmt.Sprintf(resolutionFailureTemplateConstant, failureError.Path, failureError.Cause)
}

// Unwrap exposes the underlying cause.
func (failureError ResolutionFailureError) Unwrap() error {
	return failureError.Cause
}

// RefSnapshot captures the reference state of one working copy at resolution time.
//
// Empty strings model the absent cases: Branch is empty on a detached HEAD,
// UpstreamRef/UpstreamCommit/MergeBase are empty when no upstream tracking
// reference is configured. A snapshot is produced fresh per resolution and
// never mutated afterwards.
type RefSnapshot struct {
	Branch                string
	LocalCommit           string
	UpstreamRef           string
	UpstreamCommit        string
	MergeBase             string
	HasUncommittedChanges bool
	HasStagedChanges      bool
	LastLogLine           string
	FetchDegraded         bool
}

// HasUpstream reports whether the snapshot carries an upstream tracking reference.
func (snapshot RefSnapshot) HasUpstream() bool {
	return len(snapshot.UpstreamCommit) > 0
}

// ResolveOptions adjusts how a snapshot is taken.
type ResolveOptions struct {
	Online       bool
	FetchTimeout time.Duration
}

// RepositoryResolver interrogates working copies through a git executor.
type RepositoryResolver struct {
	gitExecutor GitExecutor
}

// NewRepositoryResolver constructs a resolver backed by the provided executor.
func NewRepositoryResolver(gitExecutor GitExecutor) (*RepositoryResolver, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryResolver{gitExecutor: gitExecutor}, nil
}

// Resolve produces a RefSnapshot for the working copy at repositoryPath.
//
// It fails with ErrNotARepository when the path carries no git metadata and
// with ErrNoCommits when HEAD cannot be resolved; a missing upstream is not an
// error and yields a snapshot without upstream fields. When options request an
// online check, a best-effort fetch bounded by the configured timeout runs
// first; fetch failures degrade to the locally recorded upstream reference and
// are surfaced through RefSnapshot.FetchDegraded.
func (resolver *RepositoryResolver) Resolve(executionContext context.Context, repositoryPath string, options ResolveOptions) (RefSnapshot, error) {
	if insideWorkTree, checkError := resolver.isInsideWorkTree(executionContext, repositoryPath); checkError != nil {
		return RefSnapshot{}, checkError
	} else if !insideWorkTree {
		return RefSnapshot{}, ErrNotARepository
	}

	localCommit, localCommitError := resolver.resolveHeadCommit(executionContext, repositoryPath)
	if localCommitError != nil {
		return RefSnapshot{}, localCommitError
	}

	branchName, branchError := resolver.resolveBranchName(executionContext, repositoryPath)
	if branchError != nil {
		return RefSnapshot{}, branchError
	}

	hasUncommittedChanges, uncommittedError := resolver.detectDifferences(executionContext, repositoryPath, false)
	if uncommittedError != nil {
		return RefSnapshot{}, uncommittedError
	}

	hasStagedChanges, stagedError := resolver.detectDifferences(executionContext, repositoryPath, true)
	if stagedError != nil {
		return RefSnapshot{}, stagedError
	}

	snapshot := RefSnapshot{
		Branch:                branchName,
		LocalCommit:           localCommit,
		HasUncommittedChanges: hasUncommittedChanges,
		HasStagedChanges:      hasStagedChanges,
		LastLogLine:           resolver.resolveLastLogLine(executionContext, repositoryPath),
	}

	upstreamRef := resolver.resolveUpstreamReference(executionContext, repositoryPath)
	if len(upstreamRef) == 0 {
		return snapshot, nil
	}
	snapshot.UpstreamRef = upstreamRef

	if options.Online {
		snapshot.FetchDegraded = !resolver.fetchUpstream(executionContext, repositoryPath, options.FetchTimeout)
	}

	upstreamCommit, upstreamCommitError := resolver.resolveRevision(executionContext, repositoryPath, gitUpstreamReferenceConstant)
	if upstreamCommitError != nil {
		return snapshot, nil
	}
	snapshot.UpstreamCommit = upstreamCommit

	mergeBase, mergeBaseError := resolver.resolveMergeBase(executionContext, repositoryPath)
	if mergeBaseError == nil {
		snapshot.MergeBase = mergeBase
	}

	return snapshot, nil
}

func (resolver *RepositoryResolver) isInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error) {
	arguments := []string{gitRevParseSubcommandConstant, gitIsInsideWorkTreeFlagConstant}
	executionResult, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError != nil {
		if isCommandFailure(executionError) {
			return false, nil
		}
		return false, ResolutionFailureError{Path: repositoryPath, Cause: executionError}
	}
	return strings.TrimSpace(executionResult.StandardOutput) == gitTrueOutputConstant, nil
}

func (resolver *RepositoryResolver) resolveHeadCommit(executionContext context.Context, repositoryPath string) (string, error) {
	headCommit, resolutionError := resolver.resolveRevision(executionContext, repositoryPath, gitHeadReferenceConstant)
	if resolutionError != nil {
		if isCommandFailure(resolutionError) {
			return "", ErrNoCommits
		}
		return "", ResolutionFailureError{Path: repositoryPath, Cause: resolutionError}
	}
	return headCommit, nil
}

func (resolver *RepositoryResolver) resolveBranchName(executionContext context.Context, repositoryPath string) (string, error) {
	arguments := []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant}
	executionResult, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError != nil {
		if isCommandFailure(executionError) {
			return detachedHeadBranchPlaceholderConstant, nil
		}
		return "", ResolutionFailureError{Path: repositoryPath, Cause: executionError}
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if strings.EqualFold(branchName, gitHeadReferenceConstant) {
		return detachedHeadBranchPlaceholderConstant, nil
	}
	return branchName, nil
}

// detectDifferences interprets the diff exit code: zero means no differences,
// one means the compared references differ, anything else is a failure.
func (resolver *RepositoryResolver) detectDifferences(executionContext context.Context, repositoryPath string, compareIndexToHead bool) (bool, error) {
	arguments := []string{gitDiffSubcommandConstant, gitQuietFlagConstant, gitNoExtDiffFlagConstant}
	if compareIndexToHead {
		arguments = append(arguments, gitCachedFlagConstant)
	}

	_, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError == nil {
		return false, nil
	}

	if exitCode, hasExitCode := commandExitCode(executionError); hasExitCode && exitCode == dirtyWorktreeExitCodeConstant {
		return true, nil
	}
	return false, ResolutionFailureError{Path: repositoryPath, Cause: executionError}
}

func (resolver *RepositoryResolver) resolveUpstreamReference(executionContext context.Context, repositoryPath string) string {
	arguments := []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitSymbolicFullNameFlagConstant, gitUpstreamReferenceConstant}
	executionResult, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError != nil {
		return ""
	}
	return strings.TrimSpace(executionResult.StandardOutput)
}

func (resolver *RepositoryResolver) resolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	arguments := []string{gitRevParseSubcommandConstant, reference}
	executionResult, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (resolver *RepositoryResolver) resolveMergeBase(executionContext context.Context, repositoryPath string) (string, error) {
	arguments := []string{gitMergeBaseSubcommandConstant, gitHeadReferenceConstant, gitUpstreamReferenceConstant}
	executionResult, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (resolver *RepositoryResolver) resolveLastLogLine(executionContext context.Context, repositoryPath string) string {
	arguments := []string{gitLogSubcommandConstant, gitLogLimitFlagConstant, gitLogSubjectFormatFlagConstant}
	executionResult, executionError := resolver.executeGit(executionContext, repositoryPath, arguments)
	if executionError != nil {
		return ""
	}
	return strings.TrimSpace(executionResult.StandardOutput)
}

// fetchUpstream performs a best-effort fetch and reports whether it succeeded.
func (resolver *RepositoryResolver) fetchUpstream(executionContext context.Context, repositoryPath string, fetchTimeout time.Duration) bool {
	if fetchTimeout < minimalAllowedFetchTimeoutConstant {
		fetchTimeout = defaultFetchTimeoutDurationConstant
	}

	fetchContext, cancelFetch := context.WithTimeout(executionContext, fetchTimeout)
	defer cancelFetch()

	fetchDetails := commandDetailsForPath(repositoryPath, []string{
		gitFetchSubcommandConstant,
		gitFetchQuietFlagConstant,
		gitNoTagsFlagConstant,
		gitNoRecurseSubmodulesFlagConstant,
	})
	fetchDetails.EnvironmentVariables = map[string]string{
		gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant,
	}

	_, fetchError := resolver.gitExecutor.ExecuteGit(fetchContext, fetchDetails)
	return fetchError == nil
}
