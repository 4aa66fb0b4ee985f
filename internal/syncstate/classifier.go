package syncstate

import (
	"fmt"

	"github.com/temirov/treestatus/internal/gitrepo"
)

// SyncState identifies the synchronization category of a working copy.
type SyncState string

// Synchronization categories ordered from clean to most divergent.
// StateClean is the zero value a node carries before classification runs;
// Classify never emits it because dirtiness checks resolve every snapshot
// to one of the other categories.
const (
	StateClean              SyncState = ""
	StateUpToDate           SyncState = "up-to-date"
	StateNeedsPull          SyncState = "needs-pull"
	StateNeedsPush          SyncState = "needs-push"
	StateDiverged           SyncState = "diverged"
	StateUncommittedChanges SyncState = "uncommitted-changes"
	StateStagedChanges      SyncState = "staged-changes"
	StateNoUpstream         SyncState = "no-upstream"
	StateNotARepo           SyncState = "not-a-repo"
	StateResolutionError    SyncState = "resolution-error"
)

const (
	uncommittedChangesAnnotationConstant = "uncommitted changes in working tree"
	stagedChangesAnnotationConstant      = "staged changes ready to commit"
	noUpstreamAnnotationConstant         = "no upstream tracking branch"
	upToDateAnnotationTemplateConstant   = "up to date with %s"
	needsPullAnnotationTemplateConstant  = "behind %s, fast-forward available"
	needsPushAnnotationTemplateConstant  = "ahead of %s, push required"
	divergedAnnotationTemplateConstant   = "diverged from %s"
)

// Classification pairs a synchronization state with its human readable annotation.
type Classification struct {
	State      SyncState
	Annotation string
}

// Classify derives the synchronization state of a snapshot.
//
// Worktree dirtiness dominates every upstream comparison: a repository with
// uncommitted or staged changes is reported as such regardless of how its
// branch relates to the upstream. Upstream comparisons apply only when an
// upstream commit was resolved. The function is pure, classifying the same
// snapshot twice yields the same classification.
func Classify(snapshot gitrepo.RefSnapshot) Classification {
	if snapshot.HasUncommittedChanges {
		return Classification{State: StateUncommittedChanges, Annotation: uncommittedChangesAnnotationConstant}
	}
	if snapshot.HasStagedChanges {
		return Classification{State: StateStagedChanges, Annotation: stagedChangesAnnotationConstant}
	}
	if !snapshot.HasUpstream() {
		return Classification{State: StateNoUpstream, Annotation: noUpstreamAnnotationConstant}
	}

	switch {
	case snapshot.LocalCommit == snapshot.UpstreamCommit:
		return Classification{State: StateUpToDate, Annotation: fmt.Sprintf(upToDateAnnotationTemplateConstant, snapshot.UpstreamRef)}
	case snapshot.LocalCommit == snapshot.MergeBase:
		return Classification{State: StateNeedsPull, Annotation: fmt.Sprintf(needsPullAnnotationTemplateConstant, snapshot.UpstreamRef)}
	case snapshot.UpstreamCommit == snapshot.MergeBase:
		return Classification{State: StateNeedsPush, Annotation: fmt.Sprintf(needsPushAnnotationTemplateConstant, snapshot.UpstreamRef)}
	default:
		return Classification{State: StateDiverged, Annotation: fmt.Sprintf(divergedAnnotationTemplateConstant, snapshot.UpstreamRef)}
	}
}
