package walker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/treestatus/internal/syncstate"
)

const (
	gitMetadataEntryNameConstant       = ".git"
	hiddenEntryPrefixConstant          = "."
	defaultMaximumDepthConstant        = 2
	defaultClassificationLimitConstant = 4
	classifierMissingMessageConstant   = "node classifier not configured"
	canceledAnnotationConstant         = "discovery canceled before classification"
)

// ErrClassifierNotConfigured reports walker construction without a classifier.
var ErrClassifierNotConfigured = errors.New(classifierMissingMessageConstant)

// ClassifiedWorkingCopy carries the classification outcome for one repository path.
type ClassifiedWorkingCopy struct {
	State      syncstate.SyncState
	Branch     string
	Annotation string
}

// NodeClassifier classifies a repository path into a reportable outcome.
// Implementations absorb their own failures and express them through the state.
type NodeClassifier interface {
	ClassifyWorkingCopy(executionContext context.Context, repositoryPath string) ClassifiedWorkingCopy
}

// ReportNode is one entry of the discovery report tree.
//
// Depth counts nesting within the report tree, not filesystem levels: a
// repository found beneath plain intermediate directories attaches to its
// nearest enclosing repository node with that node's depth plus one.
type ReportNode struct {
	Path       string
	Depth      int
	State      syncstate.SyncState
	Branch     string
	Annotation string
	Children   []ReportNode
}

// Options bounds the discovery walk.
type Options struct {
	MaximumDepth        int
	ClassificationLimit int
}

// TreeWalker discovers nested working copies beneath a root directory.
type TreeWalker struct {
	nodeClassifier      NodeClassifier
	maximumDepth        int
	classificationLimit int
}

// NewTreeWalker constructs a walker with the provided classifier and bounds.
// Non-positive bounds fall back to the defaults.
func NewTreeWalker(nodeClassifier NodeClassifier, options Options) (*TreeWalker, error) {
	if nodeClassifier == nil {
		return nil, ErrClassifierNotConfigured
	}

	maximumDepth := options.MaximumDepth
	if maximumDepth <= 0 {
		maximumDepth = defaultMaximumDepthConstant
	}

	classificationLimit := options.ClassificationLimit
	if classificationLimit <= 0 {
		classificationLimit = defaultClassificationLimitConstant
	}

	return &TreeWalker{
		nodeClassifier:      nodeClassifier,
		maximumDepth:        maximumDepth,
		classificationLimit: classificationLimit,
	}, nil
}

// Walk classifies the root directory and discovers repositories beneath it.
//
// The root itself is always classified, even when it carries no git metadata.
// Child directories qualify as repositories only when they contain a .git
// entry; plain directories are traversed transparently so that a nested
// repository attaches to its nearest enclosing repository node. Directory
// entries are visited in the lexical order returned by os.ReadDir, and
// dot-prefixed directories are skipped. Siblings are classified concurrently
// within the configured limit while the report order stays deterministic.
func (treeWalker *TreeWalker) Walk(executionContext context.Context, rootPath string) (ReportNode, error) {
	rootClassification := treeWalker.classifyNode(executionContext, rootPath)
	rootNode := ReportNode{
		Path:       rootPath,
		State:      rootClassification.State,
		Branch:     rootClassification.Branch,
		Annotation: rootClassification.Annotation,
	}

	childDirectories, enumerationError := enumerateChildDirectories(rootPath)
	if enumerationError != nil {
		return rootNode, enumerationError
	}

	rootNode.Children = treeWalker.collectRepositories(executionContext, childDirectories, 1, 1)
	return rootNode, nil
}

// collectRepositories turns the candidate directories at one filesystem level
// into report nodes, recursing into both repositories and plain directories
// while the depth bound allows.
func (treeWalker *TreeWalker) collectRepositories(executionContext context.Context, candidateDirectories []string, filesystemDepth int, reportDepth int) []ReportNode {
	if filesystemDepth > treeWalker.maximumDepth || len(candidateDirectories) == 0 {
		return nil
	}

	repositoryFlags := make([]bool, len(candidateDirectories))
	classifications := make([]ClassifiedWorkingCopy, len(candidateDirectories))

	classificationGroup := errgroup.Group{}
	classificationGroup.SetLimit(treeWalker.classificationLimit)
	for candidateIndex, candidatePath := range candidateDirectories {
		if !containsGitMetadata(candidatePath) {
			continue
		}
		repositoryFlags[candidateIndex] = true

		resultIndex := candidateIndex
		resultPath := candidatePath
		classificationGroup.Go(func() error {
			classifications[resultIndex] = treeWalker.classifyNode(executionContext, resultPath)
			return nil
		})
	}
	_ = classificationGroup.Wait()

	collectedNodes := []ReportNode{}
	for candidateIndex, candidatePath := range candidateDirectories {
		childDirectories, enumerationError := enumerateChildDirectories(candidatePath)
		if enumerationError != nil {
			childDirectories = nil
		}

		if !repositoryFlags[candidateIndex] {
			collectedNodes = append(collectedNodes, treeWalker.collectRepositories(executionContext, childDirectories, filesystemDepth+1, reportDepth)...)
			continue
		}

		classification := classifications[candidateIndex]
		repositoryNode := ReportNode{
			Path:       candidatePath,
			Depth:      reportDepth,
			State:      classification.State,
			Branch:     classification.Branch,
			Annotation: classification.Annotation,
			Children:   treeWalker.collectRepositories(executionContext, childDirectories, filesystemDepth+1, reportDepth+1),
		}
		collectedNodes = append(collectedNodes, repositoryNode)
	}
	return collectedNodes
}

func (treeWalker *TreeWalker) classifyNode(executionContext context.Context, repositoryPath string) ClassifiedWorkingCopy {
	if contextError := executionContext.Err(); contextError != nil {
		return ClassifiedWorkingCopy{State: syncstate.StateResolutionError, Annotation: canceledAnnotationConstant}
	}
	return treeWalker.nodeClassifier.ClassifyWorkingCopy(executionContext, repositoryPath)
}

func enumerateChildDirectories(directoryPath string) ([]string, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, readError
	}

	childDirectories := []string{}
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		if strings.HasPrefix(directoryEntry.Name(), hiddenEntryPrefixConstant) {
			continue
		}
		childDirectories = append(childDirectories, filepath.Join(directoryPath, directoryEntry.Name()))
	}
	return childDirectories, nil
}

func containsGitMetadata(directoryPath string) bool {
	_, statError := os.Stat(filepath.Join(directoryPath, gitMetadataEntryNameConstant))
	return statError == nil
}
