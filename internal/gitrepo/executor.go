package gitrepo

import (
	"context"
	"errors"

	"github.com/temirov/treestatus/internal/execshell"
)

// GitExecutor abstracts git command execution for resolution flows.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

func commandDetailsForPath(repositoryPath string, arguments []string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	}
}

func (resolver *RepositoryResolver) executeGit(executionContext context.Context, repositoryPath string, arguments []string) (execshell.ExecutionResult, error) {
	return resolver.gitExecutor.ExecuteGit(executionContext, commandDetailsForPath(repositoryPath, arguments))
}

// isCommandFailure reports whether the error represents a git command that ran
// and exited unsuccessfully, as opposed to a command that could not start.
func isCommandFailure(candidateError error) bool {
	var commandFailure execshell.CommandFailedError
	return errors.As(candidateError, &commandFailure)
}

func commandExitCode(candidateError error) (int, bool) {
	var commandFailure execshell.CommandFailedError
	if errors.As(candidateError, &commandFailure) {
		return commandFailure.Result.ExitCode, true
	}
	return 0, false
}
