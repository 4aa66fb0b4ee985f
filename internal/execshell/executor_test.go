package execshell_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/treestatus/internal/execshell"
)

const (
	workingDirectoryConstant    = "/workspace/project"
	subtestNameTemplateConstant = "%d_%s"
)

type recordingCommandRunner struct {
	recordedCommands []execshell.ShellCommand
	result           execshell.ExecutionResult
	failure          error
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	if runner.failure != nil {
		return execshell.ExecutionResult{}, runner.failure
	}
	return runner.result, nil
}

type recordingEventObserver struct {
	startedCommands   []execshell.ShellCommand
	completedResults  []execshell.ExecutionResult
	executionFailures []error
}

func (observerInstance *recordingEventObserver) CommandStarted(command execshell.ShellCommand) {
	observerInstance.startedCommands = append(observerInstance.startedCommands, command)
}

func (observerInstance *recordingEventObserver) CommandCompleted(_ execshell.ShellCommand, result execshell.ExecutionResult) {
	observerInstance.completedResults = append(observerInstance.completedResults, result)
}

func (observerInstance *recordingEventObserver) CommandExecutionFailed(_ execshell.ShellCommand, failure error) {
	observerInstance.executionFailures = append(observerInstance.executionFailures, failure)
}

func TestNewShellExecutorValidation(testInstance *testing.T) {
	const (
		missingLoggerCaseNameConstant = "missing_logger"
		missingRunnerCaseNameConstant = "missing_runner"
	)

	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectedError error
	}{
		{
			name:          missingLoggerCaseNameConstant,
			runner:        &recordingCommandRunner{},
			expectedError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:          missingRunnerCaseNameConstant,
			logger:        zap.NewNop(),
			expectedError: execshell.ErrCommandRunnerNotConfigured,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(subtestNameTemplateConstant, testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			executorInstance, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			require.ErrorIs(subtestInstance, creationError, testCase.expectedError)
			require.Nil(subtestInstance, executorInstance)
		})
	}
}

func TestExecuteGitSuccessLogsAndNotifies(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{StandardOutput: "true"}}
	eventObserver := &recordingEventObserver{}

	executorInstance, creationError := execshell.NewShellExecutor(zap.New(observedCore), commandRunner, eventObserver)
	require.NoError(testInstance, creationError)

	executionResult, executionError := executorInstance.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        []string{"rev-parse", "--is-inside-work-tree"},
		WorkingDirectory: workingDirectoryConstant,
	})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "true", executionResult.StandardOutput)

	require.Len(testInstance, commandRunner.recordedCommands, 1)
	require.Equal(testInstance, execshell.CommandGit, commandRunner.recordedCommands[0].Name)
	require.Len(testInstance, observedLogs.All(), 2)
	require.Len(testInstance, eventObserver.startedCommands, 1)
	require.Len(testInstance, eventObserver.completedResults, 1)
}

func TestExecuteGitBroadcastsToEveryObserver(testInstance *testing.T) {
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{StandardOutput: "true"}}
	firstObserver := &recordingEventObserver{}
	secondObserver := &recordingEventObserver{}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, firstObserver, nil, secondObserver)
	require.NoError(testInstance, creationError)

	_, executionError := executorInstance.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        []string{"rev-parse", "--is-inside-work-tree"},
		WorkingDirectory: workingDirectoryConstant,
	})
	require.NoError(testInstance, executionError)

	require.Len(testInstance, firstObserver.startedCommands, 1)
	require.Len(testInstance, secondObserver.startedCommands, 1)
	require.Len(testInstance, firstObserver.completedResults, 1)
	require.Len(testInstance, secondObserver.completedResults, 1)
}

func TestExecuteGitNonZeroExitReturnsCommandFailedError(testInstance *testing.T) {
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"}}
	eventObserver := &recordingEventObserver{}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, eventObserver)
	require.NoError(testInstance, creationError)

	_, executionError := executorInstance.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        []string{"rev-parse", "HEAD"},
		WorkingDirectory: workingDirectoryConstant,
	})

	var failedError execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &failedError)
	require.Equal(testInstance, 128, failedError.Result.ExitCode)
	require.Len(testInstance, eventObserver.completedResults, 1)
	require.Equal(testInstance, 128, eventObserver.completedResults[0].ExitCode)
}

func TestExecuteGitRunnerFailureReturnsCommandExecutionError(testInstance *testing.T) {
	launchFailure := errors.New("executable file not found")
	commandRunner := &recordingCommandRunner{failure: launchFailure}
	eventObserver := &recordingEventObserver{}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, eventObserver)
	require.NoError(testInstance, creationError)

	_, executionError := executorInstance.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments: []string{"fetch", "-q"},
	})

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(testInstance, executionError, &executionFailure)
	require.ErrorIs(testInstance, executionError, launchFailure)
	require.Len(testInstance, eventObserver.executionFailures, 1)
}
