package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/treestatus/internal/execshell"
)

// ConsoleCommandEventLogger renders command lifecycle events through a zap logger.
//
// With human-readable logging active the routine start and completion events
// surface at info level; under structured logging they drop to debug so that
// json output stays focused on report diagnostics. Failures always log at
// warn or error level.
type ConsoleCommandEventLogger struct {
	logger               *zap.Logger
	formatter            execshell.CommandMessageFormatter
	humanReadableLogging bool
}

// NewConsoleCommandEventLogger constructs an event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger, humanReadableLogging bool) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{
		logger:               logger,
		formatter:            execshell.CommandMessageFormatter{},
		humanReadableLogging: humanReadableLogging,
	}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logRoutineMessage(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logRoutineMessage(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) logRoutineMessage(message string) {
	if eventLogger.humanReadableLogging {
		eventLogger.logger.Info(message)
		return
	}
	eventLogger.logger.Debug(message)
}
