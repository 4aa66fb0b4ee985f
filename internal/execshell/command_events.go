package execshell

// CommandEventObserver receives lifecycle notifications for the git invocations
// issued while a report is assembled.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CommandEventObservers broadcasts lifecycle events to every registered
// observer. Nil entries are skipped so optional observers can be passed
// through without guarding at the call site.
type CommandEventObservers []CommandEventObserver

// CommandStarted forwards the start notification to each observer.
func (observers CommandEventObservers) CommandStarted(command ShellCommand) {
	for _, registeredObserver := range observers {
		if registeredObserver != nil {
			registeredObserver.CommandStarted(command)
		}
	}
}

// CommandCompleted forwards the completion notification to each observer.
func (observers CommandEventObservers) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, registeredObserver := range observers {
		if registeredObserver != nil {
			registeredObserver.CommandCompleted(command, result)
		}
	}
}

// CommandExecutionFailed forwards the failure notification to each observer.
func (observers CommandEventObservers) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, registeredObserver := range observers {
		if registeredObserver != nil {
			registeredObserver.CommandExecutionFailed(command, failure)
		}
	}
}
