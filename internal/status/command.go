package status

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treestatus/internal/execshell"
	"github.com/temirov/treestatus/internal/render"
	"github.com/temirov/treestatus/internal/ui"
	"github.com/temirov/treestatus/internal/utils"
)

const (
	commandUseConstant              = "treestatus [root]"
	commandShortDescriptionConstant = "Report the upstream synchronization state of nested git working copies"
	commandLongDescriptionConstant  = "treestatus walks a directory tree, classifies every discovered git working copy against its upstream, and prints a color-coded report."
	commandErrorTemplateConstant    = "status report failed: %w"

	flagDepthNameConstant               = "depth"
	flagDepthDescriptionConstant        = "Maximum directory depth to scan for working copies"
	flagOnlineNameConstant              = "online"
	flagOnlineDescriptionConstant       = "Fetch from upstreams before comparing references"
	flagColorNameConstant               = "color"
	flagColorDescriptionConstant        = "Color output mode: auto, always, or never"
	flagFetchTimeoutNameConstant        = "fetch-timeout"
	flagFetchTimeoutDescriptionConstant = "Time budget for each upstream fetch when online"
	invalidColorModeTemplateConstant    = "invalid color mode %q: expected auto, always, or never"

	configurationFileAppliedMessageConstant = "configuration file applied"
	configurationFileFieldConstant          = "configuration_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console log formatting is active.
type HumanReadableLoggingProvider func() bool

// ConfigurationProvider supplies the configuration file values for the report.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for the synchronization report.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	ConfigurationProvider        ConfigurationProvider
	Executor                     CommandExecutor
	OutputWriter                 io.Writer
}

// Build constructs the report command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	defaults := builder.resolveConfiguration()
	command.Flags().Int(flagDepthNameConstant, defaults.Depth, flagDepthDescriptionConstant)
	command.Flags().Bool(flagOnlineNameConstant, defaults.Online, flagOnlineDescriptionConstant)
	command.Flags().String(flagColorNameConstant, defaults.Color, flagColorDescriptionConstant)
	command.Flags().Duration(flagFetchTimeoutNameConstant, defaults.FetchTimeout, flagFetchTimeoutDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, configurationFileResolved := contextAccessor.ConfigurationFilePath(command.Context()); configurationFileResolved && len(configurationFilePath) > 0 {
		logger.Debug(configurationFileAppliedMessageConstant, zap.String(configurationFileFieldConstant, configurationFilePath))
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(logger, executor, builder.resolveOutputWriter(command))
	if serviceError != nil {
		return serviceError
	}

	if reportError := service.Report(command.Context(), options); reportError != nil {
		return fmt.Errorf(commandErrorTemplateConstant, reportError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (ReportOptions, error) {
	configuration := builder.resolveConfiguration()

	rootPath := configuration.Root
	if len(arguments) > 0 {
		trimmedArgument := strings.TrimSpace(arguments[0])
		if len(trimmedArgument) > 0 {
			rootPath = trimmedArgument
		}
	}

	depthValue, _ := command.Flags().GetInt(flagDepthNameConstant)
	if command.Flags().Changed(flagDepthNameConstant) {
		configuration.Depth = depthValue
	}

	onlineValue, _ := command.Flags().GetBool(flagOnlineNameConstant)
	if command.Flags().Changed(flagOnlineNameConstant) {
		configuration.Online = onlineValue
	}

	colorValue, _ := command.Flags().GetString(flagColorNameConstant)
	if command.Flags().Changed(flagColorNameConstant) {
		configuration.Color = colorValue
	}

	fetchTimeoutValue, _ := command.Flags().GetDuration(flagFetchTimeoutNameConstant)
	if command.Flags().Changed(flagFetchTimeoutNameConstant) {
		configuration.FetchTimeout = fetchTimeoutValue
	}

	configuration = configuration.sanitize()

	colorMode, colorModeError := parseColorMode(configuration.Color)
	if colorModeError != nil {
		return ReportOptions{}, colorModeError
	}

	return ReportOptions{
		RootPath:     rootPath,
		MaximumDepth: configuration.Depth,
		Online:       configuration.Online,
		ColorMode:    colorMode,
		FetchTimeout: configuration.FetchTimeout,
	}, nil
}

func parseColorMode(colorValue string) (render.ColorMode, error) {
	switch render.ColorMode(colorValue) {
	case render.ColorModeAuto, render.ColorModeAlways, render.ColorModeNever:
		return render.ColorMode(colorValue), nil
	default:
		return render.ColorModeAuto, fmt.Errorf(invalidColorModeTemplateConstant, colorValue)
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	eventObserver := ui.NewConsoleCommandEventLogger(logger, builder.humanReadableLoggingEnabled())
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, eventObserver)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveOutputWriter(command *cobra.Command) io.Writer {
	if builder.OutputWriter != nil {
		return builder.OutputWriter
	}
	if command != nil && command.OutOrStdout() != nil {
		return command.OutOrStdout()
	}
	return os.Stdout
}
