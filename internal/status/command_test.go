package status_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/treestatus/internal/status"
	"github.com/temirov/treestatus/internal/utils"
)

func TestCommandBuilderBuildRegistersFlags(testInstance *testing.T) {
	builder := status.CommandBuilder{
		ConfigurationProvider: func() status.CommandConfiguration {
			return status.CommandConfiguration{Root: "/repos", Depth: 4, Online: true, Color: "never", FetchTimeout: 3 * time.Second}
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	depthFlag := command.Flags().Lookup("depth")
	require.NotNil(testInstance, depthFlag)
	require.Equal(testInstance, "4", depthFlag.DefValue)

	onlineFlag := command.Flags().Lookup("online")
	require.NotNil(testInstance, onlineFlag)
	require.Equal(testInstance, "true", onlineFlag.DefValue)

	colorFlag := command.Flags().Lookup("color")
	require.NotNil(testInstance, colorFlag)
	require.Equal(testInstance, "never", colorFlag.DefValue)

	fetchTimeoutFlag := command.Flags().Lookup("fetch-timeout")
	require.NotNil(testInstance, fetchTimeoutFlag)
	require.Equal(testInstance, "3s", fetchTimeoutFlag.DefValue)
}

func TestCommandReportsPositionalRoot(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	repositoryPath := createRepositoryDirectory(testInstance, rootPath, "solo")

	outputBuffer := &strings.Builder{}
	builder := status.CommandBuilder{
		LoggerProvider: zap.NewNop,
		Executor:       &uniformGitExecutor{},
		OutputWriter:   outputBuffer,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{rootPath, "--color", "never"})
	require.NoError(testInstance, command.Execute())

	require.Contains(testInstance, outputBuffer.String(), repositoryPath)
	require.Contains(testInstance, outputBuffer.String(), "up to date with origin/main")
}

func TestCommandLogsConfigurationFileFromContext(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	createRepositoryDirectory(testInstance, rootPath, "solo")

	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	builder := status.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.New(observedCore)
		},
		Executor:     &uniformGitExecutor{},
		OutputWriter: &strings.Builder{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	contextAccessor := utils.NewCommandContextAccessor()
	command.SetContext(contextAccessor.WithConfigurationFilePath(context.Background(), "/etc/treestatus/config.yaml"))
	command.SetArgs([]string{rootPath, "--color", "never"})
	require.NoError(testInstance, command.Execute())

	configurationEntries := observedLogs.FilterMessage("configuration file applied").All()
	require.Len(testInstance, configurationEntries, 1)
	require.Equal(testInstance, "/etc/treestatus/config.yaml", configurationEntries[0].ContextMap()["configuration_file"])
}

func TestCommandRejectsInvalidColorMode(testInstance *testing.T) {
	builder := status.CommandBuilder{
		Executor:     &uniformGitExecutor{},
		OutputWriter: &strings.Builder{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{"--color", "rainbow"})
	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "invalid color mode")
}

func TestCommandRejectsExtraArguments(testInstance *testing.T) {
	builder := status.CommandBuilder{
		Executor:     &uniformGitExecutor{},
		OutputWriter: &strings.Builder{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{"first", "second"})
	require.Error(testInstance, command.Execute())
}

func TestCommandRejectsMissingRoot(testInstance *testing.T) {
	missingRootPath := filepath.Join(testInstance.TempDir(), "missing")
	require.NoError(testInstance, os.RemoveAll(missingRootPath))

	builder := status.CommandBuilder{
		Executor:     &uniformGitExecutor{},
		OutputWriter: &strings.Builder{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{missingRootPath})
	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "status report failed")
}
