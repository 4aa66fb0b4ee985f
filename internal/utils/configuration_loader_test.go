package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treestatus/internal/utils"
)

const (
	configurationFileNameConstant    = "config.yaml"
	environmentPrefixConstant        = "TREESTATUS"
	configurationFileContentConstant = `common:
  log_level: debug
  log_format: console
tools:
  status:
    root: /workspace
    depth: 3
    online: true
    fetch_timeout: 30s
`
)

type loaderTestStatusConfiguration struct {
	Root         string        `mapstructure:"root"`
	Depth        int           `mapstructure:"depth"`
	Online       bool          `mapstructure:"online"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type loaderTestConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
	Tools struct {
		Status loaderTestStatusConfiguration `mapstructure:"status"`
	} `mapstructure:"tools"`
}

func writeConfigurationFile(testInstance *testing.T, content string) string {
	configurationFilePath := filepath.Join(testInstance.TempDir(), configurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(content), 0o644))
	return configurationFilePath
}

func TestLoadConfigurationFromFile(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, configurationFileContentConstant)
	loader := utils.NewConfigurationLoader("config", "yaml", environmentPrefixConstant, nil)

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationFilePath, nil, &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
	require.Equal(testInstance, "/workspace", configuration.Tools.Status.Root)
	require.Equal(testInstance, 3, configuration.Tools.Status.Depth)
	require.True(testInstance, configuration.Tools.Status.Online)
	require.Equal(testInstance, 30*time.Second, configuration.Tools.Status.FetchTimeout)
}

func TestLoadConfigurationAppliesDefaults(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader("config", "yaml", environmentPrefixConstant, []string{testInstance.TempDir()})

	defaultValues := map[string]any{
		"common.log_level":           "info",
		"tools.status.depth":         2,
		"tools.status.fetch_timeout": "10s",
	}

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, 2, configuration.Tools.Status.Depth)
	require.Equal(testInstance, 10*time.Second, configuration.Tools.Status.FetchTimeout)
}

func TestLoadConfigurationHonorsEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv("TREESTATUS_TOOLS_STATUS_DEPTH", "5")

	loader := utils.NewConfigurationLoader("config", "yaml", environmentPrefixConstant, []string{testInstance.TempDir()})
	defaultValues := map[string]any{
		"tools.status.depth": 2,
	}

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 5, configuration.Tools.Status.Depth)
}

func TestLoadConfigurationRejectsMalformedFile(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, "tools: [broken")
	loader := utils.NewConfigurationLoader("config", "yaml", environmentPrefixConstant, nil)

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration(configurationFilePath, nil, &configuration)
	require.Error(testInstance, loadError)
}
