package status

import (
	"strings"
	"time"

	"github.com/temirov/treestatus/internal/render"
)

const (
	defaultRootPathConstant     = "."
	defaultMaximumDepthConstant = 2
	defaultColorModeConstant    = string(render.ColorModeAuto)
	defaultFetchTimeoutConstant = 10 * time.Second

	configurationRootKeyConstant         = "root"
	configurationDepthKeyConstant        = "depth"
	configurationOnlineKeyConstant       = "online"
	configurationColorKeyConstant        = "color"
	configurationFetchTimeoutKeyConstant = "fetch_timeout"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures configuration file values for the status report.
type CommandConfiguration struct {
	Root         string        `mapstructure:"root"`
	Depth        int           `mapstructure:"depth"`
	Online       bool          `mapstructure:"online"`
	Color        string        `mapstructure:"color"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// DefaultCommandConfiguration provides baseline configuration values for the status report.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:         defaultRootPathConstant,
		Depth:        defaultMaximumDepthConstant,
		Online:       false,
		Color:        defaultColorModeConstant,
		FetchTimeout: defaultFetchTimeoutConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the status report keyed under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationRootKeyConstant:         defaults.Root,
		rootKey + configurationKeySeparatorConstant + configurationDepthKeyConstant:        defaults.Depth,
		rootKey + configurationKeySeparatorConstant + configurationOnlineKeyConstant:       defaults.Online,
		rootKey + configurationKeySeparatorConstant + configurationColorKeyConstant:        defaults.Color,
		rootKey + configurationKeySeparatorConstant + configurationFetchTimeoutKeyConstant: defaults.FetchTimeout.String(),
	}
}

// sanitize normalizes configuration values and fills omitted ones with defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultRootPathConstant
	}

	if sanitized.Depth <= 0 {
		sanitized.Depth = defaultMaximumDepthConstant
	}

	sanitized.Color = strings.ToLower(strings.TrimSpace(configuration.Color))
	if len(sanitized.Color) == 0 {
		sanitized.Color = defaultColorModeConstant
	}

	if sanitized.FetchTimeout <= 0 {
		sanitized.FetchTimeout = defaultFetchTimeoutConstant
	}

	return sanitized
}
