package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/viper"
)

// UpgradeSecrets holds the per-network inputs of the runtime upgrade authorization.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type UpgradeSecrets struct {
	Seed     string `mapstructure:"seed" yaml:"seed"`           // Secret: mnemonic or secret URI of the submitting account.
	WasmFile string `mapstructure:"wasm_file" yaml:"wasm_file"` // Path to the compressed runtime wasm.
}

// UpgradeConfig groups UpgradeSecrets by network name.
type UpgradeConfig struct {
	Local     UpgradeSecrets `mapstructure:"local" yaml:"local"`
	Foucoco   UpgradeSecrets `mapstructure:"foucoco" yaml:"foucoco"`
	Amplitude UpgradeSecrets `mapstructure:"amplitude" yaml:"amplitude"`
	Pendulum  UpgradeSecrets `mapstructure:"pendulum" yaml:"pendulum"`
}

// For returns the secrets configured for network. Unknown names yield an empty value.
func (u UpgradeConfig) For(network string) UpgradeSecrets {
	switch network {
	case "local":
		return u.Local
	case "foucoco":
		return u.Foucoco
	case "amplitude":
		return u.Amplitude
	case "pendulum":
		return u.Pendulum
	default:
		return UpgradeSecrets{}
	}
}

// LaunchConfig is the configuration of the local network launcher.
type LaunchConfig struct {
	TopologyFile string `mapstructure:"topology_file" yaml:"topology_file"` // Optional TOML topology, the built-in one is used when empty.
	WorkDir      string `mapstructure:"work_dir" yaml:"work_dir"`           // Directory for chain specs and node logs.
}

// Config wraps the entire configuration of pendulum-ops.
type Config struct {
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	NetworksFile    string        `mapstructure:"networks_file" yaml:"networks_file"`       // Optional YAML manifest merged over the built-in networks.
	SignatoriesFile string        `mapstructure:"signatories_file" yaml:"signatories_file"` // JSON file with the multisig signatory sets.
	Upgrade         UpgradeConfig `mapstructure:"upgrade" yaml:"upgrade"`
	Launch          LaunchConfig  `mapstructure:"launch" yaml:"launch"`
}

var defaults = map[string]any{
	"log_level":        "info",
	"signatories_file": "signatories.json",
	"launch.work_dir":  os.TempDir(),
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return v
}

var (
	// envBindings maps a config key to the environment variables that can provide its value.
	// The first name is preferred; later names are accepted for compatibility with the shell
	// scripts operators already have.
	envBindings = map[string][]string{
		"log_level":                   {"LOG_LEVEL"},
		"networks_file":               {"NETWORKS_FILE"},
		"signatories_file":            {"SIGNATORIES_FILE"},
		"upgrade.local.seed":          {"LOCAL_SEED"},
		"upgrade.local.wasm_file":     {"LOCAL_WASM_FILE"},
		"upgrade.foucoco.seed":        {"FOUCOCO_SEED"},
		"upgrade.foucoco.wasm_file":   {"FOUCOCO_WASM_FILE"},
		"upgrade.amplitude.seed":      {"AMPLITUDE_SEED"},
		"upgrade.amplitude.wasm_file": {"AMPLITUDE_WASM_FILE"},
		"upgrade.pendulum.seed":       {"PENDULUM_SEED"},
		"upgrade.pendulum.wasm_file":  {"PENDULUM_WASM_FILE"},
		"launch.topology_file":        {"LAUNCH_TOPOLOGY_FILE"},
		"launch.work_dir":             {"LAUNCH_WORK_DIR"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
