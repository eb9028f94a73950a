package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fileConfigYAML = `
log_level: debug
networks_file: ./networks.yaml
signatories_file: ./sigs.json
upgrade:
  amplitude:
    seed: "//Alice"
    wasm_file: ./amplitude.compact.compressed.wasm
  pendulum:
    wasm_file: ./pendulum.compact.compressed.wasm
launch:
  topology_file: ./launch.toml
  work_dir: /tmp/pendulum-launch
`

var (
	// fileCfg is the config that is loaded from fileConfigYAML.
	fileCfg = &Config{
		LogLevel:        "debug",
		NetworksFile:    "./networks.yaml",
		SignatoriesFile: "./sigs.json",
		Upgrade: UpgradeConfig{
			Amplitude: UpgradeSecrets{
				Seed:     "//Alice",
				WasmFile: "./amplitude.compact.compressed.wasm",
			},
			Pendulum: UpgradeSecrets{
				WasmFile: "./pendulum.compact.compressed.wasm",
			},
		},
		Launch: LaunchConfig{
			TopologyFile: "./launch.toml",
			WorkDir:      "/tmp/pendulum-launch",
		},
	}

	// envVars is the environment variables that used to set the config.
	envVars = map[string]string{
		"LOG_LEVEL":           "warn",
		"SIGNATORIES_FILE":    "/etc/pendulum/signatories.json",
		"AMPLITUDE_SEED":      "bottom drive obey lake curtain smoke basket hold race lonely fit walk",
		"AMPLITUDE_WASM_FILE": "/wasm/amplitude.wasm",
		"PENDULUM_SEED":       "//Bob",
		"PENDULUM_WASM_FILE":  "/wasm/pendulum.wasm",
	}
)

func writeConfigFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(fileConfigYAML), 0o600))

	return path
}

func Test_Load(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	tests := []struct {
		name       string
		beforeFunc func(t *testing.T)
		givePath   func(t *testing.T) string
		want       func() *Config
	}{
		{
			name:     "load from file",
			givePath: writeConfigFile,
			want:     func() *Config { return fileCfg },
		},
		{
			name: "override with env",
			beforeFunc: func(t *testing.T) {
				t.Helper()

				setupEnvVars(t, envVars)
			},
			givePath: writeConfigFile,
			want: func() *Config {
				cfg := *fileCfg
				cfg.LogLevel = "warn"
				cfg.SignatoriesFile = "/etc/pendulum/signatories.json"
				cfg.Upgrade.Amplitude = UpgradeSecrets{
					Seed:     envVars["AMPLITUDE_SEED"],
					WasmFile: "/wasm/amplitude.wasm",
				}
				cfg.Upgrade.Pendulum = UpgradeSecrets{Seed: "//Bob", WasmFile: "/wasm/pendulum.wasm"}

				return &cfg
			},
		},
		{
			name: "fallback to defaults when file not found",
			givePath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing.yml")
			},
			want: func() *Config {
				return &Config{
					LogLevel:        "info",
					SignatoriesFile: "signatories.json",
					Launch:          LaunchConfig{WorkDir: os.TempDir()},
				}
			},
		},
	}

	for _, tt := range tests { //nolint:paralleltest // see comment in setupEnvVars
		t.Run(tt.name, func(t *testing.T) {
			if tt.beforeFunc != nil {
				tt.beforeFunc(t)
			}

			got, err := Load(tt.givePath(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func Test_LoadEnv(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	setupEnvVars(t, envVars)

	got, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "warn", got.LogLevel)
	assert.Equal(t, "//Bob", got.Upgrade.For("pendulum").Seed)
	assert.Equal(t, "/wasm/amplitude.wasm", got.Upgrade.For("amplitude").WasmFile)
	assert.Equal(t, UpgradeSecrets{}, got.Upgrade.For("foucoco"))
}

func Test_UpgradeConfig_For(t *testing.T) {
	t.Parallel()

	cfg := UpgradeConfig{
		Local:     UpgradeSecrets{Seed: "l"},
		Foucoco:   UpgradeSecrets{Seed: "f"},
		Amplitude: UpgradeSecrets{Seed: "a"},
		Pendulum:  UpgradeSecrets{Seed: "p"},
	}

	assert.Equal(t, "l", cfg.For("local").Seed)
	assert.Equal(t, "f", cfg.For("foucoco").Seed)
	assert.Equal(t, "a", cfg.For("amplitude").Seed)
	assert.Equal(t, "p", cfg.For("pendulum").Seed)
	assert.Empty(t, cfg.For("kusama").Seed)
}

// setupEnvVars sets up the environment variables for the test.
//
// CAUTION: Because this function uses t.Setenv which affects the entire process, tests which call
// this function cannot be run in parallel.
func setupEnvVars(t *testing.T, envVars map[string]string) {
	t.Helper()

	for key, value := range envVars {
		t.Setenv(key, value)
	}
}
