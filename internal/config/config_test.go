package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"PythonPath", cfg.PythonPath, "python3"},
		{"PyInstallerPath", cfg.PyInstallerPath, "pyinstaller"},
		{"HdiutilPath", cfg.HdiutilPath, "hdiutil"},
		{"OsascriptPath", cfg.OsascriptPath, "osascript"},
		{"ZipPath", cfg.ZipPath, "zip"},
		{"WorkDir", cfg.WorkDir, "."},
		{"VersionFile", cfg.VersionFile, "VERSION"},
		{"ManifestFile", cfg.ManifestFile, "packaging.toml"},
		{"RequirementsFile", cfg.RequirementsFile, "requirements.txt"},
		{"DistDir", cfg.DistDir, "dist"},
		{"BuildDir", cfg.BuildDir, "build"},
		{"ReleasesDir", cfg.ReleasesDir, "releases"},
		{"SettleDelayMs", cfg.SettleDelayMs, 3000},
		{"MountTimeoutMs", cfg.MountTimeoutMs, 15000},
		{"Decorate", cfg.Decorate, true},
		{"Remote", cfg.Remote, "origin"},
		{"TelemetryFile", cfg.TelemetryFile, ""},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "python_path",
			envKey: "PACKAGER_PYTHON_PATH",
			envVal: "/usr/local/bin/python3.12",
			field:  func(c Config) any { return c.PythonPath },
			want:   "/usr/local/bin/python3.12",
		},
		{
			name:   "work_dir",
			envKey: "PACKAGER_WORK_DIR",
			envVal: "/tmp/work",
			field:  func(c Config) any { return c.WorkDir },
			want:   "/tmp/work",
		},
		{
			name:   "settle_delay_ms",
			envKey: "PACKAGER_SETTLE_DELAY_MS",
			envVal: "500",
			field:  func(c Config) any { return c.SettleDelayMs },
			want:   500,
		},
		{
			name:   "decorate",
			envKey: "PACKAGER_DECORATE",
			envVal: "false",
			field:  func(c Config) any { return c.Decorate },
			want:   false,
		},
		{
			name:   "verbose",
			envKey: "PACKAGER_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so PACKAGER_* env vars map to config keys.
			viper.SetEnvPrefix("PACKAGER")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg := Load()
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}
