package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a packaging run.
// Values are populated from .packager.yaml, PACKAGER_* env vars, and CLI flags.
type Config struct {
	PythonPath      string `mapstructure:"python_path"`
	PyInstallerPath string `mapstructure:"pyinstaller_path"`
	HdiutilPath     string `mapstructure:"hdiutil_path"`
	OsascriptPath   string `mapstructure:"osascript_path"`
	ZipPath         string `mapstructure:"zip_path"`

	WorkDir          string `mapstructure:"work_dir"`
	VersionFile      string `mapstructure:"version_file"`
	ManifestFile     string `mapstructure:"manifest_file"`
	RequirementsFile string `mapstructure:"requirements_file"`
	DistDir          string `mapstructure:"dist_dir"`
	BuildDir         string `mapstructure:"build_dir"`
	ReleasesDir      string `mapstructure:"releases_dir"`

	SettleDelayMs  int    `mapstructure:"settle_delay_ms"`
	MountTimeoutMs int    `mapstructure:"mount_timeout_ms"`
	Decorate       bool   `mapstructure:"decorate"`
	Remote         string `mapstructure:"remote"`
	TelemetryFile  string `mapstructure:"telemetry_file"`
	Verbose        bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("python_path", "python3")
	viper.SetDefault("pyinstaller_path", "pyinstaller")
	viper.SetDefault("hdiutil_path", "hdiutil")
	viper.SetDefault("osascript_path", "osascript")
	viper.SetDefault("zip_path", "zip")
	viper.SetDefault("work_dir", ".")
	viper.SetDefault("version_file", "VERSION")
	viper.SetDefault("manifest_file", "packaging.toml")
	viper.SetDefault("requirements_file", "requirements.txt")
	viper.SetDefault("dist_dir", "dist")
	viper.SetDefault("build_dir", "build")
	viper.SetDefault("releases_dir", "releases")
	viper.SetDefault("settle_delay_ms", 3000)
	viper.SetDefault("mount_timeout_ms", 15000)
	viper.SetDefault("decorate", true)
	viper.SetDefault("remote", "origin")
	viper.SetDefault("telemetry_file", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
