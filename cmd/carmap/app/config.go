package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/carmap/pkg/constants"
	pkgerrors "github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/favorites"
)

// Config keys, shared by the config file and environment variables.
const (
	keyCatalogSource    = "catalog_source"
	keyFavoritesBackend = "favorites_backend"
	keyFavoritesPath    = "favorites_path"
	keyFetchTimeout     = "fetch_timeout"
	keyLogLevel         = "log_level"
	keyLogFormat        = "log_format"
	keyLogOutput        = "log_output"
	keyVerbose          = "verbose"
	keyQuiet            = "quiet"
	keyNoColor          = "no_color"
	keyFormat           = "format"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// ConfigFile is the config file actually read, if any.
	ConfigFile string

	// Catalog and favorites
	CatalogSource    string
	FavoritesBackend string
	FavoritesPath    string
	FetchTimeout     time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables
//  3. .env and .env.local files
//  4. Config file (configFile, or .carmap.yaml in $HOME or the working directory)
//  5. Defaults
//
// A missing default config file is not an error; a missing explicit one is.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("carmap")
	v.AutomaticEnv()

	// Unprefixed names the logging package also honors.
	for key, env := range map[string]string{
		keyLogLevel:  "LOG_LEVEL",
		keyLogFormat: "LOG_FORMAT",
		keyLogOutput: "LOG_OUTPUT",
		keyNoColor:   "NO_COLOR",
	} {
		_ = v.BindEnv(key, "CARMAP_"+strings.ToUpper(key), env)
	}

	v.SetDefault(keyFavoritesBackend, favorites.BackendFile)
	v.SetDefault(keyFetchTimeout, constants.DefaultFetchTimeout)
	v.SetDefault(keyLogFormat, "auto")
	v.SetDefault(keyLogOutput, "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, pkgerrors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".carmap")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, pkgerrors.NewConfigError("config", "reading "+v.ConfigFileUsed(), err)
			}
		}
	}

	return &Config{
		Verbose: v.GetBool(keyVerbose),
		Quiet:   v.GetBool(keyQuiet),
		NoColor: v.GetBool(keyNoColor),
		Format:  v.GetString(keyFormat),

		ConfigFile: v.ConfigFileUsed(),

		CatalogSource:    v.GetString(keyCatalogSource),
		FavoritesBackend: v.GetString(keyFavoritesBackend),
		FavoritesPath:    v.GetString(keyFavoritesPath),
		FetchTimeout:     v.GetDuration(keyFetchTimeout),

		LogLevel:  v.GetString(keyLogLevel),
		LogFormat: v.GetString(keyLogFormat),
		LogOutput: v.GetString(keyLogOutput),
	}, nil
}

// ResolvedFavoritesPath returns FavoritesPath, or the default location under
// the user config directory for the configured backend.
func (c *Config) ResolvedFavoritesPath() (string, error) {
	if c.FavoritesPath != "" || c.FavoritesBackend == favorites.BackendMemory {
		return c.FavoritesPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", pkgerrors.NewConfigError("favorites", "no user config directory; set favorites_path", err)
	}
	name := constants.DefaultFavoritesFile
	if c.FavoritesBackend == favorites.BackendBolt {
		name = constants.DefaultBoltFile
	}
	return filepath.Join(dir, constants.ConfigDirName, name), nil
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set in the environment win; .env.local overrides .env.
func loadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}
