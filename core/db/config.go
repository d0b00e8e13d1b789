package db

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/rit3sh-x/fireview/core/constants"
)

// Config is the target configuration, read from the environment. A .env file
// is loaded first when present.
type Config struct {
	Dialect         string `env:"FIREVIEW_DIALECT" envDefault:"bigquery"`
	ProjectID       string `env:"BIGQUERY_PROJECT_ID"`
	DatasetID       string `env:"BIGQUERY_DATASET_ID"`
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`
	DatabaseURI     string `env:"DATABASE_URI"`
	TablePrefix     string `env:"FIREVIEW_TABLE_PREFIX" envDefault:"firestore"`
	ChangelogTable  string `env:"FIREVIEW_CHANGELOG_TABLE"`
}

// LoadConfig reads the .env file (when present) and the process environment.
func LoadConfig(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("%sNo env file found at %s, using OS environment variables%s\n", constants.YELLOW, envFile, constants.RESET)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %v", err)
	}

	if cfg.ChangelogTable == "" {
		cfg.ChangelogTable = constants.ChangelogTableName(cfg.TablePrefix)
	}

	switch cfg.Dialect {
	case "bigquery":
		if cfg.ProjectID == "" || cfg.DatasetID == "" {
			return nil, fmt.Errorf("bigquery dialect requires BIGQUERY_PROJECT_ID and BIGQUERY_DATASET_ID")
		}
	case "postgres":
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("postgres dialect requires %s", constants.DATABASE_URI_ENV)
		}
		if cfg.DatasetID == "" {
			cfg.DatasetID = "public"
		}
	default:
		return nil, fmt.Errorf("unknown dialect %q", cfg.Dialect)
	}

	return cfg, nil
}
