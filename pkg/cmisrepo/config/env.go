package config

import "github.com/ilyakaznacheev/cleanenv"

// envConfig is the flat environment mapping read by cleanenv.
//
//	PORT                  - server port (default "8080")
//	ENVIRONMENT           - development, production, testing
//	REPOSITORY_ID         - id of the default repository (default "A1")
//	REPOSITORY_NAME       - display name of the default repository
//	REPOSITORY_DESCRIPTION- description of the default repository
type envConfig struct {
	Port           string `env:"PORT"`
	Environment    string `env:"ENVIRONMENT"`
	RepositoryID   string `env:"REPOSITORY_ID"`
	RepositoryName string `env:"REPOSITORY_NAME"`
	RepositoryDesc string `env:"REPOSITORY_DESCRIPTION"`
}

// WithEnv applies environment variable overrides on top of the current
// configuration.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return err
		}
		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}
		if env.RepositoryID != "" {
			repo := RepositoryConfig{
				ID:          env.RepositoryID,
				Name:        env.RepositoryName,
				Description: env.RepositoryDesc,
			}
			if repo.Name == "" {
				repo.Name = repo.ID
			}
			c.Repositories = []RepositoryConfig{repo}
		}
		return nil
	}
}
