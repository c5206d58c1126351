package config

import "fmt"

// WithPort sets the HTTP port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port must not be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment.
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithRepository adds a repository to initialize at startup. The first call
// replaces the default repository list.
func WithRepository(id, name, description string) Option {
	replaced := false
	return func(c *ServerConfig) error {
		if !replaced {
			c.Repositories = nil
			replaced = true
		}
		c.Repositories = append(c.Repositories, RepositoryConfig{ID: id, Name: name, Description: description})
		return nil
	}
}

// WithRepositories replaces the repository list.
func WithRepositories(repos ...RepositoryConfig) Option {
	return func(c *ServerConfig) error {
		c.Repositories = repos
		return nil
	}
}
