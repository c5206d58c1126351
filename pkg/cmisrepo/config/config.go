package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/simple-cmis/pkg/cmisrepo"
	"github.com/tendant/simple-cmis/pkg/cmisrepo/repo/memory"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:        "8080",
		Environment: "development",
		Repositories: []RepositoryConfig{
			{ID: "A1", Name: "Main Repository"},
		},
	}
}

// ServerConfig represents server configuration for the repository server.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Repositories created and initialized at startup.
	Repositories []RepositoryConfig
}

// RepositoryConfig describes one repository to initialize.
type RepositoryConfig struct {
	ID          string
	Name        string
	Description string
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	switch c.Environment {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if len(c.Repositories) == 0 {
		return errors.New("at least one repository is required")
	}
	seen := make(map[string]bool)
	for _, repo := range c.Repositories {
		if repo.ID == "" {
			return errors.New("repository id is required")
		}
		if seen[repo.ID] {
			return fmt.Errorf("duplicate repository id %q", repo.ID)
		}
		seen[repo.ID] = true
	}
	return nil
}

// BuildService creates the store manager, initializes the configured
// repositories, and wires the service facade.
func (c *ServerConfig) BuildService(ctx context.Context) (cmisrepo.Service, cmisrepo.StoreManager, error) {
	manager := memory.NewManager()
	for _, repo := range c.Repositories {
		if err := manager.CreateAndInitRepository(ctx, repo.ID, repo.Name, repo.Description); err != nil {
			return nil, nil, fmt.Errorf("initialize repository %q: %w", repo.ID, err)
		}
	}
	svc, err := cmisrepo.New(cmisrepo.WithStoreManager(manager))
	if err != nil {
		return nil, nil, err
	}
	return svc, manager, nil
}
