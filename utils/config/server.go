package config

// ServerConfig holds configuration for the HTTP editor server
type ServerConfig struct {
	Port        int    `yaml:"port"`
	BearerToken string `yaml:"bearerToken"`
	CORS        CORS   `yaml:"cors"`

	// Postgres connection string for the document store. Empty means the
	// server keeps documents in memory only.
	DatabaseURL string `yaml:"databaseUrl,omitempty"`
}

// CORS holds Cross-Origin Resource Sharing settings
type CORS struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	AllowedMethods []string `yaml:"allowedMethods"`
	AllowedHeaders []string `yaml:"allowedHeaders"`
	MaxAge         int      `yaml:"maxAge"`
}

// DefaultServerConfig returns the settings used when the environment
// file has no server block.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: 8080,
		CORS: CORS{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         3600,
		},
	}
}
