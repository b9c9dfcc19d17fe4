package config

// ServerConfig holds configuration for the fixture storefront
type ServerConfig struct {
	Port string
}

// LoadServerConfig loads storefront configuration
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	return ServerConfig{
		Port: port,
	}
}
