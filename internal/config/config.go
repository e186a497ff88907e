// Package config loads the relay's runtime settings from the environment,
// falling back to development defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	portKey            = "server_port"
	allowedOriginsKey  = "allowed_origins"
	defaultRoomNameKey = "default_room_name"
)

// Config holds the process-level configuration surface: where to listen,
// which origins may connect, and what the default room is called.
type Config struct {
	Port            string
	AllowedOrigins  []string
	DefaultRoomName string
}

// Load reads SERVER_PORT, ALLOWED_ORIGINS (comma-separated, "*" allows all)
// and DEFAULT_ROOM_NAME from the environment.
func Load() *Config {
	v := viper.New()
	v.SetDefault(portKey, ":8080")
	v.SetDefault(allowedOriginsKey, "http://localhost:8080")
	v.SetDefault(defaultRoomNameKey, "General")
	v.AutomaticEnv() // read in environment variables that match

	return &Config{
		Port:            normalizePort(v.GetString(portKey)),
		AllowedOrigins:  splitOrigins(v.GetString(allowedOriginsKey)),
		DefaultRoomName: v.GetString(defaultRoomNameKey),
	}
}

// normalizePort accepts both "8080" and ":8080".
func normalizePort(port string) string {
	if port == "" {
		return ":8080"
	}
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
