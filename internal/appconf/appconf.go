// Package appconf holds the settings shared by the server, the store and the
// command line.
package appconf

import "strings"

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	}
	return "development"
}

// EnvFlagToEnvironment maps the -env flag onto an Environment. Unknown
// values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	}
	return Development
}

// Config holds all the configuration settings for the application.
type Config struct {
	Port            int
	Env             Environment
	ApiKeys         []string
	RateLimit       int
	DBPath          string
	LogLevel        string
	DefaultTimeZone string
	Compression     Compression
}

// Compression configures response gzipping.
type Compression struct {
	MinSize int
	Level   int
}
