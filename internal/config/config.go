package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/swipenest/swipenest/pkg/path"
)

type IConfig interface {
	Get(key string) string
}

// Config resolves keys from the environment with an env prefix
// (DEV_/TEST_/...), loading the repo-root .env first. PORT and
// LOG_MODE are shared across environments and read unprefixed.
type Config struct {
	Env  string
	keys map[string]string
}

// prefixedKeys are looked up as <ENV>_<key>.
var prefixedKeys = []string{
	"POSTGRES_DB_NAME",
	"POSTGRES_USER",
	"POSTGRES_PASSWORD",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"REDIS_HOST",
	"REDIS_PORT",
	"JWT_SECRET",
}

var sharedDefaults = map[string]string{
	"PORT":     "8080",
	"LOG_MODE": "dev",
}

func NewConfig(env string) (*Config, error) {
	env = strings.ToUpper(env)

	basePath, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := path.FindRoot(basePath, ".env", false)
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(root + "/.env"); err != nil {
		return nil, err
	}

	keys := make(map[string]string, len(prefixedKeys)+len(sharedDefaults))
	for _, key := range prefixedKeys {
		keys[key] = os.Getenv(env + "_" + key)
	}
	for key, fallback := range sharedDefaults {
		keys[key] = fallback
		if v := os.Getenv(key); v != "" {
			keys[key] = v
		}
	}

	return &Config{Env: env, keys: keys}, nil
}

func (c *Config) Get(key string) string {
	return c.keys[key]
}
