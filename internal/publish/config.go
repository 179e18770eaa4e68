package publish

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables holding the object store credentials.
const (
	EnvAccessKey = "POWERSPEC_S3_ACCESS_KEY"
	EnvSecretKey = "POWERSPEC_S3_SECRET_KEY"
)

// Config locates the bucket artifacts are uploaded to.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
	AccessKey string
	SecretKey string
}

// WithEnvCredentials returns c with credentials read from the environment.
func (c Config) WithEnvCredentials() Config {
	c.AccessKey = os.Getenv(EnvAccessKey)
	c.SecretKey = os.Getenv(EnvSecretKey)
	return c
}

func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "bucket")
	}
	if c.AccessKey == "" {
		missing = append(missing, EnvAccessKey)
	}
	if c.SecretKey == "" {
		missing = append(missing, EnvSecretKey)
	}
	if len(missing) > 0 {
		return fmt.Errorf("publish config missing %s", strings.Join(missing, ", "))
	}
	return nil
}
