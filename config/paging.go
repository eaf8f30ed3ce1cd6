package config

import (
	"os"

	"github.com/spf13/viper"
)

// SecretEnv is the environment fallback for the cursor signing secret, for
// deployments that keep secrets out of config files.
const SecretEnv = "TCORE_SIGNING_SECRET"

// Paging holds the pagination engine settings.
type Paging struct {
	Secret       string // HMAC key for cursor signing
	DefaultLimit int
	MaxLimit     int
}

func getPagingConfig(v *viper.Viper) *Paging {
	secret := v.GetString("paging.secret")
	if secret == "" {
		secret = os.Getenv(SecretEnv)
	}
	return &Paging{
		Secret:       secret,
		DefaultLimit: getIntOrDefault(v, "paging.default_limit", 20),
		MaxLimit:     getIntOrDefault(v, "paging.max_limit", 100),
	}
}
