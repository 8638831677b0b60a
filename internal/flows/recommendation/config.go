// internal/flows/recommendation/config.go
package recommendation

import (
	"time"

	"customer-insights/internal/common/config"
)

type Config struct {
	APIBaseURL string
	Timeout    time.Duration
}

func LoadConfig(api config.APIConfig) *Config {
	return &Config{
		APIBaseURL: api.BaseURL,
		Timeout:    config.GetDuration(api.Timeout),
	}
}
