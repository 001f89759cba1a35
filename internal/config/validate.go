package config

import (
	"net/url"

	"github.com/cockroachdb/errors"
)

// Validate checks cfg for values the engine cannot work with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	if cfg.SMSListCap <= 0 {
		return errors.Newf("sms_list_cap must be positive, got %d", cfg.SMSListCap)
	}

	if cfg.APIBaseURL != "" {
		u, err := url.Parse(cfg.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf("api_base_url %q is not an absolute URL", cfg.APIBaseURL)
		}
	}

	return nil
}
