package auth

import "time"

// Default durations applied by NewAuthenticator when the Config getter
// returns zero.
const (
	DefaultAccessTokenTTL      = time.Hour
	DefaultRefreshTokenTTL     = 30 * 24 * time.Hour
	DefaultVerificationCodeTTL = 30 * time.Minute
)

// SimpleConfig is a plain struct implementation of Config for callers
// that load options from flags or env.
type SimpleConfig struct {
	SigningKey          string        `json:"signing_key"`
	Issuer              string        `json:"issuer"`
	Audience            []string      `json:"audience"`
	AccessTokenTTL      time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL     time.Duration `json:"refresh_token_ttl"`
	VerificationCodeTTL time.Duration `json:"verification_code_ttl"`
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c SimpleConfig) GetIssuer() string { return c.Issuer }

func (c SimpleConfig) GetAudience() []string { return c.Audience }

func (c SimpleConfig) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

func (c SimpleConfig) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

func (c SimpleConfig) GetVerificationCodeTTL() time.Duration { return c.VerificationCodeTTL }

func durationOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
