package config

import "fmt"

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}

	p := &cfg.Policy
	if p.MinURLLength <= len("https://") {
		return fmt.Errorf("policy.url_min must exceed the scheme prefix length")
	}
	if p.MaxURLLength < p.MinURLLength {
		return fmt.Errorf("policy.url_max must be >= policy.url_min")
	}
	if p.MaxTitleLength <= 0 {
		return fmt.Errorf("policy.title_max must be positive")
	}
	if p.MaxDescriptionLength <= 0 {
		return fmt.Errorf("policy.description_max must be positive")
	}
	if p.IssueFee == 0 {
		return fmt.Errorf("policy.issue_fee must be positive")
	}
	return nil
}
