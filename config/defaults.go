package config

// IssueFeeNative is the platform's fixed collection-issuance cost,
// 0.05 native currency at 18 decimals.
const IssueFeeNative uint64 = 50_000_000_000_000_000

// DefaultMainnet returns the default daemon configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8585,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Policy: PolicyConfig{
			MinURLLength:         15,
			MaxURLLength:         400,
			MaxTitleLength:       30,
			MaxDescriptionLength: 400,
			IssueFee:             IssueFeeNative,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default daemon configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 8685
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
