package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Flags holds parsed command-line flags.
type Flags struct {
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string

	// Keystore
	KeystoreFile string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetRPC     bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("datamint", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")

	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	fs.BoolVar(&f.RPC, "rpc", true, "Enable RPC server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "RPC listen address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "RPC listen port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed IPs for RPC (comma-separated)")

	fs.StringVar(&f.KeystoreFile, "keystore", "", "Owner keystore file path")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "rpc":
			f.SetRPC = true
		case "log-json":
			f.SetLogJSON = true
		}
	})

	f.Args = fs.Args()
	return f, nil
}

// Load builds the effective configuration: defaults, then config file,
// then command-line flags.
func Load() (*Config, *Flags, error) {
	flags, err := ParseFlags()
	if err != nil {
		return nil, nil, err
	}

	network := Mainnet
	if strings.EqualFold(flags.Network, string(Testnet)) {
		network = Testnet
	}
	cfg := Default(network)

	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Config file: explicit path, or <datadir>/datamint.conf when present.
	confPath := flags.Config
	if confPath == "" {
		confPath = filepath.Join(cfg.DataDir, "datamint.conf")
	}
	values, err := LoadFile(confPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, nil, err
	}

	// Flags override the file.
	if flags.Network != "" {
		if strings.EqualFold(flags.Network, string(Testnet)) {
			cfg.Network = Testnet
		} else {
			cfg.Network = Mainnet
		}
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	if flags.SetRPC {
		cfg.RPC.Enabled = flags.RPC
	}
	if flags.RPCAddr != "" {
		cfg.RPC.Addr = flags.RPCAddr
	}
	if flags.RPCPort != 0 {
		cfg.RPC.Port = flags.RPCPort
	}
	if flags.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(flags.RPCAllowed)
	}
	if flags.KeystoreFile != "" {
		cfg.Keystore.FilePath = flags.KeystoreFile
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.Log.File = flags.LogFile
	}
	if flags.SetLogJSON {
		cfg.Log.JSON = flags.LogJSON
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, flags, nil
}
