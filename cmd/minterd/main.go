// Datamint minter daemon.
//
// Usage:
//
//	minterd [--network=testnet --datadir=...] Run minter service
//	minterd --help                            Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/datadex-tech/datamint/config"
	"github.com/datadex-tech/datamint/internal/node"
)

const version = "0.3.1"

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flags.Version {
		fmt.Printf("minterd %s\n", version)
		return
	}
	if flags.Help {
		printUsage()
		return
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		n.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
}

func printUsage() {
	fmt.Println(`minterd - Datamint minter daemon

Usage:
  minterd [flags]

Flags:
  --network <name>      Network: mainnet or testnet (default mainnet)
  --datadir <path>      Data directory (default ~/.datamint)
  --config, -c <path>   Config file path
  --rpc=<bool>          Enable RPC server (default true)
  --rpc-addr <addr>     RPC listen address
  --rpc-port <port>     RPC listen port
  --rpc-allowed <ips>   Allowed RPC client IPs (comma-separated)
  --keystore <path>     Owner keystore file
  --log-level <level>   Log level: debug, info, warn, error
  --log-file <path>     Log file path
  --log-json            Output logs as JSON
  --version             Show version
  --help, -h            Show this help`)
}
