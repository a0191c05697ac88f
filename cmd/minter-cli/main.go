// minter-cli is a command-line client for interacting with a minterd daemon.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/datadex-tech/datamint/config"
	"github.com/datadex-tech/datamint/internal/keystore"
	"github.com/datadex-tech/datamint/internal/rpc"
	"github.com/datadex-tech/datamint/internal/rpcclient"
	"github.com/datadex-tech/datamint/pkg/types"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:8585"
	dataDir := config.DefaultDataDir()
	network := "mainnet"
	keystorePath := ""

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--keystore" && len(args) > 1:
			keystorePath = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--keystore="):
			keystorePath = args[0][len("--keystore="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	// Set address HRP based on network.
	if network == "testnet" {
		types.SetAddressHRP(types.TestnetHRP)
		if rpcURL == "http://127.0.0.1:8585" {
			rpcURL = "http://127.0.0.1:8685"
		}
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	if keystorePath == "" {
		keystorePath = config.KeystorePathFor(dataDir, network)
	}
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "keystore":
		cmdKeystore(cmdArgs, keystorePath)
	case "status":
		cmdStatus(client)
	case "initialize":
		cmdInitialize(client, cmdArgs, keystorePath)
	case "set-roles":
		cmdSetRoles(client, keystorePath)
	case "mint":
		cmdMint(client, cmdArgs, keystorePath)
	case "burn":
		cmdBurn(client, cmdArgs, keystorePath)
	case "withdraw":
		cmdWithdraw(client, cmdArgs, keystorePath)
	case "admin":
		cmdAdmin(client, cmdArgs, keystorePath)
	case "whitelist":
		cmdWhitelist(client, cmdArgs, keystorePath)
	case "freeze":
		cmdFreeze(client, cmdArgs, keystorePath)
	case "userdata":
		cmdUserData(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: minter-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8585)
  --datadir <path>    Data directory (default: ~/.datamint)
  --network <net>     mainnet (default) or testnet
  --keystore <path>   Owner keystore file

Commands:
  keystore init                   Create the owner keystore
  keystore import --mnemonic "..."
                                  Import keystore from mnemonic
  keystore address                Show the owner address

  status                          Show minter status
  initialize --name <n> --ticker <T> --tax-token <id> --tax-amount <amt>
             --cooldown <sec> --treasury <addr> --fee <amt>
                                  Issue the collection (pays the issue fee)
  set-roles                       Request local create/burn roles
  mint --stream <url> --preview <url> --marshal <url> --media <url>
       --metadata <url> --title <t> --description <d> --royalties <bp>
       --supply <n> --lock-period <sec> --pay-token <id> --pay-amount <amt>
       [--donation-bp <bp>] [--extra <url,url>]
                                  Mint data units (pays tax + bond)
  burn --nonce <n> --amount <n>   Burn units held by the contract caller
  withdraw --token <id> --amount <amt> [--nonce <n>]
                                  Withdraw funds to the withdrawal address

  admin set-treasury <addr>       Set the tax treasury
  admin set-donation-treasury <addr>
                                  Set the donation treasury
  admin set-withdrawal <addr>     Set the withdrawal address
  admin set-bond-contract <addr>  Set the bond contract address
  admin set-administrator <addr>  Delegate admin rights
  admin set-paused <bool>         Pause or resume minting
  admin set-whitelist <bool>      Toggle whitelist enforcement
  admin set-tax --token <id> --amount <amt>
                                  Set the anti-spam tax
  admin set-cooldown <seconds>    Set the per-address mint cooldown
  admin set-royalties <min> <max> Set royalties bounds (basis points)
  admin set-max-supply <n>        Set the per-mint supply cap
  admin set-max-donation <bp>     Set the donation percentage cap
  admin pause-collection          Suspend the collection on the registry
  admin unpause-collection        Resume the collection on the registry

  whitelist add <addr> [...]      Add addresses to the whitelist
  whitelist remove <addr> [...]   Remove addresses from the whitelist

  freeze collection <addr>        Freeze an address for the collection
  freeze uncollection <addr>      Unfreeze an address for the collection
  freeze nft <nonce> <addr>       Freeze one unit held by an address
  freeze unnft <nonce> <addr>     Unfreeze one unit held by an address
  freeze wipe <nonce> <addr>      Wipe one frozen unit held by an address
  freeze list                     Show collection-frozen addresses
  freeze show <addr>              Show frozen nonces for an address

  userdata <addr> [tax-token]     Show per-address mint entitlement data
`)
}

// ── keystore ────────────────────────────────────────────────────────────

func cmdKeystore(args []string, ksPath string) {
	if len(args) < 1 {
		fatal("Usage: minter-cli keystore <init|import|address>")
	}

	switch args[0] {
	case "init":
		cmdKeystoreInit(ksPath)
	case "import":
		cmdKeystoreImport(args[1:], ksPath)
	case "address":
		cmdKeystoreAddress(ksPath)
	default:
		fatal("Unknown keystore command: %s\nUsage: minter-cli keystore <init|import|address>", args[0])
	}
}

func cmdKeystoreInit(ksPath string) {
	ks, err := keystore.New(ksPath)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if ks.Exists() {
		fatal("keystore already exists at %s", ksPath)
	}

	mnemonic, err := keystore.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	password := readConfirmedPassword()

	seed, err := keystore.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	key, err := ks.Create(seed, password, keystore.DefaultParams())
	if err != nil {
		fatal("create keystore: %v", err)
	}
	defer key.Zero()

	fmt.Printf("Keystore created: %s\n", ksPath)
	fmt.Printf("Owner address:    %s\n", key.Address())
}

func cmdKeystoreImport(args []string, ksPath string) {
	fs := flag.NewFlagSet("keystore import", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "24-word BIP-39 mnemonic")
	fs.Parse(args)

	if *mnemonic == "" {
		fatal("Usage: minter-cli keystore import --mnemonic \"word1 word2 ...\"")
	}
	if !keystore.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	ks, err := keystore.New(ksPath)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if ks.Exists() {
		fatal("keystore already exists at %s", ksPath)
	}

	password := readConfirmedPassword()

	seed, err := keystore.SeedFromMnemonic(*mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	key, err := ks.Create(seed, password, keystore.DefaultParams())
	if err != nil {
		fatal("create keystore: %v", err)
	}
	defer key.Zero()

	fmt.Printf("Keystore imported: %s\n", ksPath)
	fmt.Printf("Owner address:     %s\n", key.Address())
}

func cmdKeystoreAddress(ksPath string) {
	ks, err := keystore.New(ksPath)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if !ks.Exists() {
		fatal("no keystore at %s (run: minter-cli keystore init)", ksPath)
	}
	addr, err := ks.Address()
	if err != nil {
		fatal("read keystore: %v", err)
	}
	fmt.Println(addr)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	var status rpc.StatusResult
	if err := client.Call("minter_getStatus", nil, &status); err != nil {
		fatal("minter_getStatus: %v", err)
	}

	fmt.Printf("State:        %s\n", status.IssuanceState)
	if status.TokenID != "" {
		fmt.Printf("Collection:   %s\n", status.TokenID)
	}
	fmt.Printf("Paused:       %v\n", status.IsPaused)
	fmt.Printf("Minted total: %d\n", status.MintedTotal)
	fmt.Printf("Owner:        %s\n", status.Owner)
}

// ── issuance ────────────────────────────────────────────────────────────

func cmdInitialize(client *rpcclient.Client, args []string, ksPath string) {
	fs := flag.NewFlagSet("initialize", flag.ExitOnError)
	name := fs.String("name", "", "Collection display name")
	ticker := fs.String("ticker", "", "Collection ticker")
	taxToken := fs.String("tax-token", "", "Anti-spam tax token identifier")
	taxAmount := fs.String("tax-amount", "", "Anti-spam tax amount (raw decimal)")
	cooldown := fs.Uint64("cooldown", 0, "Per-address mint cooldown in seconds")
	treasury := fs.String("treasury", "", "Tax treasury address")
	fee := fs.String("fee", "", "Issue fee payment amount (raw decimal)")
	fs.Parse(args)

	if *name == "" || *ticker == "" || *taxToken == "" || *taxAmount == "" ||
		*treasury == "" || *fee == "" {
		fatal("Usage: minter-cli initialize --name <n> --ticker <T> --tax-token <id> --tax-amount <amt> --cooldown <sec> --treasury <addr> --fee <amt>")
	}

	key := loadKey(ksPath)
	defer key.Zero()

	call := rpc.InitializeCall{
		Name:      *name,
		Ticker:    *ticker,
		TaxToken:  *taxToken,
		TaxAmount: *taxAmount,
		Cooldown:  *cooldown,
		Treasury:  *treasury,
		Payment:   rpc.PaymentParam{Token: string(types.NativeToken), Amount: *fee},
	}
	var result rpc.AckResult
	if err := client.CallSigned("minter_initializeContract", call, key.Signer(), &result); err != nil {
		fatal("minter_initializeContract: %v", err)
	}
	fmt.Println("Issuance dispatched; run 'minter-cli status' to follow it.")
}

func cmdSetRoles(client *rpcclient.Client, ksPath string) {
	key := loadKey(ksPath)
	defer key.Zero()

	var result rpc.AckResult
	if err := client.CallSigned("minter_setLocalRoles", struct{}{}, key.Signer(), &result); err != nil {
		fatal("minter_setLocalRoles: %v", err)
	}
	fmt.Println("Role request dispatched; run 'minter-cli status' to follow it.")
}

// ── mint / burn / withdraw ──────────────────────────────────────────────

func cmdMint(client *rpcclient.Client, args []string, ksPath string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	stream := fs.String("stream", "", "Data stream URL")
	preview := fs.String("preview", "", "Data preview URL")
	marshal := fs.String("marshal", "", "Data marshal URL")
	media := fs.String("media", "", "Media URL")
	metadata := fs.String("metadata", "", "Metadata URL")
	extra := fs.String("extra", "", "Extra asset URLs (comma-separated)")
	title := fs.String("title", "", "Title")
	description := fs.String("description", "", "Description")
	royalties := fs.Uint64("royalties", 0, "Royalties in basis points")
	supply := fs.Uint64("supply", 1, "Units to mint")
	lockPeriod := fs.Uint64("lock-period", 0, "Bond lock period in seconds")
	donationBP := fs.Uint64("donation-bp", 0, "Donation share in basis points")
	payToken := fs.String("pay-token", "", "Payment token identifier")
	payAmount := fs.String("pay-amount", "", "Payment amount, tax plus bond (raw decimal)")
	fs.Parse(args)

	if *stream == "" || *title == "" || *payToken == "" || *payAmount == "" {
		fatal("Usage: minter-cli mint --stream <url> --preview <url> --marshal <url> --media <url> --metadata <url> --title <t> --description <d> --royalties <bp> --supply <n> --lock-period <sec> --pay-token <id> --pay-amount <amt>")
	}

	var extraAssets []string
	if *extra != "" {
		for _, u := range strings.Split(*extra, ",") {
			if u = strings.TrimSpace(u); u != "" {
				extraAssets = append(extraAssets, u)
			}
		}
	}

	key := loadKey(ksPath)
	defer key.Zero()

	call := rpc.MintCall{
		DataStreamURL:  *stream,
		DataPreviewURL: *preview,
		DataMarshalURL: *marshal,
		MediaURL:       *media,
		MetadataURL:    *metadata,
		ExtraAssets:    extraAssets,
		Title:          *title,
		Description:    *description,
		Royalties:      *royalties,
		Supply:         *supply,
		LockPeriod:     *lockPeriod,
		DonationBP:     *donationBP,
		Payment:        rpc.PaymentParam{Token: *payToken, Amount: *payAmount},
	}
	var result rpc.MintResult
	if err := client.CallSigned("minter_mint", call, key.Signer(), &result); err != nil {
		fatal("minter_mint: %v", err)
	}

	fmt.Printf("Minted nonce %d\n", result.Nonce)
	if result.Attributes != nil {
		data, err := json.MarshalIndent(result.Attributes, "", "  ")
		if err == nil {
			fmt.Println(string(data))
		}
	}
}

func cmdBurn(client *rpcclient.Client, args []string, ksPath string) {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	token := fs.String("token", "", "Collection identifier")
	nonce := fs.Uint64("nonce", 0, "Unit nonce")
	amount := fs.String("amount", "", "Quantity to burn (raw decimal)")
	fs.Parse(args)

	if *token == "" || *nonce == 0 || *amount == "" {
		fatal("Usage: minter-cli burn --token <id> --nonce <n> --amount <n>")
	}

	key := loadKey(ksPath)
	defer key.Zero()

	call := rpc.BurnCall{
		Payment: rpc.PaymentParam{Token: *token, Nonce: *nonce, Amount: *amount},
	}
	var result rpc.AckResult
	if err := client.CallSigned("minter_burn", call, key.Signer(), &result); err != nil {
		fatal("minter_burn: %v", err)
	}
	fmt.Println("Burned.")
}

func cmdWithdraw(client *rpcclient.Client, args []string, ksPath string) {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	token := fs.String("token", "", "Token identifier")
	nonce := fs.Uint64("nonce", 0, "Token nonce (0 for fungible)")
	amount := fs.String("amount", "", "Amount to withdraw (raw decimal)")
	fs.Parse(args)

	if *token == "" || *amount == "" {
		fatal("Usage: minter-cli withdraw --token <id> --amount <amt> [--nonce <n>]")
	}

	key := loadKey(ksPath)
	defer key.Zero()

	call := rpc.WithdrawCall{Token: *token, Nonce: *nonce, Amount: *amount}
	var result rpc.AckResult
	if err := client.CallSigned("minter_withdraw", call, key.Signer(), &result); err != nil {
		fatal("minter_withdraw: %v", err)
	}
	fmt.Println("Withdrawn.")
}

// ── admin ───────────────────────────────────────────────────────────────

func cmdAdmin(client *rpcclient.Client, args []string, ksPath string) {
	if len(args) < 1 {
		fatal("Usage: minter-cli admin <setter> [args] (see 'minter-cli help')")
	}

	sub := args[0]
	subArgs := args[1:]

	// Address setters share one shape.
	addrMethods := map[string]string{
		"set-treasury":          "admin_setTreasuryAddress",
		"set-donation-treasury": "admin_setDonationTreasuryAddress",
		"set-withdrawal":        "admin_setWithdrawalAddress",
		"set-bond-contract":     "admin_setBondContractAddress",
		"set-administrator":     "admin_setAdministrator",
	}
	if method, ok := addrMethods[sub]; ok {
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli admin %s <address>", sub)
		}
		signedAck(client, ksPath, method, rpc.AddressCall{Address: subArgs[0]})
		return
	}

	switch sub {
	case "set-paused":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli admin set-paused <true|false>")
		}
		signedAck(client, ksPath, "admin_setIsPaused", rpc.BoolCall{Value: parseBoolArg(subArgs[0])})
	case "set-whitelist":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli admin set-whitelist <true|false>")
		}
		signedAck(client, ksPath, "admin_setWhiteListEnabled", rpc.BoolCall{Value: parseBoolArg(subArgs[0])})
	case "set-tax":
		fs := flag.NewFlagSet("admin set-tax", flag.ExitOnError)
		token := fs.String("token", "", "Tax token identifier")
		amount := fs.String("amount", "", "Tax amount (raw decimal)")
		fs.Parse(subArgs)
		if *token == "" || *amount == "" {
			fatal("Usage: minter-cli admin set-tax --token <id> --amount <amt>")
		}
		signedAck(client, ksPath, "admin_setAntiSpamTax", rpc.TaxCall{Token: *token, Amount: *amount})
	case "set-cooldown":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli admin set-cooldown <seconds>")
		}
		signedAck(client, ksPath, "admin_setMintTimeLimit", rpc.UintCall{Value: parseUintArg(subArgs[0])})
	case "set-royalties":
		if len(subArgs) != 2 {
			fatal("Usage: minter-cli admin set-royalties <min> <max>")
		}
		signedAck(client, ksPath, "admin_setRoyaltiesLimits", rpc.RoyaltiesLimitsCall{
			Min: parseUintArg(subArgs[0]),
			Max: parseUintArg(subArgs[1]),
		})
	case "set-max-supply":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli admin set-max-supply <n>")
		}
		signedAck(client, ksPath, "admin_setMaxSupply", rpc.UintCall{Value: parseUintArg(subArgs[0])})
	case "set-max-donation":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli admin set-max-donation <bp>")
		}
		signedAck(client, ksPath, "admin_setMaxDonationPercentage", rpc.UintCall{Value: parseUintArg(subArgs[0])})
	case "pause-collection":
		signedAck(client, ksPath, "admin_pauseCollection", struct{}{})
	case "unpause-collection":
		signedAck(client, ksPath, "admin_unpauseCollection", struct{}{})
	default:
		fatal("Unknown admin command: %s (see 'minter-cli help')", sub)
	}
}

// ── whitelist ───────────────────────────────────────────────────────────

func cmdWhitelist(client *rpcclient.Client, args []string, ksPath string) {
	if len(args) < 2 {
		fatal("Usage: minter-cli whitelist <add|remove> <addr> [addr ...]")
	}

	call := rpc.AddressListCall{Addresses: args[1:]}
	switch args[0] {
	case "add":
		signedAck(client, ksPath, "admin_setWhiteListSpots", call)
	case "remove":
		signedAck(client, ksPath, "admin_removeWhiteListSpots", call)
	default:
		fatal("Unknown whitelist command: %s\nUsage: minter-cli whitelist <add|remove> <addr> [addr ...]", args[0])
	}
}

// ── freeze ──────────────────────────────────────────────────────────────

func cmdFreeze(client *rpcclient.Client, args []string, ksPath string) {
	if len(args) < 1 {
		fatal("Usage: minter-cli freeze <collection|uncollection|nft|unnft|wipe|list|show> [args]")
	}

	sub := args[0]
	subArgs := args[1:]

	switch sub {
	case "collection", "uncollection":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli freeze %s <address>", sub)
		}
		method := "admin_freeze"
		if sub == "uncollection" {
			method = "admin_unfreeze"
		}
		signedAck(client, ksPath, method, rpc.AddressCall{Address: subArgs[0]})
	case "nft", "unnft", "wipe":
		if len(subArgs) != 2 {
			fatal("Usage: minter-cli freeze %s <nonce> <address>", sub)
		}
		method := map[string]string{
			"nft":   "admin_freezeSingleNFT",
			"unnft": "admin_unFreezeSingleNFT",
			"wipe":  "admin_wipeSingleNFT",
		}[sub]
		signedAck(client, ksPath, method, rpc.NonceAddressCall{
			Nonce:   parseUintArg(subArgs[0]),
			Address: subArgs[1],
		})
	case "list":
		var result rpc.FrozenAddressesResult
		if err := client.Call("view_getFrozenAddresses", nil, &result); err != nil {
			fatal("view_getFrozenAddresses: %v", err)
		}
		fmt.Printf("Frozen addresses: %d\n", result.Count)
		for _, a := range result.Addresses {
			fmt.Printf("  %s\n", a)
		}
	case "show":
		if len(subArgs) != 1 {
			fatal("Usage: minter-cli freeze show <address>")
		}
		var result rpc.FrozenResult
		if err := client.Call("view_getFrozen", rpc.AddressParam{Address: subArgs[0]}, &result); err != nil {
			fatal("view_getFrozen: %v", err)
		}
		fmt.Printf("Address:      %s\n", result.Address)
		fmt.Printf("Frozen count: %d\n", result.FrozenCount)
		for _, n := range result.Nonces {
			fmt.Printf("  nonce %d\n", n)
		}
	default:
		fatal("Unknown freeze command: %s (see 'minter-cli help')", sub)
	}
}

// ── views ───────────────────────────────────────────────────────────────

func cmdUserData(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: minter-cli userdata <address> [tax-token]")
	}
	param := rpc.UserDataParam{Address: args[0]}
	if len(args) > 1 {
		param.TaxToken = args[1]
	}

	var raw json.RawMessage
	if err := client.Call("view_getUserData", param, &raw); err != nil {
		fatal("view_getUserData: %v", err)
	}

	var pretty map[string]interface{}
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fatal("decode result: %v", err)
	}
	data, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fatal("marshal result: %v", err)
	}
	fmt.Println(string(data))
}

// ── Signed call helpers ─────────────────────────────────────────────────

func signedAck(client *rpcclient.Client, ksPath, method string, call interface{}) {
	key := loadKey(ksPath)
	defer key.Zero()

	var result rpc.AckResult
	if err := client.CallSigned(method, call, key.Signer(), &result); err != nil {
		fatal("%s: %v", method, err)
	}
	fmt.Println("OK")
}

func loadKey(ksPath string) *keystore.OperatorKey {
	ks, err := keystore.New(ksPath)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if !ks.Exists() {
		fatal("no keystore at %s (run: minter-cli keystore init)", ksPath)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	key, err := ks.Load(password)
	if err != nil {
		fatal("unlock keystore: %v", err)
	}
	return key
}

// ── Arg helpers ─────────────────────────────────────────────────────────

func parseBoolArg(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	fatal("expected true or false, got %q", s)
	return false
}

func parseUintArg(s string) uint64 {
	var n uint64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		fatal("invalid number %q", s)
	}
	return n
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// ── Password helpers ────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func readConfirmedPassword() []byte {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}
	return password
}
