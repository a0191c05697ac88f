package state

import (
	"encoding/binary"

	"github.com/datadex-tech/datamint/pkg/types"
)

// Key layout. Singletons live under "c/", per-token and per-address records
// under their own prefixes with the raw address (20 bytes) or token
// identifier appended.
var (
	keyIssuanceState    = []byte("c/issuance_state")
	keyTokenID          = []byte("c/token_id")
	keyPaused           = []byte("c/is_paused")
	keyWhitelistEnabled = []byte("c/white_list_enabled")
	keyTreasury         = []byte("c/treasury_address")
	keyDonationTreasury = []byte("c/donation_treasury_address")
	keyWithdrawal       = []byte("c/withdrawal_address")
	keyAdministrator    = []byte("c/administrator")
	keyBondContract     = []byte("c/bond_contract_address")
	keyMinRoyalties     = []byte("c/min_royalties")
	keyMaxRoyalties     = []byte("c/max_royalties")
	keyMaxSupply        = []byte("c/max_supply")
	keyMintCooldown     = []byte("c/mint_time_limit")
	keyMaxDonationBP    = []byte("c/max_donation_percentage")
	keyMintedTotal      = []byte("c/minted_tokens")
	keyBootstrapped     = []byte("c/bootstrapped")

	prefixTax         = []byte("tax/") // tax/<token>            -> amount(32)
	prefixMintRecord  = []byte("mr/")  // mr/<addr(20)>          -> MintRecord JSON
	prefixWhitelist   = []byte("wl/")  // wl/<addr(20)>          -> 0x01
	prefixCollFreeze  = []byte("cf/")  // cf/<addr(20)>          -> 0x01
	prefixUnitFreeze  = []byte("uf/")  // uf/<addr(20)><nonce(8)> -> 0x01
	prefixFrozenCount = []byte("ufc/") // ufc/<addr(20)>         -> count(8)
)

func taxKey(token types.TokenIdentifier) []byte {
	return append(append([]byte(nil), prefixTax...), token...)
}

func addrKey(prefix []byte, addr types.Address) []byte {
	key := make([]byte, len(prefix)+types.AddressSize)
	copy(key, prefix)
	copy(key[len(prefix):], addr[:])
	return key
}

func unitFreezeKey(addr types.Address, nonce uint64) []byte {
	key := make([]byte, len(prefixUnitFreeze)+types.AddressSize+8)
	copy(key, prefixUnitFreeze)
	copy(key[len(prefixUnitFreeze):], addr[:])
	binary.BigEndian.PutUint64(key[len(prefixUnitFreeze)+types.AddressSize:], nonce)
	return key
}
