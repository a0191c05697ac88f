package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/datadex-tech/datamint/config"
	"github.com/datadex-tech/datamint/internal/bond"
	"github.com/datadex-tech/datamint/internal/ledger"
	"github.com/datadex-tech/datamint/internal/state"
	"github.com/datadex-tech/datamint/internal/storage"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

var (
	testOwner    = types.Address{0x01}
	testUser     = types.Address{0x02}
	testTreasury = types.Address{0x03}
	testDonation = types.Address{0x04}
	testAdmin    = types.Address{0x06}
	testBondAddr = types.Address{0x08}
	testContract = types.Address{0xC0}
)

const (
	testTaxToken   = types.TokenIdentifier("ITHEUM-abcdef")
	testLockPeriod = uint64(7_776_000)
	testCooldown   = uint64(3600)
	baseTime       = int64(1_700_000_000)
)

var testPolicy = config.PolicyConfig{
	MinURLLength:         15,
	MaxURLLength:         400,
	MaxTitleLength:       30,
	MaxDescriptionLength: 400,
	IssueFee:             50_000_000_000_000_000,
}

type testRig struct {
	eng    *Engine
	led    *ledger.Memory
	vault  *bond.Memory
	store  *state.Store
	nowSec int64
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	store := state.NewStore(storage.NewMemory())
	led := ledger.NewMemory(testContract)
	vault := bond.NewMemory()

	eng, err := New(store, led, vault, testOwner, testPolicy)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	led.SetCallbacks(eng)

	rig := &testRig{eng: eng, led: led, vault: vault, store: store, nowSec: baseTime}
	eng.now = func() time.Time { return time.Unix(rig.nowSec, 0) }
	return rig
}

func (r *testRig) issueFee() *uint256.Int {
	return uint256.NewInt(testPolicy.IssueFee)
}

// initialize runs the full issuance handshake and leaves the engine in
// the Ready state with sane mint policy.
func (r *testRig) initialize(t *testing.T) types.TokenIdentifier {
	t.Helper()
	err := r.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(r.issueFee()))
	if err != nil {
		t.Fatalf("InitializeContract: %v", err)
	}
	if err := r.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll(issue): %v", err)
	}
	if err := r.eng.SetLocalRoles(testOwner); err != nil {
		t.Fatalf("SetLocalRoles: %v", err)
	}
	if err := r.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll(roles): %v", err)
	}

	tokenID, err := r.eng.TokenID()
	if err != nil {
		t.Fatalf("TokenID: %v", err)
	}
	if tokenID.IsEmpty() {
		t.Fatal("token identifier empty after issuance")
	}
	return tokenID
}

// ready brings a fresh rig all the way to mintable: issued, roles set,
// unpaused, bounds configured, caller whitelisted, bond quote present.
func (r *testRig) ready(t *testing.T) types.TokenIdentifier {
	t.Helper()
	tokenID := r.initialize(t)

	if err := r.eng.SetIsPaused(testOwner, false); err != nil {
		t.Fatalf("SetIsPaused: %v", err)
	}
	if err := r.eng.SetRoyaltiesLimits(testOwner, 100, 8000); err != nil {
		t.Fatalf("SetRoyaltiesLimits: %v", err)
	}
	if err := r.eng.SetMaxSupply(testOwner, 1000); err != nil {
		t.Fatalf("SetMaxSupply: %v", err)
	}
	if err := r.eng.SetWhiteListSpots(testOwner, []types.Address{testUser}); err != nil {
		t.Fatalf("SetWhiteListSpots: %v", err)
	}
	if err := r.eng.SetBondContractAddress(testOwner, testBondAddr); err != nil {
		t.Fatalf("SetBondContractAddress: %v", err)
	}
	r.vault.SetBondAmount(testLockPeriod, uint256.NewInt(100))
	return tokenID
}

// mint credits the attached payment and calls Mint as testUser.
func (r *testRig) mint(t *testing.T, req MintRequest, amount uint64) (DataUnitAttributes, uint64, error) {
	t.Helper()
	payment := types.NewPayment(testTaxToken, 0, uint256.NewInt(amount))
	r.led.Credit(payment.Token, payment.Nonce, payment.Amount)
	return r.eng.Mint(testUser, req, payment)
}

func validMintReq() MintRequest {
	return MintRequest{
		DataStreamURL:  "https://data.example.com/stream/1",
		DataPreviewURL: "https://data.example.com/preview/1",
		DataMarshalURL: "https://marshal.example.com/v1",
		MediaURL:       "https://media.example.com/img.png",
		MetadataURL:    "https://meta.example.com/meta.json",
		Title:          "Ocean Telemetry",
		Description:    "Hourly sensor readings",
		Royalties:      500,
		Supply:         100,
		LockPeriod:     testLockPeriod,
	}
}

// ── Issuance ────────────────────────────────────────────────────────────

func TestInitializeContract_OwnerOnly(t *testing.T) {
	rig := newTestRig(t)

	err := rig.eng.InitializeContract(testUser, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(rig.issueFee()))
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestInitializeContract_WrongFee(t *testing.T) {
	rig := newTestRig(t)

	short := new(uint256.Int).SubUint64(rig.issueFee(), 1)
	err := rig.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(short))
	if !errors.Is(err, ErrIssueCost) {
		t.Fatalf("short fee: err = %v, want ErrIssueCost", err)
	}

	// Right amount, wrong currency.
	err = rig.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NewPayment(testTaxToken, 0, rig.issueFee()))
	if !errors.Is(err, ErrIssueCost) {
		t.Fatalf("wrong token: err = %v, want ErrIssueCost", err)
	}
}

func TestInitializeContract_Lifecycle(t *testing.T) {
	rig := newTestRig(t)

	err := rig.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(rig.issueFee()))
	if err != nil {
		t.Fatalf("InitializeContract: %v", err)
	}

	st, err := rig.eng.IssuanceState()
	if err != nil {
		t.Fatalf("IssuanceState: %v", err)
	}
	if st != state.IssuancePending {
		t.Fatalf("state = %v, want IssuancePending", st)
	}

	// A second call while the first is in flight must be rejected.
	err = rig.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(rig.issueFee()))
	if !errors.Is(err, ErrContractAlreadyInitialized) {
		t.Fatalf("err = %v, want ErrContractAlreadyInitialized", err)
	}

	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	st, _ = rig.eng.IssuanceState()
	if st != state.Issued {
		t.Fatalf("state = %v, want Issued", st)
	}
	tokenID, _ := rig.eng.TokenID()
	if tokenID.IsEmpty() {
		t.Fatal("token identifier not stored")
	}
	if tokenID.Ticker() != "DATASFT" {
		t.Fatalf("ticker = %q, want DATASFT", tokenID.Ticker())
	}
}

func TestInitializeContract_FailureRefundsFee(t *testing.T) {
	rig := newTestRig(t)

	// The platform holds the fee during the async call; simulate it
	// sitting on the contract account so the refund can move it back.
	rig.led.Credit(types.NativeToken, 0, rig.issueFee())
	rig.led.FailNextIssue = true

	err := rig.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(rig.issueFee()))
	if err != nil {
		t.Fatalf("InitializeContract: %v", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}

	refund := rig.led.BalanceOf(testOwner, types.NativeToken, 0)
	if !refund.Eq(rig.issueFee()) {
		t.Fatalf("owner refund = %s, want %s", refund.Dec(), rig.issueFee().Dec())
	}
	st, _ := rig.eng.IssuanceState()
	if st != state.Uninitialized {
		t.Fatalf("state = %v, want Uninitialized after failure", st)
	}

	// Retry succeeds from scratch.
	rig.initialize(t)
}

func TestSetLocalRoles(t *testing.T) {
	rig := newTestRig(t)

	if err := rig.eng.SetLocalRoles(testOwner); !errors.Is(err, ErrTokenNotIssued) {
		t.Fatalf("before issuance: err = %v, want ErrTokenNotIssued", err)
	}

	err := rig.eng.InitializeContract(testOwner, "Data Units", "DATASFT",
		testTaxToken, uint256.NewInt(200), testCooldown, testTreasury,
		types.NativePayment(rig.issueFee()))
	if err != nil {
		t.Fatalf("InitializeContract: %v", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}

	// Failed grant rewinds to Issued so the owner can retry.
	rig.led.FailNextSetRoles = true
	if err := rig.eng.SetLocalRoles(testOwner); err != nil {
		t.Fatalf("SetLocalRoles: %v", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	st, _ := rig.eng.IssuanceState()
	if st != state.Issued {
		t.Fatalf("state = %v, want Issued after failed grant", st)
	}

	if err := rig.eng.SetLocalRoles(testOwner); err != nil {
		t.Fatalf("SetLocalRoles retry: %v", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	st, _ = rig.eng.IssuanceState()
	if st != state.Ready {
		t.Fatalf("state = %v, want Ready", st)
	}
}

// ── Mint ────────────────────────────────────────────────────────────────

func TestMint_HappyPath(t *testing.T) {
	rig := newTestRig(t)
	tokenID := rig.ready(t)

	attrs, nonce, err := rig.mint(t, validMintReq(), 300)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if nonce != 1 {
		t.Fatalf("nonce = %d, want 1", nonce)
	}
	if attrs.Creator != testUser {
		t.Fatalf("creator = %v, want %v", attrs.Creator, testUser)
	}
	if attrs.CreationTime != baseTime {
		t.Fatalf("creation time = %d, want %d", attrs.CreationTime, baseTime)
	}

	// Tax routed to the treasury.
	tax := rig.led.BalanceOf(testTreasury, testTaxToken, 0)
	if !tax.Eq(uint256.NewInt(200)) {
		t.Fatalf("treasury tax = %s, want 200", tax.Dec())
	}

	// Bond principal routed to the escrow vault, nothing retained by
	// the contract.
	escrowed := rig.led.BalanceOf(testBondAddr, testTaxToken, 0)
	if !escrowed.Eq(uint256.NewInt(100)) {
		t.Fatalf("escrowed bond = %s, want 100", escrowed.Dec())
	}
	retained, _ := rig.led.Balance(testTaxToken, 0)
	if !retained.IsZero() {
		t.Fatalf("contract retains %s of the payment token, want 0", retained.Dec())
	}

	// Bond recorded against the new unit.
	deposits := rig.vault.Deposits()
	if len(deposits) != 1 {
		t.Fatalf("deposits = %d, want 1", len(deposits))
	}
	d := deposits[0]
	if d.Caller != testUser || d.Token != tokenID || d.Nonce != nonce || d.LockPeriod != testLockPeriod {
		t.Fatalf("unexpected deposit %+v", d)
	}
	if !d.Payment.Amount.Eq(uint256.NewInt(100)) {
		t.Fatalf("bond amount = %s, want 100", d.Payment.Amount.Dec())
	}

	// Full supply delivered to the caller.
	units := rig.led.BalanceOf(testUser, tokenID, nonce)
	if !units.Eq(uint256.NewInt(100)) {
		t.Fatalf("caller units = %s, want 100", units.Dec())
	}

	total, _ := rig.eng.MintedTotal()
	if total != 100 {
		t.Fatalf("minted total = %d, want 100", total)
	}
	rec, _ := rig.eng.MintedForAddress(testUser)
	if rec.Minted != 100 || rec.LastMintTime != baseTime {
		t.Fatalf("mint record = %+v", rec)
	}
}

func TestMint_DonationSplit(t *testing.T) {
	rig := newTestRig(t)
	tokenID := rig.ready(t)

	if err := rig.eng.SetDonationTreasuryAddress(testOwner, testDonation); err != nil {
		t.Fatalf("SetDonationTreasuryAddress: %v", err)
	}
	if err := rig.eng.SetMaxDonationPercentage(testOwner, 500); err != nil {
		t.Fatalf("SetMaxDonationPercentage: %v", err)
	}

	req := validMintReq()
	req.DonationBP = 250 // 2.5% of 100 units, truncated.
	_, nonce, err := rig.mint(t, req, 300)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	donated := rig.led.BalanceOf(testDonation, tokenID, nonce)
	if !donated.Eq(uint256.NewInt(2)) {
		t.Fatalf("donation units = %s, want 2", donated.Dec())
	}
	kept := rig.led.BalanceOf(testUser, tokenID, nonce)
	if !kept.Eq(uint256.NewInt(98)) {
		t.Fatalf("caller units = %s, want 98", kept.Dec())
	}

	// Above the cap.
	req.DonationBP = 600
	if _, _, err := rig.mint(t, req, 300); !errors.Is(err, ErrMaxDonationExceeded) {
		t.Fatalf("err = %v, want ErrMaxDonationExceeded", err)
	}
}

func TestMint_DonationSplitHugeSupply(t *testing.T) {
	rig := newTestRig(t)
	tokenID := rig.ready(t)

	if err := rig.eng.SetDonationTreasuryAddress(testOwner, testDonation); err != nil {
		t.Fatalf("SetDonationTreasuryAddress: %v", err)
	}
	if err := rig.eng.SetMaxDonationPercentage(testOwner, 500); err != nil {
		t.Fatalf("SetMaxDonationPercentage: %v", err)
	}

	// supply * bp exceeds 64 bits; the split must still come out exact.
	const supply = uint64(4_000_000_000_000_000_000)
	if err := rig.eng.SetMaxSupply(testOwner, supply); err != nil {
		t.Fatalf("SetMaxSupply: %v", err)
	}

	req := validMintReq()
	req.Supply = supply
	req.DonationBP = 250
	_, nonce, err := rig.mint(t, req, 300)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	donated := rig.led.BalanceOf(testDonation, tokenID, nonce)
	if !donated.Eq(uint256.NewInt(100_000_000_000_000_000)) {
		t.Fatalf("donation units = %s, want 100000000000000000", donated.Dec())
	}
	kept := rig.led.BalanceOf(testUser, tokenID, nonce)
	if !kept.Eq(uint256.NewInt(3_900_000_000_000_000_000)) {
		t.Fatalf("caller units = %s, want 3900000000000000000", kept.Dec())
	}
}

func TestMint_WrongAmountLeavesNoState(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	_, _, err := rig.mint(t, validMintReq(), 299)
	if !errors.Is(err, ErrWrongAmountOfFunds) {
		t.Fatalf("err = %v, want ErrWrongAmountOfFunds", err)
	}

	// No partial effects.
	if tax := rig.led.BalanceOf(testTreasury, testTaxToken, 0); !tax.IsZero() {
		t.Fatalf("treasury tax = %s, want 0", tax.Dec())
	}
	if total, _ := rig.eng.MintedTotal(); total != 0 {
		t.Fatalf("minted total = %d, want 0", total)
	}
	if rec, _ := rig.eng.MintedForAddress(testUser); rec.LastMintTime != 0 {
		t.Fatalf("mint record written on failed mint: %+v", rec)
	}
	if n := len(rig.vault.Deposits()); n != 0 {
		t.Fatalf("deposits = %d, want 0", n)
	}
}

func TestMint_WrongBondPeriod(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	req := validMintReq()
	req.LockPeriod = 12345 // No quote configured.
	if _, _, err := rig.mint(t, req, 300); !errors.Is(err, ErrWrongBondPeriod) {
		t.Fatalf("err = %v, want ErrWrongBondPeriod", err)
	}
}

func TestMint_UnconfiguredPaymentToken(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	// A token without an anti-spam tax is not an accepted payment
	// token, even when the amount covers the bond.
	payment := types.NewPayment("JUNK-000000", 0, uint256.NewInt(100))
	rig.led.Credit(payment.Token, payment.Nonce, payment.Amount)
	_, _, err := rig.eng.Mint(testUser, validMintReq(), payment)
	if !errors.Is(err, ErrCannotBuyWithToken) {
		t.Fatalf("err = %v, want ErrCannotBuyWithToken", err)
	}

	if total, _ := rig.eng.MintedTotal(); total != 0 {
		t.Fatalf("minted total = %d, want 0", total)
	}
	if n := len(rig.vault.Deposits()); n != 0 {
		t.Fatalf("deposits = %d, want 0", n)
	}
}

func TestMint_BondContractAddressRequired(t *testing.T) {
	rig := newTestRig(t)
	rig.initialize(t)

	// Mintable in every respect except the escrow destination.
	if err := rig.eng.SetIsPaused(testOwner, false); err != nil {
		t.Fatalf("SetIsPaused: %v", err)
	}
	if err := rig.eng.SetRoyaltiesLimits(testOwner, 100, 8000); err != nil {
		t.Fatalf("SetRoyaltiesLimits: %v", err)
	}
	if err := rig.eng.SetMaxSupply(testOwner, 1000); err != nil {
		t.Fatalf("SetMaxSupply: %v", err)
	}
	if err := rig.eng.SetWhiteListSpots(testOwner, []types.Address{testUser}); err != nil {
		t.Fatalf("SetWhiteListSpots: %v", err)
	}
	rig.vault.SetBondAmount(testLockPeriod, uint256.NewInt(100))

	_, _, err := rig.mint(t, validMintReq(), 300)
	if !errors.Is(err, ErrBondContractNotSet) {
		t.Fatalf("err = %v, want ErrBondContractNotSet", err)
	}

	// The address is resolved before any funds move.
	if tax := rig.led.BalanceOf(testTreasury, testTaxToken, 0); !tax.IsZero() {
		t.Fatalf("treasury tax = %s, want 0", tax.Dec())
	}
}

func TestMint_Whitelist(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	stranger := types.Address{0x07}
	payment := types.NewPayment(testTaxToken, 0, uint256.NewInt(300))
	rig.led.Credit(payment.Token, payment.Nonce, payment.Amount)

	if _, _, err := rig.eng.Mint(stranger, validMintReq(), payment); !errors.Is(err, ErrNotWhitelisted) {
		t.Fatalf("err = %v, want ErrNotWhitelisted", err)
	}

	// Disabling enforcement opens the door.
	if err := rig.eng.SetWhiteListEnabled(testOwner, false); err != nil {
		t.Fatalf("SetWhiteListEnabled: %v", err)
	}
	if _, _, err := rig.eng.Mint(stranger, validMintReq(), payment); err != nil {
		t.Fatalf("Mint after disable: %v", err)
	}
}

func TestMint_Cooldown(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	if _, _, err := rig.mint(t, validMintReq(), 300); err != nil {
		t.Fatalf("first mint: %v", err)
	}
	if _, _, err := rig.mint(t, validMintReq(), 300); !errors.Is(err, ErrWaitMoreTime) {
		t.Fatalf("err = %v, want ErrWaitMoreTime", err)
	}

	rig.nowSec = baseTime + int64(testCooldown)
	if _, _, err := rig.mint(t, validMintReq(), 300); err != nil {
		t.Fatalf("mint after cooldown: %v", err)
	}
}

func TestMint_Validation(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	cases := []struct {
		name   string
		mutate func(*MintRequest)
		want   error
	}{
		{"empty stream", func(r *MintRequest) { r.DataStreamURL = "" }, ErrDataStreamEmpty},
		{"short url", func(r *MintRequest) { r.MediaURL = "https://a.b/1" }, ErrURLTooSmall},
		{"wrong scheme", func(r *MintRequest) { r.MetadataURL = "http://meta.example.com/m.json" }, ErrNotURL},
		{"url with space", func(r *MintRequest) { r.DataPreviewURL = "https://x.example.com/a b" }, ErrURLInvalidCharacters},
		{"bad extra asset", func(r *MintRequest) { r.ExtraAssets = []string{"ftp://x.example.com/asset"} }, ErrNotURL},
		{"empty title", func(r *MintRequest) { r.Title = "" }, ErrFieldEmpty},
		{"long title", func(r *MintRequest) { r.Title = "This title is far too long for the policy" }, ErrTooManyChars},
		{"royalties low", func(r *MintRequest) { r.Royalties = 50 }, ErrRoyaltiesTooSmall},
		{"royalties high", func(r *MintRequest) { r.Royalties = 9000 }, ErrRoyaltiesTooBig},
		{"zero supply", func(r *MintRequest) { r.Supply = 0 }, ErrSupplyMustBePositive},
		{"over max supply", func(r *MintRequest) { r.Supply = 5000 }, ErrMaxSupplyExceeded},
	}

	for _, tc := range cases {
		req := validMintReq()
		tc.mutate(&req)
		_, _, err := rig.mint(t, req, 300)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestMint_BlockedWhilePaused(t *testing.T) {
	rig := newTestRig(t)
	rig.initialize(t) // Leaves the deploy-time pause in place.

	_, _, err := rig.mint(t, validMintReq(), 300)
	if !errors.Is(err, ErrMintingAndBurningNotAllowed) {
		t.Fatalf("err = %v, want ErrMintingAndBurningNotAllowed", err)
	}
}

// ── Burn ────────────────────────────────────────────────────────────────

func TestBurn(t *testing.T) {
	rig := newTestRig(t)
	tokenID := rig.ready(t)
	_, nonce, err := rig.mint(t, validMintReq(), 300)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	wrong := types.NewPayment("OTHER-123456", nonce, uint256.NewInt(1))
	if err := rig.eng.Burn(testUser, wrong); !errors.Is(err, ErrWrongPayment) {
		t.Fatalf("err = %v, want ErrWrongPayment", err)
	}
	zero := types.NewPayment(tokenID, nonce, uint256.NewInt(0))
	if err := rig.eng.Burn(testUser, zero); !errors.Is(err, ErrValueMustBePositive) {
		t.Fatalf("err = %v, want ErrValueMustBePositive", err)
	}

	// Units sent back to the contract can be burned.
	rig.led.Credit(tokenID, nonce, uint256.NewInt(10))
	if err := rig.eng.Burn(testUser, types.NewPayment(tokenID, nonce, uint256.NewInt(10))); err != nil {
		t.Fatalf("Burn: %v", err)
	}
}

// ── Withdraw ────────────────────────────────────────────────────────────

func TestWithdraw(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	withdrawal := types.Address{0x05}
	royalty := types.TokenIdentifier("ITHEUM-abcdef")
	amount := uint256.NewInt(200)

	if err := rig.eng.Withdraw(withdrawal, royalty, 0, amount); !errors.Is(err, ErrWithdrawalAddressNotSet) {
		t.Fatalf("err = %v, want ErrWithdrawalAddressNotSet", err)
	}
	if err := rig.eng.SetWithdrawalAddress(testOwner, withdrawal); err != nil {
		t.Fatalf("SetWithdrawalAddress: %v", err)
	}
	if err := rig.eng.Withdraw(testUser, royalty, 0, amount); !errors.Is(err, ErrOnlyWithdrawalAddress) {
		t.Fatalf("err = %v, want ErrOnlyWithdrawalAddress", err)
	}
	if err := rig.eng.Withdraw(withdrawal, royalty, 0, uint256.NewInt(0)); !errors.Is(err, ErrValueMustBePositive) {
		t.Fatalf("err = %v, want ErrValueMustBePositive", err)
	}
	if err := rig.eng.Withdraw(withdrawal, royalty, 0, amount); !errors.Is(err, ErrNotEnoughFunds) {
		t.Fatalf("err = %v, want ErrNotEnoughFunds", err)
	}

	rig.led.Credit(royalty, 0, uint256.NewInt(500))
	if err := rig.eng.Withdraw(withdrawal, royalty, 0, amount); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	got := rig.led.BalanceOf(withdrawal, royalty, 0)
	if !got.Eq(amount) {
		t.Fatalf("withdrawn = %s, want %s", got.Dec(), amount.Dec())
	}
}

// ── Freeze ──────────────────────────────────────────────────────────────

func TestFreezeCollection(t *testing.T) {
	rig := newTestRig(t)

	if err := rig.eng.Freeze(testOwner, testUser); !errors.Is(err, ErrTokenNotIssued) {
		t.Fatalf("before issuance: err = %v, want ErrTokenNotIssued", err)
	}

	tokenID := rig.ready(t)

	if err := rig.eng.Freeze(testUser, testUser); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := rig.eng.Freeze(testOwner, testUser); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if err := rig.eng.Freeze(testOwner, testUser); !errors.Is(err, ErrAddressInCollectionFreezeList) {
		t.Fatalf("err = %v, want ErrAddressInCollectionFreezeList", err)
	}

	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	if !rig.led.IsFrozen(tokenID, testUser) {
		t.Fatal("registry restriction not applied")
	}

	addrs, err := rig.eng.FrozenAddresses()
	if err != nil {
		t.Fatalf("FrozenAddresses: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != testUser {
		t.Fatalf("frozen addresses = %v", addrs)
	}

	if err := rig.eng.Unfreeze(testOwner, testUser); err != nil {
		t.Fatalf("Unfreeze: %v", err)
	}
	if err := rig.eng.Unfreeze(testOwner, testUser); !errors.Is(err, ErrAddressNotInCollectionFreezeList) {
		t.Fatalf("err = %v, want ErrAddressNotInCollectionFreezeList", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	if rig.led.IsFrozen(tokenID, testUser) {
		t.Fatal("registry restriction not lifted")
	}
}

func TestPauseCollection(t *testing.T) {
	rig := newTestRig(t)

	if err := rig.eng.PauseCollection(testOwner); !errors.Is(err, ErrTokenNotIssued) {
		t.Fatalf("before issuance: err = %v, want ErrTokenNotIssued", err)
	}

	tokenID := rig.ready(t)

	if err := rig.eng.PauseCollection(testUser); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := rig.eng.PauseCollection(testOwner); err != nil {
		t.Fatalf("PauseCollection: %v", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	if !rig.led.IsCollectionPaused(tokenID) {
		t.Fatal("registry suspension not applied")
	}

	// The registry refuses unit creation while suspended.
	if _, _, err := rig.mint(t, validMintReq(), 300); err == nil {
		t.Fatal("mint succeeded on a suspended collection")
	}

	if err := rig.eng.UnpauseCollection(testUser); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := rig.eng.UnpauseCollection(testOwner); err != nil {
		t.Fatalf("UnpauseCollection: %v", err)
	}
	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	if rig.led.IsCollectionPaused(tokenID) {
		t.Fatal("registry suspension not lifted")
	}
	if _, _, err := rig.mint(t, validMintReq(), 300); err != nil {
		t.Fatalf("mint after unpause: %v", err)
	}
}

func TestFreezeSingleNFT(t *testing.T) {
	rig := newTestRig(t)
	tokenID := rig.ready(t)
	if err := rig.eng.SetAdministrator(testOwner, testAdmin); err != nil {
		t.Fatalf("SetAdministrator: %v", err)
	}

	// Administrator is privileged for unit-level freezes.
	if err := rig.eng.FreezeSingleNFT(testAdmin, 1, testUser); err != nil {
		t.Fatalf("FreezeSingleNFT: %v", err)
	}
	if err := rig.eng.FreezeSingleNFT(testAdmin, 1, testUser); !errors.Is(err, ErrNonceInFreezeList) {
		t.Fatalf("err = %v, want ErrNonceInFreezeList", err)
	}
	if err := rig.eng.FreezeSingleNFT(testAdmin, 2, testUser); err != nil {
		t.Fatalf("FreezeSingleNFT: %v", err)
	}
	if err := rig.eng.FreezeSingleNFT(testAdmin, 3, testUser); err != nil {
		t.Fatalf("FreezeSingleNFT: %v", err)
	}

	// The cached count always matches the set cardinality.
	count, err := rig.eng.FrozenCount(testUser)
	if err != nil {
		t.Fatalf("FrozenCount: %v", err)
	}
	if count != 3 {
		t.Fatalf("frozen count = %d, want 3", count)
	}

	if err := rig.eng.UnfreezeSingleNFT(testAdmin, 2, testUser); err != nil {
		t.Fatalf("UnfreezeSingleNFT: %v", err)
	}
	if err := rig.eng.UnfreezeSingleNFT(testAdmin, 2, testUser); !errors.Is(err, ErrNonceNotFoundInFreezeList) {
		t.Fatalf("err = %v, want ErrNonceNotFoundInFreezeList", err)
	}
	count, _ = rig.eng.FrozenCount(testUser)
	if count != 2 {
		t.Fatalf("frozen count = %d, want 2", count)
	}

	// Wipe requires the nonce to be frozen, then removes it.
	if err := rig.eng.WipeSingleNFT(testAdmin, 2, testUser); !errors.Is(err, ErrNonceNotFoundInFreezeList) {
		t.Fatalf("err = %v, want ErrNonceNotFoundInFreezeList", err)
	}
	if err := rig.eng.WipeSingleNFT(testAdmin, 1, testUser); err != nil {
		t.Fatalf("WipeSingleNFT: %v", err)
	}
	count, _ = rig.eng.FrozenCount(testUser)
	if count != 1 {
		t.Fatalf("frozen count = %d, want 1", count)
	}

	if err := rig.led.DeliverAll(); err != nil {
		t.Fatalf("DeliverAll: %v", err)
	}
	if !rig.led.IsUnitFrozen(tokenID, 3, testUser) {
		t.Fatal("nonce 3 not frozen in registry")
	}
	if rig.led.IsUnitFrozen(tokenID, 1, testUser) {
		t.Fatal("wiped nonce still frozen in registry")
	}
}

// ── Admin ───────────────────────────────────────────────────────────────

func TestAdminAuthorization(t *testing.T) {
	rig := newTestRig(t)

	if err := rig.eng.SetIsPaused(testUser, false); !errors.Is(err, ErrNotPrivileged) {
		t.Fatalf("err = %v, want ErrNotPrivileged", err)
	}
	if err := rig.eng.SetTreasuryAddress(testUser, testTreasury); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	// The administrator gets the privileged tier, not the owner tier.
	if err := rig.eng.SetAdministrator(testOwner, testAdmin); err != nil {
		t.Fatalf("SetAdministrator: %v", err)
	}
	if err := rig.eng.SetIsPaused(testAdmin, false); err != nil {
		t.Fatalf("SetIsPaused as admin: %v", err)
	}
	if err := rig.eng.SetTreasuryAddress(testAdmin, testTreasury); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestAdminBounds(t *testing.T) {
	rig := newTestRig(t)

	if err := rig.eng.SetRoyaltiesLimits(testOwner, 500, 500); !errors.Is(err, ErrMinRoyaltiesBiggerThanMax) {
		t.Fatalf("err = %v, want ErrMinRoyaltiesBiggerThanMax", err)
	}
	if err := rig.eng.SetRoyaltiesLimits(testOwner, 100, 20000); !errors.Is(err, ErrMaxRoyaltiesTooHigh) {
		t.Fatalf("err = %v, want ErrMaxRoyaltiesTooHigh", err)
	}
	if err := rig.eng.SetMaxSupply(testOwner, 0); !errors.Is(err, ErrValueMustBePositive) {
		t.Fatalf("err = %v, want ErrValueMustBePositive", err)
	}
	if err := rig.eng.SetMaxDonationPercentage(testOwner, 10001); !errors.Is(err, ErrMaxDonationExceeded) {
		t.Fatalf("err = %v, want ErrMaxDonationExceeded", err)
	}
}

func TestWhitelistBatches(t *testing.T) {
	rig := newTestRig(t)

	a := types.Address{0x11}
	b := types.Address{0x12}

	if err := rig.eng.SetWhiteListSpots(testOwner, nil); !errors.Is(err, ErrWhitelistEmpty) {
		t.Fatalf("err = %v, want ErrWhitelistEmpty", err)
	}
	if err := rig.eng.SetWhiteListSpots(testOwner, []types.Address{a}); err != nil {
		t.Fatalf("SetWhiteListSpots: %v", err)
	}

	// One already-present address aborts the whole batch.
	if err := rig.eng.SetWhiteListSpots(testOwner, []types.Address{b, a}); !errors.Is(err, ErrAlreadyInWhitelist) {
		t.Fatalf("err = %v, want ErrAlreadyInWhitelist", err)
	}
	out, err := rig.eng.UserData(b, testTaxToken)
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	if out.IsWhitelisted {
		t.Fatal("aborted batch inserted an address")
	}

	if err := rig.eng.RemoveWhiteListSpots(testOwner, []types.Address{a, b}); !errors.Is(err, ErrNotInWhitelist) {
		t.Fatalf("err = %v, want ErrNotInWhitelist", err)
	}
	if err := rig.eng.RemoveWhiteListSpots(testOwner, []types.Address{a}); err != nil {
		t.Fatalf("RemoveWhiteListSpots: %v", err)
	}
}

// ── Views ───────────────────────────────────────────────────────────────

func TestUserData(t *testing.T) {
	rig := newTestRig(t)
	rig.ready(t)

	if _, _, err := rig.mint(t, validMintReq(), 300); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := rig.eng.FreezeSingleNFT(testOwner, 1, testUser); err != nil {
		t.Fatalf("FreezeSingleNFT: %v", err)
	}

	out, err := rig.eng.UserData(testUser, testTaxToken)
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	if !out.AntiSpamTaxValue.Eq(uint256.NewInt(200)) {
		t.Fatalf("tax = %s, want 200", out.AntiSpamTaxValue.Dec())
	}
	if out.IsPaused {
		t.Fatal("paused after ready()")
	}
	if out.MinRoyalties != 100 || out.MaxRoyalties != 8000 {
		t.Fatalf("royalty limits = %d..%d", out.MinRoyalties, out.MaxRoyalties)
	}
	if out.MaxSupply != 1000 {
		t.Fatalf("max supply = %d", out.MaxSupply)
	}
	if out.MintTimeLimit != testCooldown {
		t.Fatalf("cooldown = %d", out.MintTimeLimit)
	}
	if out.LastMintTime != baseTime {
		t.Fatalf("last mint = %d", out.LastMintTime)
	}
	if !out.WhitelistEnabled || !out.IsWhitelisted {
		t.Fatalf("whitelist flags = %+v", out)
	}
	if len(out.FrozenNonces) != 1 || out.FrozenNonces[0] != 1 {
		t.Fatalf("frozen nonces = %v", out.FrozenNonces)
	}
}
