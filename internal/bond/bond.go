// Package bond defines the contract surface of the external bond vault
// the minter deposits into. The vault quotes a bond amount per lock
// period and takes custody of the bond payment alongside each mint.
package bond

import (
	"fmt"
	"sync"

	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// Contract is the synchronous call surface of the bond vault. Both calls
// execute in the caller's transaction; an error aborts the whole
// operation.
type Contract interface {
	// BondAmount quotes the bond for a lock period. A zero quote means
	// the period is not configured.
	BondAmount(lockPeriod uint64) (*uint256.Int, error)

	// Deposit places the bond payment under the vault's custody on
	// behalf of the original caller.
	Deposit(caller types.Address, token types.TokenIdentifier, nonce uint64,
		lockPeriod uint64, payment types.Payment) error
}

// Memory is an in-process vault used by the dev daemon and tests.
type Memory struct {
	mu       sync.Mutex
	quotes   map[uint64]*uint256.Int
	deposits []Deposit
}

// Deposit is one recorded vault entry.
type Deposit struct {
	Caller     types.Address
	Token      types.TokenIdentifier
	Nonce      uint64
	LockPeriod uint64
	Payment    types.Payment
}

// NewMemory creates an empty vault with no configured lock periods.
func NewMemory() *Memory {
	return &Memory{quotes: make(map[uint64]*uint256.Int)}
}

// SetBondAmount configures the quote for a lock period.
func (m *Memory) SetBondAmount(lockPeriod uint64, amount *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[lockPeriod] = new(uint256.Int).Set(amount)
}

func (m *Memory) BondAmount(lockPeriod uint64) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.quotes[lockPeriod]; ok {
		return new(uint256.Int).Set(q), nil
	}
	return uint256.NewInt(0), nil
}

func (m *Memory) Deposit(caller types.Address, token types.TokenIdentifier, nonce uint64,
	lockPeriod uint64, payment types.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.quotes[lockPeriod]
	if !ok || q.IsZero() {
		return fmt.Errorf("lock period %d not configured", lockPeriod)
	}
	if payment.Amount == nil || !payment.Amount.Eq(q) {
		return fmt.Errorf("bond payment %s does not match quote %s", payment.Amount, q)
	}
	m.deposits = append(m.deposits, Deposit{
		Caller:     caller,
		Token:      token,
		Nonce:      nonce,
		LockPeriod: lockPeriod,
		Payment:    payment,
	})
	return nil
}

// Deposits returns a copy of the recorded entries.
func (m *Memory) Deposits() []Deposit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Deposit, len(m.deposits))
	copy(out, m.deposits)
	return out
}
