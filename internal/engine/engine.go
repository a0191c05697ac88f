// Package engine implements the collection's issuance, entitlement,
// mint, compliance and treasury logic over a persistent state store.
// External token operations go through ledger.Service and bond.Contract;
// the engine never touches their state directly.
package engine

import (
	"sync"
	"time"

	"github.com/datadex-tech/datamint/config"
	"github.com/datadex-tech/datamint/internal/bond"
	"github.com/datadex-tech/datamint/internal/ledger"
	"github.com/datadex-tech/datamint/internal/log"
	"github.com/datadex-tech/datamint/internal/state"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/rs/zerolog"
)

// Engine is the aggregate over all contract modules. One instance per
// collection; methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	store  *state.Store
	ledger ledger.Service
	bond   bond.Contract
	owner  types.Address
	policy config.PolicyConfig
	logger zerolog.Logger

	now func() time.Time
}

// New creates the engine. On first run it writes the deploy-time
// defaults: minting paused and whitelist enforcement on.
func New(store *state.Store, ledgerSvc ledger.Service, bondContract bond.Contract,
	owner types.Address, policy config.PolicyConfig) (*Engine, error) {
	e := &Engine{
		store:  store,
		ledger: ledgerSvc,
		bond:   bondContract,
		owner:  owner,
		policy: policy,
		logger: log.Engine,
		now:    time.Now,
	}

	booted, err := store.Bootstrapped()
	if err != nil {
		return nil, err
	}
	if !booted {
		if err := store.SetPaused(true); err != nil {
			return nil, err
		}
		if err := store.SetWhitelistEnabled(true); err != nil {
			return nil, err
		}
		if err := store.SetBootstrapped(); err != nil {
			return nil, err
		}
		e.logger.Info().Msg("deploy defaults written: paused, whitelist on")
	}
	return e, nil
}

// Owner returns the deploying owner address.
func (e *Engine) Owner() types.Address {
	return e.owner
}
