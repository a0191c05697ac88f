package engine

import "errors"

// User-facing revert errors. The strings are part of the contract's
// public behavior, so they are not reworded.
var (
	// Access control.
	ErrNotOwner      = errors.New("Endpoint can only be called by owner")
	ErrNotPrivileged = errors.New("Address is not privileged")

	// State preconditions.
	ErrContractAlreadyInitialized  = errors.New("Contract was already initialized")
	ErrTokenNotIssued              = errors.New("Token not issued")
	ErrTokenAlreadyIssued          = errors.New("Token already issued")
	ErrMintingAndBurningNotAllowed = errors.New("Minting and burning not allowed")

	// Payments.
	ErrIssueCost           = errors.New("Issue cost is 0.05 eGLD")
	ErrCannotBuyWithToken  = errors.New("Cannot buy with this token")
	ErrBondContractNotSet  = errors.New("Bond contract address not set")
	ErrWrongAmountOfFunds  = errors.New("Wrong amount of funds")
	ErrWrongBondPeriod     = errors.New("Wrong bond period")
	ErrWrongPayment        = errors.New("Wrong amount of payment sent")
	ErrValueMustBePositive = errors.New("Value must be higher than zero")

	// Entitlement.
	ErrWaitMoreTime   = errors.New("You need to wait more time before minting again")
	ErrNotWhitelisted = errors.New("You are not whitelisted")

	// Input validation.
	ErrMinRoyaltiesBiggerThanMax = errors.New("Min royalties bigger than max royalties")
	ErrMaxRoyaltiesTooHigh       = errors.New("Max royalties too high")
	ErrRoyaltiesTooSmall         = errors.New("Royalties are smaller than min royalties")
	ErrRoyaltiesTooBig           = errors.New("Royalties are bigger than max royalties")
	ErrSupplyMustBePositive      = errors.New("Supply must be higher than zero")
	ErrMaxSupplyExceeded         = errors.New("Max supply exceeded")
	ErrMaxDonationExceeded       = errors.New("Max donation percentage exceeded")
	ErrURLIsEmpty                = errors.New("URL is empty")
	ErrURLTooSmall               = errors.New("URL length is too small")
	ErrURLTooBig                 = errors.New("URL length is too big")
	ErrURLInvalidCharacters      = errors.New("URL contains invalid characters")
	ErrNotURL                    = errors.New("URL must start with https://")
	ErrDataStreamEmpty           = errors.New("Data Stream is empty")
	ErrFieldEmpty                = errors.New("Field is empty")
	ErrTooManyChars              = errors.New("Too many characters")

	// Whitelist mutations.
	ErrWhitelistEmpty     = errors.New("Given whitelist is empty")
	ErrAlreadyInWhitelist = errors.New("Address already in whitelist")
	ErrNotInWhitelist     = errors.New("Address not in whitelist")

	// Freeze ledger.
	ErrAddressInCollectionFreezeList    = errors.New("Address is in collection freeze list")
	ErrAddressNotInCollectionFreezeList = errors.New("Address is not in collection freeze list")
	ErrNonceInFreezeList                = errors.New("Nonce is in freeze list")
	ErrNonceNotFoundInFreezeList        = errors.New("Nonce not found in freeze list")

	// Withdraw.
	ErrWithdrawalAddressNotSet = errors.New("Withdrawal address not set")
	ErrOnlyWithdrawalAddress   = errors.New("Only withdrawal address can withdraw tokens")
	ErrNotEnoughFunds          = errors.New("Not enough funds")
)
