package game

import (
	"errors"
	"fmt"

	"github.com/wonny/stockpick/internal/contracts"
)

var (
	// ErrInsufficientEntities: the universe holds fewer companies than the catalog needs
	ErrInsufficientEntities = errors.New("insufficient companies in universe")

	// ErrUnknownIndex: a draft pick names an index that is not in the catalog.
	// Recoverable; the same player is asked again.
	ErrUnknownIndex = errors.New("unknown catalog index")

	// ErrMissingStartPrice: a held company has no price at the start month
	ErrMissingStartPrice = errors.New("missing start price")

	// ErrNoEndPeriodData: no player has a value at the end month
	ErrNoEndPeriodData = errors.New("no end period data")

	// ErrProviderUnavailable: storage or market-data failure; the game aborts
	ErrProviderUnavailable = errors.New("price provider unavailable")

	// ErrInvalidPlayer: empty or duplicate name, non-positive budget
	ErrInvalidPlayer = errors.New("invalid player")
)

// MissingStartPriceError identifies the company and month lacking a price
type MissingStartPriceError struct {
	Company contracts.Company
	Period  contracts.Period
}

func (e *MissingStartPriceError) Error() string {
	return fmt.Sprintf("%s: %s has no price at %s", ErrMissingStartPrice, e.Company, e.Period)
}

// Is lets errors.Is(err, ErrMissingStartPrice) match
func (e *MissingStartPriceError) Is(target error) bool {
	return target == ErrMissingStartPrice
}
