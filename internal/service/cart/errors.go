package cart

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/cinema/internal/domain"
)

var (
	ErrCartNotFound            = errors.New("cart not found or expired")
	ErrComboNotFound           = errors.New("combo not found")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrCustomerDetailsRequired = errors.New("customer name and email are required")
	ErrCheckoutInProgress      = errors.New("checkout already in progress")
	ErrCheckoutFailed          = errors.New("could not complete the purchase")
)

// PartialCheckoutError reports a checkout that stopped after some purchases
// were already recorded. Those purchases stay recorded.
type PartialCheckoutError struct {
	Submitted []domain.ComboPurchase
	Total     int
	Err       error
}

func (e *PartialCheckoutError) Error() string {
	return fmt.Sprintf("checkout stopped after %d of %d items: %v", len(e.Submitted), e.Total, e.Err)
}

func (e *PartialCheckoutError) Unwrap() []error {
	return []error{ErrCheckoutFailed, e.Err}
}
