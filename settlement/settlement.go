// Package settlement pays withdrawn escrow balances out to their owners.
package settlement

import (
	"context"
	"fmt"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/model"

	"github.com/google/uuid"
)

const (
	DriverLog      = "log"
	DriverAlgorand = "algorand"
)

// Account is the escrow payer on the settlement network.
type Account struct {
	AccountAddress     string
	SecurityPassphrase string
}

// NewLog returns a settler that only records payouts. It is meant for local
// runs where value moves outside the service.
func NewLog() *Log {
	return &Log{}
}

type Log struct{}

func (l *Log) Settle(ctx context.Context, to model.Identity, amount uint64) (string, error) {
	if err := model.ValidateIdentity(to); err != nil {
		return "", fmt.Errorf("settle: %w", err)
	}
	ref := uuid.New().String()
	logger.Infof(ctx, "settle: payout %s of %d to %s recorded", ref, amount, to)
	return ref, nil
}
