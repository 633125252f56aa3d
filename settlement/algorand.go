package settlement

import (
	"context"
	"errors"
	"fmt"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/model"

	"github.com/algorand/go-algorand-sdk/client/algod"
	"github.com/algorand/go-algorand-sdk/crypto"
	"github.com/algorand/go-algorand-sdk/mnemonic"
	"github.com/algorand/go-algorand-sdk/transaction"
	"github.com/algorand/go-algorand-sdk/types"
)

// validRounds bounds how long a signed payout can still land. Once the node
// is past the last valid round an unconfirmed payout can never confirm.
const validRounds = 10

var errExpired = errors.New("transaction expired unconfirmed")

// Algorand pays out from the escrow account with plain payment transactions.
// Identities must be Algorand addresses.
type Algorand struct {
	from         *Account
	apiAddress   string
	apiKey       string
	amountFactor uint64
	minFee       uint64
}

// NewAlgorand returns a settler paying amount*amountFactor microalgos per
// unit withdrawn.
func NewAlgorand(from *Account, apiAddress, apiKey string, amountFactor, minFee uint64) *Algorand {
	if amountFactor == 0 {
		amountFactor = 1
	}
	return &Algorand{
		from:         from,
		apiAddress:   apiAddress,
		apiKey:       apiKey,
		amountFactor: amountFactor,
		minFee:       minFee,
	}
}

func (a *Algorand) Settle(ctx context.Context, to model.Identity, amount uint64) (string, error) {
	if _, err := types.DecodeAddress(string(to)); err != nil {
		return "", fmt.Errorf("settle: identity %s is not an algorand address: %w", to, err)
	}

	algodClient, err := a.client()
	if err != nil {
		return "", err
	}

	txParams, err := algodClient.SuggestedParams()
	if err != nil {
		return "", fmt.Errorf("settle: error getting suggested tx params: %w", err)
	}

	note := []byte(fmt.Sprintf("Escrow payout of %d to %s", amount, to))
	firstValidRound := txParams.LastRound
	lastValidRound := firstValidRound + validRounds

	txn, err := transaction.MakePaymentTxnWithFlatFee(a.from.AccountAddress, string(to), a.minFee, amount*a.amountFactor,
		firstValidRound, lastValidRound, note, "", txParams.GenesisID, txParams.GenesisHash)
	if err != nil {
		return "", fmt.Errorf("settle: error creating transaction: %w", err)
	}

	privateKey, err := mnemonic.ToPrivateKey(a.from.SecurityPassphrase)
	if err != nil {
		return "", fmt.Errorf("settle: error getting private key from mnemonic: %w", err)
	}

	txID, stx, err := crypto.SignTransaction(privateKey, txn)
	if err != nil {
		return "", fmt.Errorf("settle: failed to sign transaction: %w", err)
	}
	logger.Infof(ctx, "settle: signed txid: %s", txID)

	txHeaders := append([]*algod.Header{}, &algod.Header{Key: "Content-Type", Value: "application/x-binary"})
	if _, err := algodClient.SendRawTransaction(stx, txHeaders...); err != nil {
		return "", fmt.Errorf("settle: failed to send transaction: %w", err)
	}

	err = waitForConfirmation(ctx, algodClient, txID, lastValidRound)
	switch {
	case err == nil:
		return txID, nil
	case errors.Is(err, errExpired):
		return "", fmt.Errorf("settle: transaction %s: %w", txID, err)
	default:
		return txID, fmt.Errorf("settle: transaction %s: %v: %w", txID, err, marketplace.ErrSettlementUnconfirmed)
	}
}

func (a *Algorand) client() (algod.Client, error) {
	headers := []*algod.Header{{Key: "X-API-Key", Value: a.apiKey}}
	algodClient, err := algod.MakeClientWithHeaders(a.apiAddress, "", headers)
	if err != nil {
		return algod.Client{}, fmt.Errorf("client: error connecting to algod: %w", err)
	}
	return algodClient, nil
}

// waitForConfirmation polls until txID is in a block or the node is past
// lastValid. It returns errExpired only when the node answered for txID after
// lastValid without a confirmed round; any other error leaves the outcome
// open.
func waitForConfirmation(ctx context.Context, algodClient algod.Client, txID string, lastValid uint64) error {
	nodeStatus, err := algodClient.Status()
	if err != nil {
		return fmt.Errorf("waitForConfirmation: error getting algod status: %w", err)
	}
	round := nodeStatus.LastRound

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pt, err := algodClient.PendingTransactionInformation(txID)
		switch {
		case err != nil && round > lastValid:
			return fmt.Errorf("waitForConfirmation: no status for %s past round %d: %w", txID, lastValid, err)
		case err != nil:
			logger.Infof(ctx, "waitForConfirmation: waiting for %s: %s", txID, err)
		case pt.ConfirmedRound > 0:
			logger.Infof(ctx, "waitForConfirmation: transaction %s confirmed in round %d", txID, pt.ConfirmedRound)
			return nil
		case round > lastValid:
			return fmt.Errorf("waitForConfirmation: round %d is past %d: %w", round, lastValid, errExpired)
		}

		status, err := algodClient.StatusAfterBlock(round)
		if err != nil {
			return fmt.Errorf("waitForConfirmation: error waiting for round %d: %w", round, err)
		}
		round = status.LastRound
	}
}
