package vault

import (
	"fmt"
	"ticketing-marketplace-backend/settlement"

	"github.com/hashicorp/vault/api"
)

const (
	AccountAddress     = "account_address"
	SecurityPassphrase = "security_passphrase"
)

// Logical is the part of the vault client used to read secrets.
type Logical interface {
	Read(path string) (*api.Secret, error)
}

type Vault struct {
	EscrowPath string
	Logical    Logical
}

func New(token, address, escrowPath string) (*Vault, error) {
	config := &api.Config{
		Address: address,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("new: error initializing vault: %w", err)
	}

	client.SetToken(token)

	status, err := client.Sys().SealStatus()
	if err != nil {
		return nil, fmt.Errorf("new: error getting seal status: %w", err)
	}
	if status.Sealed {
		return nil, fmt.Errorf("new: vault at %s is sealed", address)
	}

	return &Vault{EscrowPath: escrowPath, Logical: client.Logical()}, nil
}

// EscrowAccount reads the settlement payer account.
func (v *Vault) EscrowAccount() (*settlement.Account, error) {
	secret, err := v.Logical.Read(v.EscrowPath)
	if err != nil {
		return nil, fmt.Errorf("escrowAccount: could not read %s: %w", v.EscrowPath, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("escrowAccount: no secret at %s", v.EscrowPath)
	}

	accountAddress, ok := secret.Data[AccountAddress].(string)
	if !ok {
		return nil, fmt.Errorf("escrowAccount: account address not found")
	}
	securityPassphrase, ok := secret.Data[SecurityPassphrase].(string)
	if !ok {
		return nil, fmt.Errorf("escrowAccount: security passphrase not found")
	}

	return &settlement.Account{
		AccountAddress:     accountAddress,
		SecurityPassphrase: securityPassphrase,
	}, nil
}
