// Package upgrade authorizes parachain runtime upgrades from a compiled runtime blob.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/governance"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

// HashWasm returns the blake2b-256 hash of the runtime blob at path. The blob is not
// inspected.
func HashWasm(path string) (types.Hash, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Hash{}, fmt.Errorf("failed to read wasm file: %w", err)
	}

	return types.NewHash(substrate.HashBytes(b)), nil
}

// AuthorizeUpgradeCall builds ParachainSystem.authorize_upgrade for codeHash with the
// runtime version check enabled.
func AuthorizeUpgradeCall(b *substrate.Builder, codeHash types.Hash) (substrate.Call, error) {
	return b.AuthorizeUpgrade(codeHash, true)
}

// Dispatcher routes the authorization call through governance. *governance.Dispatcher
// satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, call substrate.Call, mode governance.Mode) error
}

// Config holds the configuration of an Authorizer.
type Config struct {
	// Required: Builds the authorization call for the target chain.
	Builder *substrate.Builder
	// Required
	Dispatcher Dispatcher
	// Required
	Logger logger.Logger
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Builder == nil {
		missing = append(missing, "Builder")
	}
	if c.Dispatcher == nil {
		missing = append(missing, "Dispatcher")
	}
	if c.Logger == nil {
		missing = append(missing, "Logger")
	}

	if len(missing) > 0 {
		return errors.New("upgrade.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

// Authorizer hashes runtime blobs and dispatches their authorization.
type Authorizer struct {
	cfg Config
}

// NewAuthorizer returns an Authorizer for cfg.
func NewAuthorizer(cfg Config) (*Authorizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Authorizer{cfg: cfg}, nil
}

// Run hashes the blob at wasmPath and dispatches its authorization with mode. It returns the
// code hash.
func (a *Authorizer) Run(ctx context.Context, wasmPath string, mode governance.Mode) (types.Hash, error) {
	hash, err := HashWasm(wasmPath)
	if err != nil {
		return types.Hash{}, err
	}
	a.cfg.Logger.Infow("Hashed wasm file", "file", wasmPath, "hash", hash.Hex())

	call, err := AuthorizeUpgradeCall(a.cfg.Builder, hash)
	if err != nil {
		return types.Hash{}, err
	}

	if err := a.cfg.Dispatcher.Dispatch(ctx, call, mode); err != nil {
		return hash, fmt.Errorf("failed to dispatch upgrade authorization: %w", err)
	}

	return hash, nil
}
