// Package blockchain confirms recorded payments against an EVM node.
package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/chris/gig-agreements/pkg/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownNetwork is returned for a network missing from the table.
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrInvalidHash is returned for a malformed transaction hash.
	ErrInvalidHash = errors.New("invalid transaction hash")
)

// DefaultTolerance is the accepted relative difference between the
// transferred and the expected value.
var DefaultTolerance = decimal.New(1, -2)

const defaultTimeout = 15 * time.Second

// weiExponent scales wei to ether.
const weiExponent = -18

// EVMClient defines the subset of the Ethereum RPC used by the verifier.
type EVMClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, bool, error)
	Close()
}

// Dialer opens a client for an RPC endpoint.
type Dialer func(ctx context.Context, endpoint string) (EVMClient, error)

// DialEVMClient initialises an EVM RPC client for the provided endpoint.
func DialEVMClient(ctx context.Context, endpoint string) (EVMClient, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("evm endpoint required")
	}
	client, err := ethclient.DialContext(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Receipt is what the chain reports for a transaction hash.
type Receipt struct {
	TxHash        string
	Network       string
	Success       bool
	BlockNumber   uint64
	Confirmations uint64
	GasUsed       uint64
	To            string
	// Value is the native value transferred, in ether.
	Value models.Amount
}

// Proof converts the receipt to the proof stored on a transaction.
func (r *Receipt) Proof(at time.Time) models.ChainProof {
	return models.ChainProof{
		TxHash:        r.TxHash,
		BlockNumber:   r.BlockNumber,
		Network:       r.Network,
		Confirmations: r.Confirmations,
		GasUsed:       r.GasUsed,
		VerifiedAt:    &at,
	}
}

// Result is the outcome of checking a receipt against expectations.
type Result struct {
	Verified bool
	Reason   string
	Receipt  *Receipt
}

// Verifier resolves transaction hashes on the configured networks. Clients
// are dialed lazily and reused until Close.
type Verifier struct {
	networks  Networks
	dial      Dialer
	tolerance decimal.Decimal
	timeout   time.Duration

	mu      sync.Mutex
	clients map[string]EVMClient
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithDialer replaces the RPC dialer.
func WithDialer(d Dialer) Option { return func(v *Verifier) { v.dial = d } }

// WithTolerance sets the relative value tolerance.
func WithTolerance(t decimal.Decimal) Option { return func(v *Verifier) { v.tolerance = t } }

// WithTimeout bounds each verification.
func WithTimeout(d time.Duration) Option { return func(v *Verifier) { v.timeout = d } }

// NewVerifier constructs a verifier over the network table.
func NewVerifier(networks Networks, opts ...Option) *Verifier {
	v := &Verifier{
		networks:  networks,
		dial:      DialEVMClient,
		tolerance: DefaultTolerance,
		timeout:   defaultTimeout,
		clients:   make(map[string]EVMClient),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Network returns the configured network by name.
func (v *Verifier) Network(name string) (Network, error) {
	return v.networks.Lookup(name)
}

func (v *Verifier) client(ctx context.Context, net Network) (EVMClient, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c, ok := v.clients[net.Name]; ok {
		return c, nil
	}
	c, err := v.dial(ctx, net.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", net.Name, err)
	}
	v.clients[net.Name] = c
	return c, nil
}

// Close releases every open RPC client.
func (v *Verifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for name, c := range v.clients {
		c.Close()
		delete(v.clients, name)
	}
}

// ParseHash validates a 32-byte hex transaction hash.
func ParseHash(txHash string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(txHash))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidHash, txHash)
	}
	return common.BytesToHash(b), nil
}

// Verify fetches the receipt for txHash on network and checks that it
// succeeded, has the network's required confirmations and, when expected is
// set, moved that value within tolerance. Business failures come back as a
// Result with Verified=false; RPC failures are returned as errors.
func (v *Verifier) Verify(ctx context.Context, txHash, network string, expected *models.Amount) (*Result, error) {
	hash, err := ParseHash(txHash)
	if err != nil {
		return nil, err
	}
	net, err := v.networks.Lookup(network)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	client, err := v.client(ctx, net)
	if err != nil {
		return nil, err
	}

	receipt, err := client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return &Result{Reason: fmt.Sprintf("transaction %s not found on %s", hash.Hex(), net.Name)}, nil
		}
		return nil, fmt.Errorf("fetch receipt: %w", err)
	}
	if receipt == nil || receipt.BlockNumber == nil {
		return nil, fmt.Errorf("transaction receipt missing")
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch head: %w", err)
	}
	if header == nil || header.Number == nil {
		return nil, fmt.Errorf("block metadata unavailable")
	}

	out := &Receipt{
		TxHash:      hash.Hex(),
		Network:     net.Name,
		Success:     receipt.Status == gethtypes.ReceiptStatusSuccessful,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Value:       models.Zero,
	}
	if header.Number.Cmp(receipt.BlockNumber) >= 0 {
		confirmed := new(big.Int).Sub(header.Number, receipt.BlockNumber)
		confirmed.Add(confirmed, big.NewInt(1))
		out.Confirmations = confirmed.Uint64()
	}

	tx, _, err := client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction: %w", err)
	}
	if tx != nil {
		if tx.Value() != nil {
			out.Value = models.AmountFromDecimal(decimal.NewFromBigInt(tx.Value(), weiExponent))
		}
		if tx.To() != nil {
			out.To = strings.ToLower(tx.To().Hex())
		}
	}

	res := &Result{Receipt: out}
	switch {
	case !out.Success:
		res.Reason = fmt.Sprintf("transaction %s reverted", out.TxHash)
	case out.Confirmations < net.Confirmations:
		res.Reason = fmt.Sprintf("insufficient confirmations: have %d want %d", out.Confirmations, net.Confirmations)
	case expected != nil && !v.withinTolerance(out.Value, *expected):
		res.Reason = fmt.Sprintf("value mismatch: transferred %s, expected %s", out.Value, expected)
	default:
		res.Verified = true
	}
	return res, nil
}

func (v *Verifier) withinTolerance(got, want models.Amount) bool {
	diff := got.Decimal().Sub(want.Decimal()).Abs()
	return diff.LessThanOrEqual(want.Decimal().Abs().Mul(v.tolerance))
}
