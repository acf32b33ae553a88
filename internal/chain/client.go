package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Client is the narrow read/write surface the wallet needs from a chain node.
// *RPCClient implements it against a JSON-RPC endpoint; tests substitute fakes.
type Client interface {
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	ChainID(ctx context.Context) (*big.Int, error)
}

type RPCClient struct {
	ec  *ethclient.Client
	log *zap.Logger
}

func Dial(ctx context.Context, rawURL string, log *zap.Logger) (*RPCClient, error) {
	ec, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	log.Info("chain rpc connected", zap.String("url", rawURL))
	return &RPCClient{ec: ec, log: log}, nil
}

func (c *RPCClient) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.ec.BalanceAt(ctx, addr, nil)
}

func (c *RPCClient) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	return c.ec.PendingNonceAt(ctx, addr)
}

func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.ec.SuggestGasPrice(ctx)
}

func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.ec.SendTransaction(ctx, tx)
}

func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.ec.ChainID(ctx)
}

func (c *RPCClient) Close() {
	c.ec.Close()
}

// IsValidAddress reports whether s is a syntactically valid 20-byte hex address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}
