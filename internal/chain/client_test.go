package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNFTClient(t *testing.T) *Client {
	parsed, err := abi.JSON(strings.NewReader(nftABI))
	require.NoError(t, err)
	return &Client{
		nftABI:  parsed,
		nftAddr: common.HexToAddress("0x0000000000000000000000000000000000000042"),
	}
}

func transferReceipt(c *Client, logAddr common.Address, tokenID *big.Int) *types.Receipt {
	return &types.Receipt{
		TxHash: common.HexToHash("0x01"),
		Logs: []*types.Log{{
			Address: logAddr,
			Topics: []common.Hash{
				c.nftABI.Events["Transfer"].ID,
				common.Hash{}, // from
				common.BytesToHash(common.HexToAddress("0xBEEF").Bytes()), // to
				common.BigToHash(tokenID),
			},
		}},
	}
}

func TestParseMintedTokenID(t *testing.T) {
	c := newNFTClient(t)
	receipt := transferReceipt(c, c.nftAddr, big.NewInt(42))

	tokenID, err := c.parseMintedTokenID(receipt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), tokenID)
}

func TestParseMintedTokenID_Overflow(t *testing.T) {
	c := newNFTClient(t)
	// 超出int64范围的token id报错而不是静默截断
	over := new(big.Int).Lsh(big.NewInt(1), 64)
	receipt := transferReceipt(c, c.nftAddr, over)

	_, err := c.parseMintedTokenID(receipt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows int64")
}

func TestParseMintedTokenID_IgnoresOtherContracts(t *testing.T) {
	c := newNFTClient(t)
	// 其他合约地址的Transfer事件不算
	other := common.HexToAddress("0x0000000000000000000000000000000000000099")
	receipt := transferReceipt(c, other, big.NewInt(7))

	_, err := c.parseMintedTokenID(receipt)
	require.Error(t, err)
}

func TestParseMintedTokenID_NoLogs(t *testing.T) {
	c := newNFTClient(t)
	_, err := c.parseMintedTokenID(&types.Receipt{TxHash: common.HexToHash("0x02")})
	require.Error(t, err)
}

func TestToWei(t *testing.T) {
	assert.Equal(t, "1000000000000000000", toWei(1).String())
	assert.Equal(t, "1500000000000000000", toWei(1.5).String())
	assert.Equal(t, "100000000000000000", toWei(0.1).String())
	assert.Equal(t, "0", toWei(0).String())
}
