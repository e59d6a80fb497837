package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/parthparmar07/ChainFund/internal/config"
)

// 工厂合约ABI定义（简化版）
const factoryABI = `[
	{
		"inputs": [
			{"name": "creator", "type": "address"},
			{"name": "goalAmount", "type": "uint256"},
			{"name": "milestoneCount", "type": "uint256"}
		],
		"name": "createCampaign",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// 众筹合约ABI定义（简化版）
const campaignABI = `[
	{
		"inputs": [
			{"name": "backer", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "fund",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "milestoneIndex", "type": "uint256"}],
		"name": "releaseMilestone",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// NFT合约ABI定义（简化版）
const nftABI = `[
	{
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "tier", "type": "string"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "mint",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "skillLevel", "type": "string"},
			{"name": "skillScore", "type": "uint256"}
		],
		"name": "mintSkillNFT",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "tokenId", "type": "uint256"},
			{"name": "newSkillLevel", "type": "string"},
			{"name": "newSkillScore", "type": "uint256"}
		],
		"name": "updateSkillNFT",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": true, "name": "to", "type": "address"},
			{"indexed": true, "name": "tokenId", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	}
]`

// Client 基于go-ethereum的链网关实现
type Client struct {
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
	chainId     *big.Int
	gasLimit    uint64
	factoryAddr common.Address
	nftAddr     common.Address

	factoryABI  abi.ABI
	campaignABI abi.ABI
	nftABI      abi.ABI
}

var _ Gateway = (*Client)(nil)

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接链节点
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	// 解析ABI
	parsedFactory, err := abi.JSON(strings.NewReader(factoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}
	parsedCampaign, err := abi.JSON(strings.NewReader(campaignABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse campaign ABI: %w", err)
	}
	parsedNFT, err := abi.JSON(strings.NewReader(nftABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NFT ABI: %w", err)
	}

	return &Client{
		client:      client,
		privateKey:  privateKey,
		chainId:     big.NewInt(cfg.ChainId),
		gasLimit:    cfg.GasLimit,
		factoryAddr: common.HexToAddress(cfg.FactoryAddress),
		nftAddr:     common.HexToAddress(cfg.NFTAddress),
		factoryABI:  parsedFactory,
		campaignABI: parsedCampaign,
		nftABI:      parsedNFT,
	}, nil
}

// DeployCampaign 通过工厂合约部署众筹合约
func (c *Client) DeployCampaign(ctx context.Context, creator string, goalAmount float64, milestoneCount int) (string, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return "", err
	}

	contract := bind.NewBoundContract(c.factoryAddr, c.factoryABI, c.client, c.client, c.client)
	tx, err := contract.Transact(opts, "createCampaign",
		common.HexToAddress(creator), toWei(goalAmount), big.NewInt(int64(milestoneCount)))
	if err != nil {
		return "", fmt.Errorf("failed to deploy campaign contract: %w", err)
	}

	// 等待交易上链，从事件日志中取出新合约地址
	receipt, err := c.waitMined(ctx, tx)
	if err != nil {
		return "", err
	}
	if len(receipt.Logs) == 0 {
		return "", fmt.Errorf("deploy transaction %s produced no logs", tx.Hash().Hex())
	}

	return receipt.Logs[0].Address.Hex(), nil
}

// FundCampaign 向众筹合约注资
func (c *Client) FundCampaign(ctx context.Context, contractAddress, backer string, amount float64) (string, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return "", err
	}
	opts.Value = toWei(amount)

	contract := bind.NewBoundContract(common.HexToAddress(contractAddress), c.campaignABI, c.client, c.client, c.client)
	tx, err := contract.Transact(opts, "fund", common.HexToAddress(backer), toWei(amount))
	if err != nil {
		return "", fmt.Errorf("failed to fund campaign: %w", err)
	}

	return tx.Hash().Hex(), nil
}

// ReleaseMilestone 释放里程碑资金
func (c *Client) ReleaseMilestone(ctx context.Context, contractAddress string, milestoneIndex int) (string, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return "", err
	}

	contract := bind.NewBoundContract(common.HexToAddress(contractAddress), c.campaignABI, c.client, c.client, c.client)
	tx, err := contract.Transact(opts, "releaseMilestone", big.NewInt(int64(milestoneIndex)))
	if err != nil {
		return "", fmt.Errorf("failed to release milestone %d: %w", milestoneIndex, err)
	}

	if _, err := c.waitMined(ctx, tx); err != nil {
		return "", err
	}

	return tx.Hash().Hex(), nil
}

// MintNFT 为支持者铸造NFT
func (c *Client) MintNFT(ctx context.Context, owner, tier string, amount float64) (int64, string, error) {
	return c.mint(ctx, "mint", common.HexToAddress(owner), tier, toWei(amount))
}

// MintSkillNFT 铸造soulbound技能NFT
func (c *Client) MintSkillNFT(ctx context.Context, owner, level string, score float64) (int64, string, error) {
	return c.mint(ctx, "mintSkillNFT", common.HexToAddress(owner), level, big.NewInt(int64(score)))
}

// UpdateSkillNFT 更新技能NFT的等级与评分
func (c *Client) UpdateSkillNFT(ctx context.Context, tokenID int64, level string, score float64) (string, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return "", err
	}

	contract := bind.NewBoundContract(c.nftAddr, c.nftABI, c.client, c.client, c.client)
	tx, err := contract.Transact(opts, "updateSkillNFT",
		big.NewInt(tokenID), level, big.NewInt(int64(score)))
	if err != nil {
		return "", fmt.Errorf("failed to update skill NFT %d: %w", tokenID, err)
	}

	if _, err := c.waitMined(ctx, tx); err != nil {
		return "", err
	}

	return tx.Hash().Hex(), nil
}

// mint 调用NFT合约铸造，从Transfer事件中解析token id
func (c *Client) mint(ctx context.Context, method string, to common.Address, label string, value *big.Int) (int64, string, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return 0, "", err
	}

	contract := bind.NewBoundContract(c.nftAddr, c.nftABI, c.client, c.client, c.client)
	tx, err := contract.Transact(opts, method, to, label, value)
	if err != nil {
		return 0, "", fmt.Errorf("failed to call %s: %w", method, err)
	}

	receipt, err := c.waitMined(ctx, tx)
	if err != nil {
		return 0, "", err
	}

	tokenID, err := c.parseMintedTokenID(receipt)
	if err != nil {
		return 0, "", err
	}

	return tokenID, tx.Hash().Hex(), nil
}

// parseMintedTokenID 从回执的Transfer事件中取出token id
func (c *Client) parseMintedTokenID(receipt *types.Receipt) (int64, error) {
	transferID := c.nftABI.Events["Transfer"].ID
	for _, log := range receipt.Logs {
		if log.Address != c.nftAddr || len(log.Topics) < 4 {
			continue
		}
		if log.Topics[0] == transferID {
			tokenID := new(big.Int).SetBytes(log.Topics[3].Bytes())
			if !tokenID.IsInt64() {
				return 0, fmt.Errorf("token id %s in receipt %s overflows int64", tokenID, receipt.TxHash.Hex())
			}
			return tokenID.Int64(), nil
		}
	}
	return 0, fmt.Errorf("no Transfer event in receipt %s", receipt.TxHash.Hex())
}

// transactOpts 构建交易授权
func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.GasLimit = c.gasLimit
	return opts, nil
}

// waitMined 等待交易上链并检查执行结果
func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}
	return receipt, nil
}

// GetAccountAddress 获取服务端账户地址
func (c *Client) GetAccountAddress() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// toWei 将以ether计的金额转换为wei
func toWei(amount float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(1e18)).Int(nil)
	return wei
}
