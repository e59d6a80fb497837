package logic

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/errs"
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/parthparmar07/ChainFund/internal/wallet"
	"gorm.io/gorm"
)

// mintPoolSize NFT铸造协程池大小
const mintPoolSize = 8

// FundingLogic 注资业务逻辑
type FundingLogic struct {
	db       *gorm.DB
	chain    chain.Gateway
	nftLogic *NFTLogic
	mintPool *ants.Pool
}

// NewFundingLogic 创建注资业务逻辑
func NewFundingLogic(db *gorm.DB, chainGateway chain.Gateway, nftLogic *NFTLogic) *FundingLogic {
	pool, err := ants.NewPool(mintPoolSize)
	if err != nil {
		logger.Fatal("Failed to create NFT mint pool: %v", err)
	}

	return &FundingLogic{
		db:       db,
		chain:    chainGateway,
		nftLogic: nftLogic,
		mintPool: pool,
	}
}

// FundResult 注资结果
type FundResult struct {
	TransactionHash string  `json:"transaction_hash"`
	AmountBacked    float64 `json:"amount_backed"` // 该支持者的累计金额
	TotalBacked     float64 `json:"total_backed"`
}

// Fund 向活动注资
// 链上注资失败则整个操作失败；NFT铸造异步执行，不阻塞也不影响注资结果
func (l *FundingLogic) Fund(ctx context.Context, idOrAddress, backerWallet string, amount float64) (*FundResult, error) {
	backer, err := wallet.Normalize(backerWallet)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errs.Validation("注资金额必须大于0")
	}

	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}

	if campaign.Status != model.CampaignStatusActive {
		return nil, errs.Validation("活动不在进行中")
	}
	if campaign.ContractAddress == "" {
		return nil, errs.Validation("活动合约尚未部署")
	}

	// 链上注资
	txHash, err := l.chain.FundCampaign(ctx, campaign.ContractAddress, backer, amount)
	if err != nil {
		return nil, errs.ExternalService("链上注资失败", err)
	}

	// 同一地址重复注资累加，不产生重复支持者记录
	record := campaign.AddBacking(backer, amount, time.Now())
	cumulative := record.AmountBacked

	if err := l.db.Save(campaign).Error; err != nil {
		return nil, errs.Internal("保存注资记录失败", err)
	}

	// 按累计金额档位异步铸造NFT，失败只记日志
	campaignID := campaign.ID
	submitErr := l.mintPool.Submit(func() {
		mintCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := l.nftLogic.MintNFTForBacker(mintCtx, campaignID, backer, cumulative); err != nil {
			logger.Error("Failed to mint NFT for backer %s on campaign %s: %v", backer, campaignID, err)
		}
	})
	if submitErr != nil {
		logger.Error("Failed to submit NFT mint task for backer %s: %v", backer, submitErr)
	}

	return &FundResult{
		TransactionHash: txHash,
		AmountBacked:    cumulative,
		TotalBacked:     campaign.TotalBacked,
	}, nil
}

// GetBackers 获取活动支持者列表
func (l *FundingLogic) GetBackers(idOrAddress string) ([]model.Backer, error) {
	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}
	return campaign.Backers, nil
}

// Close 释放铸造协程池
func (l *FundingLogic) Close() {
	l.mintPool.Release()
}
