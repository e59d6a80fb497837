package logic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/errs"
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/parthparmar07/ChainFund/internal/wallet"
	"gorm.io/gorm"
)

// NFTLogic NFT业务逻辑
type NFTLogic struct {
	db    *gorm.DB
	chain chain.Gateway
}

// NewNFTLogic 创建NFT业务逻辑
func NewNFTLogic(db *gorm.DB, chainGateway chain.Gateway) *NFTLogic {
	return &NFTLogic{db: db, chain: chainGateway}
}

// MintNFTForBacker 为支持者按累计金额档位铸造NFT
func (l *NFTLogic) MintNFTForBacker(ctx context.Context, campaignID, owner string, amount float64) (*model.NFT, error) {
	tier := DetermineTier(amount)

	tokenID, txHash, err := l.chain.MintNFT(ctx, owner, tier, amount)
	if err != nil {
		return nil, errs.ExternalService("铸造NFT失败", err)
	}

	nft := &model.NFT{
		ID:           uuid.NewString(),
		CampaignID:   campaignID,
		OwnerWallet:  owner,
		TokenID:      &tokenID,
		TxHash:       txHash,
		Tier:         tier,
		AmountBacked: amount,
	}

	if err := l.db.Create(nft).Error; err != nil {
		return nil, errs.Internal("保存NFT记录失败", err)
	}

	logger.Info("Minted %s NFT (token %d) for backer %s on campaign %s", tier, tokenID, owner, campaignID)
	return nft, nil
}

// MintOrUpdateSkillNFT 铸造或更新技能NFT
// 无记录时铸造；已有记录且等级变化时同步链上，等级未变则只更新评分
func (l *NFTLogic) MintOrUpdateSkillNFT(ctx context.Context, ownerWallet string, score float64) (*model.NFT, error) {
	owner, err := wallet.Normalize(ownerWallet)
	if err != nil {
		return nil, err
	}

	level := DetermineSkillNFTLevel(score)

	var nft model.NFT
	err = l.db.Where("owner_wallet = ? AND is_skill_nft = ?", owner, true).First(&nft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l.mintSkillNFT(ctx, owner, score, level)
	}
	if err != nil {
		return nil, errs.Internal("获取技能NFT失败", err)
	}

	// 等级变化时同步链上
	if nft.Tier != level.Name && nft.TokenID != nil {
		txHash, err := l.chain.UpdateSkillNFT(ctx, *nft.TokenID, level.Name, score)
		if err != nil {
			return nil, errs.ExternalService("更新技能NFT失败", err)
		}
		nft.TxHash = txHash
	}

	nft.Tier = level.Name
	nft.SkillScore = score
	nft.Color = level.Color
	nft.Description = level.Description

	if err := l.db.Save(&nft).Error; err != nil {
		return nil, errs.Internal("保存技能NFT记录失败", err)
	}

	return &nft, nil
}

// mintSkillNFT 首次铸造技能NFT
func (l *NFTLogic) mintSkillNFT(ctx context.Context, owner string, score float64, level SkillLevelInfo) (*model.NFT, error) {
	tokenID, txHash, err := l.chain.MintSkillNFT(ctx, owner, level.Name, score)
	if err != nil {
		return nil, errs.ExternalService("铸造技能NFT失败", err)
	}

	nft := &model.NFT{
		ID:          uuid.NewString(),
		OwnerWallet: owner,
		TokenID:     &tokenID,
		TxHash:      txHash,
		Tier:        level.Name,
		SkillScore:  score,
		IsSkillNFT:  true,
		Soulbound:   true,
		Color:       level.Color,
		Description: level.Description,
	}

	if err := l.db.Create(nft).Error; err != nil {
		return nil, errs.Internal("保存技能NFT记录失败", err)
	}

	logger.Info("Minted %s skill NFT (token %d) for %s", level.Name, tokenID, owner)
	return nft, nil
}

// GetSkillNFT 获取用户的技能NFT，不存在时返回nil
func (l *NFTLogic) GetSkillNFT(ownerWallet string) (*model.NFT, error) {
	owner, err := wallet.Normalize(ownerWallet)
	if err != nil {
		return nil, err
	}

	var nft model.NFT
	err = l.db.Where("owner_wallet = ? AND is_skill_nft = ?", owner, true).First(&nft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Internal("获取技能NFT失败", err)
	}
	return &nft, nil
}

// GetNFTsByWallet 获取某钱包持有的所有NFT
func (l *NFTLogic) GetNFTsByWallet(ownerWallet string) ([]model.NFT, error) {
	owner, err := wallet.Normalize(ownerWallet)
	if err != nil {
		return nil, err
	}

	var nfts []model.NFT
	if err := l.db.Where("owner_wallet = ?", owner).Order("created_at DESC").Find(&nfts).Error; err != nil {
		return nil, errs.Internal("获取NFT列表失败", err)
	}
	return nfts, nil
}

// GetNFTsByCampaign 获取某活动下的所有NFT
func (l *NFTLogic) GetNFTsByCampaign(campaignID string) ([]model.NFT, error) {
	var nfts []model.NFT
	if err := l.db.Where("campaign_id = ?", campaignID).Order("created_at DESC").Find(&nfts).Error; err != nil {
		return nil, errs.Internal("获取活动NFT列表失败", err)
	}
	return nfts, nil
}

// NFTStats 活动NFT统计
type NFTStats struct {
	TotalNFTs        int64            `json:"total_nfts"`
	TierDistribution map[string]int64 `json:"tier_distribution"`
	TotalBacked      float64          `json:"total_backed"`
}

// GetNFTStats 获取活动的NFT统计信息
func (l *NFTLogic) GetNFTStats(campaignID string) (*NFTStats, error) {
	stats := &NFTStats{TierDistribution: make(map[string]int64)}

	if err := l.db.Model(&model.NFT{}).
		Where("campaign_id = ?", campaignID).
		Count(&stats.TotalNFTs).Error; err != nil {
		return nil, errs.Internal("获取NFT统计失败", err)
	}

	var rows []struct {
		Tier  string
		Count int64
	}
	if err := l.db.Model(&model.NFT{}).
		Select("tier, COUNT(*) as count").
		Where("campaign_id = ?", campaignID).
		Group("tier").
		Scan(&rows).Error; err != nil {
		return nil, errs.Internal("获取NFT档位分布失败", err)
	}
	for _, row := range rows {
		stats.TierDistribution[row.Tier] = row.Count
	}

	if err := l.db.Model(&model.NFT{}).
		Where("campaign_id = ?", campaignID).
		Select("COALESCE(SUM(amount_backed), 0)").
		Scan(&stats.TotalBacked).Error; err != nil {
		return nil, errs.Internal("获取NFT支持总额失败", err)
	}

	return stats, nil
}
