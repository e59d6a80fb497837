package chain

import (
	"context"
)

// Gateway 链网关接口
// 合约语义对本服务不透明，所有调用同步等待交易结果
type Gateway interface {
	// DeployCampaign 通过工厂合约部署众筹合约，返回合约地址
	DeployCampaign(ctx context.Context, creator string, goalAmount float64, milestoneCount int) (string, error)

	// FundCampaign 向众筹合约注资，返回交易哈希
	FundCampaign(ctx context.Context, contractAddress, backer string, amount float64) (string, error)

	// ReleaseMilestone 释放指定里程碑的资金，返回交易哈希
	ReleaseMilestone(ctx context.Context, contractAddress string, milestoneIndex int) (string, error)

	// MintNFT 为支持者铸造NFT，返回token id和交易哈希
	MintNFT(ctx context.Context, owner, tier string, amount float64) (int64, string, error)

	// MintSkillNFT 铸造soulbound技能NFT，返回token id和交易哈希
	MintSkillNFT(ctx context.Context, owner, level string, score float64) (int64, string, error)

	// UpdateSkillNFT 更新已有技能NFT的等级与评分，返回交易哈希
	UpdateSkillNFT(ctx context.Context, tokenID int64, level string, score float64) (string, error)
}
