package model

import (
	"time"
)

// NFT NFT铸造记录
// 独立实体，通过campaign_id/owner_wallet弱引用活动和用户
type NFT struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignID  string `json:"campaign_id,omitempty" gorm:"index"` // 技能NFT无活动归属
	OwnerWallet string `json:"owner_wallet" gorm:"not null;index"`

	// 链上信息，token_id由链上铸造后回填
	TokenID *int64 `json:"token_id,omitempty" gorm:"index"`
	TxHash  string `json:"tx_hash,omitempty"`

	// 等级信息
	Tier         string  `json:"tier" gorm:"not null"`
	AmountBacked float64 `json:"amount_backed,omitempty"` // 铸造时的支持金额
	SkillScore   float64 `json:"skill_score,omitempty"`   // 铸造时的技能评分

	// 技能NFT标记，soulbound约定不可转让（本层不强制）
	IsSkillNFT  bool   `json:"is_skill_nft" gorm:"default:false;index"`
	Soulbound   bool   `json:"soulbound" gorm:"default:false"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// TableName 自定义表名
func (NFT) TableName() string {
	return "nfts"
}
