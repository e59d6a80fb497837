package model

import (
	"time"
)

// User 用户模型，钱包地址为唯一键
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WalletAddress string `json:"wallet_address" gorm:"not null;uniqueIndex"`
	Email         string `json:"email,omitempty"`
	Username      string `json:"username,omitempty"`

	// 技能评分（派生字段，只通过重算更新）
	SkillScore      float64 `json:"skill_score" gorm:"default:0;index"`
	SkillLevel      string  `json:"skill_level" gorm:"default:'Novice';index"`
	SkillNFTTokenID *int64  `json:"skill_nft_token_id,omitempty"`

	// 技能历史（内嵌文档，只追加）
	SkillHistory []SkillHistoryEntry `json:"skill_history" gorm:"serializer:json;type:jsonb"`

	// 派生统计
	TotalMilestonesCompleted   int      `json:"total_milestones_completed" gorm:"default:0"`
	TotalCampaignsParticipated int      `json:"total_campaigns_participated" gorm:"default:0"`
	AverageCompletionTime      *float64 `json:"average_completion_time,omitempty"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "users"
}

// SkillHistoryEntry 技能历史条目，追加后不可修改
type SkillHistoryEntry struct {
	CampaignID     string    `json:"campaign_id"`
	MilestoneID    string    `json:"milestone_id"`
	MilestoneTitle string    `json:"milestone_title"`
	ScoreEarned    float64   `json:"score_earned"`
	CompletedAt    time.Time `json:"completed_at"`
	Difficulty     string    `json:"difficulty"`   // easy, medium, hard
	OnTime         bool      `json:"on_time"`      // 是否按时完成
	PeerReviews    []float64 `json:"peer_reviews"` // 同行评分，1-5分
}

// DistinctCampaigns 历史中不同活动的数量
func (u *User) DistinctCampaigns() int {
	seen := make(map[string]struct{}, len(u.SkillHistory))
	for i := range u.SkillHistory {
		seen[u.SkillHistory[i].CampaignID] = struct{}{}
	}
	return len(seen)
}
