package model

import (
	"time"
)

// Campaign 众筹活动模型
// 里程碑和支持者作为内嵌文档整体存储，读取-修改-整体写回
type Campaign struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	CreatorWallet string `json:"creator_wallet" gorm:"not null;index"`
	Title         string `json:"title" gorm:"not null" binding:"required"`
	Description   string `json:"description" gorm:"type:text"`

	// 众筹信息
	GoalAmount  float64 `json:"goal_amount" gorm:"not null" binding:"required,min=0"`
	TotalBacked float64 `json:"total_backed" gorm:"default:0"`

	// 区块链信息
	ContractAddress string `json:"contract_address" gorm:"index"`

	// 内嵌文档
	Milestones []Milestone `json:"milestones" gorm:"serializer:json;type:jsonb"`
	Backers    []Backer    `json:"backers" gorm:"serializer:json;type:jsonb"`

	// 状态
	Status CampaignStatus `json:"status" gorm:"default:'active';index"`
}

// TableName 自定义表名
func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"    // 进行中
	CampaignStatusCompleted CampaignStatus = "completed" // 已完成
	CampaignStatusCancelled CampaignStatus = "cancelled" // 已取消
)

// Milestone 里程碑，index在创建时分配且不可变
type Milestone struct {
	Index     int             `json:"index"`
	Title     string          `json:"title"`
	Amount    float64         `json:"amount"`
	Status    MilestoneStatus `json:"status"`
	ProofIPFS string          `json:"proof_ipfs,omitempty"`
	ReleaseTx string          `json:"release_tx,omitempty"`
	Votes     []Vote          `json:"votes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MilestoneStatus 里程碑状态
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"   // 待提交证明
	MilestoneStatusSubmitted MilestoneStatus = "submitted" // 投票中
	MilestoneStatusApproved  MilestoneStatus = "approved"  // 已通过（资金未释放）
	MilestoneStatusRejected  MilestoneStatus = "rejected"  // 已否决（当前规则下不会产生）
	MilestoneStatusCompleted MilestoneStatus = "completed" // 资金已释放
)

// Vote 里程碑投票，每个支持者至多一票
type Vote struct {
	WalletAddress string    `json:"wallet_address"`
	Approve       bool      `json:"approve"`
	VotedAt       time.Time `json:"voted_at"`
}

// Backer 支持者，按钱包地址唯一，金额累加
type Backer struct {
	WalletAddress string    `json:"wallet_address"`
	AmountBacked  float64   `json:"amount_backed"`
	BackedAt      time.Time `json:"backed_at"`
}

// FindBacker 按钱包地址查找支持者
func (c *Campaign) FindBacker(wallet string) *Backer {
	for i := range c.Backers {
		if c.Backers[i].WalletAddress == wallet {
			return &c.Backers[i]
		}
	}
	return nil
}

// AddBacking 记录一笔支持，同一地址累加而不是新增记录
func (c *Campaign) AddBacking(wallet string, amount float64, now time.Time) *Backer {
	if backer := c.FindBacker(wallet); backer != nil {
		backer.AmountBacked += amount
		backer.BackedAt = now
		c.TotalBacked += amount
		return backer
	}

	c.Backers = append(c.Backers, Backer{
		WalletAddress: wallet,
		AmountBacked:  amount,
		BackedAt:      now,
	})
	c.TotalBacked += amount
	return &c.Backers[len(c.Backers)-1]
}

// GetMilestone 按index获取里程碑
func (c *Campaign) GetMilestone(index int) *Milestone {
	if index < 0 || index >= len(c.Milestones) {
		return nil
	}
	return &c.Milestones[index]
}

// AllMilestonesCompleted 是否所有里程碑均已完成
func (c *Campaign) AllMilestonesCompleted() bool {
	if len(c.Milestones) == 0 {
		return false
	}
	for i := range c.Milestones {
		if c.Milestones[i].Status != MilestoneStatusCompleted {
			return false
		}
	}
	return true
}

// AttachProof 记录证明并进入投票状态，仅允许pending状态
func (m *Milestone) AttachProof(ipfsHash string, now time.Time) bool {
	if m.Status != MilestoneStatusPending {
		return false
	}
	m.ProofIPFS = ipfsHash
	m.Status = MilestoneStatusSubmitted
	m.UpdatedAt = now
	return true
}

// RecordVote 记录投票，同一地址重复投票时原地覆盖
func (m *Milestone) RecordVote(wallet string, approve bool, now time.Time) {
	for i := range m.Votes {
		if m.Votes[i].WalletAddress == wallet {
			m.Votes[i].Approve = approve
			m.Votes[i].VotedAt = now
			return
		}
	}
	m.Votes = append(m.Votes, Vote{
		WalletAddress: wallet,
		Approve:       approve,
		VotedAt:       now,
	})
}

// VoteTally 投票统计
type VoteTally struct {
	Total     int  `json:"total_votes"`
	Approve   int  `json:"approve_votes"`
	Reject    int  `json:"reject_votes"`
	Threshold int  `json:"threshold"`
	Approved  bool `json:"approved"`
}

// Tally 统计当前票数
// 通过门槛为已投票数的严格多数: floor(total/2)+1，每次投票后重新计算
func (m *Milestone) Tally() VoteTally {
	tally := VoteTally{Total: len(m.Votes)}
	for i := range m.Votes {
		if m.Votes[i].Approve {
			tally.Approve++
		}
	}
	tally.Reject = tally.Total - tally.Approve
	tally.Threshold = tally.Total/2 + 1
	tally.Approved = tally.Total > 0 && tally.Approve >= tally.Threshold
	return tally
}

// ApprovalPercentage 赞成票比例
func (m *Milestone) ApprovalPercentage() float64 {
	tally := m.Tally()
	if tally.Total == 0 {
		return 0
	}
	return float64(tally.Approve) / float64(tally.Total) * 100
}
