package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/errs"
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/parthparmar07/ChainFund/internal/storage"
	"github.com/parthparmar07/ChainFund/internal/wallet"
	"gorm.io/gorm"
)

// MilestoneLogic 里程碑生命周期业务逻辑
type MilestoneLogic struct {
	db      *gorm.DB
	chain   chain.Gateway
	storage storage.Gateway
}

// NewMilestoneLogic 创建里程碑业务逻辑
func NewMilestoneLogic(db *gorm.DB, chainGateway chain.Gateway, storageGateway storage.Gateway) *MilestoneLogic {
	return &MilestoneLogic{db: db, chain: chainGateway, storage: storageGateway}
}

// SubmitProof 提交里程碑完成证明
// 仅创建者可提交，仅pending状态可提交；上传失败不发生任何状态变更
func (l *MilestoneLogic) SubmitProof(ctx context.Context, idOrAddress string, index int, creatorWallet string, data []byte, filename string) (string, error) {
	creator, err := wallet.Normalize(creatorWallet)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errs.Validation("证明文件不能为空")
	}

	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return "", err
	}

	if campaign.CreatorWallet != creator {
		return "", errs.Authorization("只有活动创建者可以提交证明")
	}

	milestone := campaign.GetMilestone(index)
	if milestone == nil {
		return "", errs.Validation("无效的里程碑index")
	}
	if milestone.Status != model.MilestoneStatusPending {
		return "", errs.Validation("里程碑不在待提交状态")
	}

	// 上传证明到IPFS，失败则不发生状态迁移
	ipfsHash, err := l.storage.Upload(ctx, data, filename)
	if err != nil {
		return "", errs.ExternalService("上传证明文件失败", err)
	}

	milestone.AttachProof(ipfsHash, time.Now())

	if err := l.db.Save(campaign).Error; err != nil {
		return "", errs.Internal("保存里程碑证明失败", err)
	}

	return ipfsHash, nil
}

// VoteResult 投票结果
type VoteResult struct {
	VoteRecorded    bool            `json:"vote_recorded"`
	MilestoneStatus string          `json:"milestone_status"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	Tally           model.VoteTally `json:"tally"`
	Message         string          `json:"message"`
}

// Vote 支持者对里程碑投票
// 通过门槛后尝试链上释放资金；释放失败不回滚投票，里程碑停留在approved
func (l *MilestoneLogic) Vote(ctx context.Context, idOrAddress string, index int, backerWallet string, approve bool) (*VoteResult, error) {
	backer, err := wallet.Normalize(backerWallet)
	if err != nil {
		return nil, err
	}

	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}

	result, err := l.applyVote(ctx, campaign, index, backer, approve)
	if err != nil {
		return nil, err
	}

	if err := l.db.Save(campaign).Error; err != nil {
		return nil, errs.Internal("保存投票失败", err)
	}

	return result, nil
}

// applyVote 在内存中的活动上执行投票迁移
func (l *MilestoneLogic) applyVote(ctx context.Context, campaign *model.Campaign, index int, backer string, approve bool) (*VoteResult, error) {
	if campaign.FindBacker(backer) == nil {
		return nil, errs.Authorization("只有活动支持者可以投票")
	}

	milestone := campaign.GetMilestone(index)
	if milestone == nil {
		return nil, errs.Validation("无效的里程碑index")
	}
	if milestone.Status != model.MilestoneStatusSubmitted {
		return nil, errs.Validation("里程碑不在投票状态")
	}

	now := time.Now()
	milestone.RecordVote(backer, approve, now)
	milestone.UpdatedAt = now

	// 门槛只基于已投票数，每次投票后重新计算
	tally := milestone.Tally()

	result := &VoteResult{
		VoteRecorded: true,
		Tally:        tally,
		Message:      fmt.Sprintf("投票已记录，当前赞成 %d/%d", tally.Approve, tally.Total),
	}

	if tally.Approved {
		milestone.Status = model.MilestoneStatusApproved
		milestone.UpdatedAt = now

		// 链上释放资金；失败不回滚投票，留待结算任务重试
		if campaign.ContractAddress != "" {
			txHash, err := l.chain.ReleaseMilestone(ctx, campaign.ContractAddress, index)
			if err != nil {
				logger.Error("Failed to release milestone %d funds for campaign %s: %v",
					index, campaign.ID, err)
			} else {
				milestone.Status = model.MilestoneStatusCompleted
				milestone.ReleaseTx = txHash
				milestone.UpdatedAt = time.Now()
				result.TransactionHash = txHash
			}
		}
	}

	result.MilestoneStatus = string(milestone.Status)
	return result, nil
}

// MilestoneDetail 里程碑详情（附投票统计）
type MilestoneDetail struct {
	Index              int                   `json:"index"`
	Title              string                `json:"title"`
	Amount             float64               `json:"amount"`
	Status             model.MilestoneStatus `json:"status"`
	ProofIPFS          string                `json:"proof_ipfs,omitempty"`
	ReleaseTx          string                `json:"release_tx,omitempty"`
	Votes              []model.Vote          `json:"votes"`
	TotalVotes         int                   `json:"total_votes"`
	ApproveVotes       int                   `json:"approve_votes"`
	ApprovalPercentage float64               `json:"approval_percentage"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// GetMilestone 获取单个里程碑详情
func (l *MilestoneLogic) GetMilestone(idOrAddress string, index int) (*MilestoneDetail, error) {
	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}

	milestone := campaign.GetMilestone(index)
	if milestone == nil {
		return nil, errs.Validation("无效的里程碑index")
	}

	return toMilestoneDetail(milestone), nil
}

// GetMilestones 获取活动的所有里程碑
func (l *MilestoneLogic) GetMilestones(idOrAddress string) ([]MilestoneDetail, error) {
	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}

	details := make([]MilestoneDetail, 0, len(campaign.Milestones))
	for i := range campaign.Milestones {
		details = append(details, *toMilestoneDetail(&campaign.Milestones[i]))
	}
	return details, nil
}

// MilestoneVotes 里程碑投票详情
type MilestoneVotes struct {
	CampaignID      string       `json:"campaign_id"`
	MilestoneIndex  int          `json:"milestone_index"`
	Votes           []model.Vote `json:"votes"`
	TotalVotes      int          `json:"total_votes"`
	ApproveVotes    int          `json:"approve_votes"`
	RejectVotes     int          `json:"reject_votes"`
	ApprovalPercent float64      `json:"approval_percentage"`
	MilestoneStatus string       `json:"milestone_status"`
}

// GetVotes 获取里程碑的全部投票及统计
func (l *MilestoneLogic) GetVotes(idOrAddress string, index int) (*MilestoneVotes, error) {
	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}

	milestone := campaign.GetMilestone(index)
	if milestone == nil {
		return nil, errs.Validation("无效的里程碑index")
	}

	tally := milestone.Tally()
	return &MilestoneVotes{
		CampaignID:      campaign.ID,
		MilestoneIndex:  index,
		Votes:           milestone.Votes,
		TotalVotes:      tally.Total,
		ApproveVotes:    tally.Approve,
		RejectVotes:     tally.Reject,
		ApprovalPercent: round2(milestone.ApprovalPercentage()),
		MilestoneStatus: string(milestone.Status),
	}, nil
}

func toMilestoneDetail(m *model.Milestone) *MilestoneDetail {
	tally := m.Tally()
	return &MilestoneDetail{
		Index:              m.Index,
		Title:              m.Title,
		Amount:             m.Amount,
		Status:             m.Status,
		ProofIPFS:          m.ProofIPFS,
		ReleaseTx:          m.ReleaseTx,
		Votes:              m.Votes,
		TotalVotes:         tally.Total,
		ApproveVotes:       tally.Approve,
		ApprovalPercentage: round2(m.ApprovalPercentage()),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
