package task

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/config"
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/parthparmar07/ChainFund/internal/model"
	"gorm.io/gorm"
)

// MilestoneSettlementJob 里程碑结算任务
// 重试已通过投票但资金释放失败的里程碑
type MilestoneSettlementJob struct {
	db           *gorm.DB
	config       *config.Config
	chainGateway chain.Gateway
}

// NewMilestoneSettlementJob 创建里程碑结算任务
func NewMilestoneSettlementJob(db *gorm.DB, cfg *config.Config, chainGateway chain.Gateway) *MilestoneSettlementJob {
	return &MilestoneSettlementJob{
		db:           db,
		config:       cfg,
		chainGateway: chainGateway,
	}
}

// GetName 获取任务名称
func (j *MilestoneSettlementJob) GetName() string {
	return "milestone_settlement_retry"
}

// GetSchedule 获取调度配置
func (j *MilestoneSettlementJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *MilestoneSettlementJob) Execute() {
	logger.Info("Starting milestone settlement task")

	// 里程碑内嵌在活动文档中，只能取出进行中的活动逐个检查
	var campaigns []model.Campaign
	if err := j.db.Where("status = ?", model.CampaignStatusActive).Find(&campaigns).Error; err != nil {
		logger.Error("Failed to fetch active campaigns for settlement: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	settledCount := 0

	for i := range campaigns {
		campaign := &campaigns[i]

		settled := j.settleCampaign(ctx, campaign)
		if settled == 0 {
			continue
		}
		settledCount += settled

		if err := j.db.Save(campaign).Error; err != nil {
			logger.Error("Failed to save campaign %s after settlement: %v", campaign.ID, err)
		}
	}

	logger.Info("Milestone settlement task completed. Settled %d milestones", settledCount)
}

// settleCampaign 重试该活动中所有approved里程碑的释放，返回成功释放的数量
func (j *MilestoneSettlementJob) settleCampaign(ctx context.Context, campaign *model.Campaign) int {
	if campaign.ContractAddress == "" {
		return 0
	}

	settled := 0
	for k := range campaign.Milestones {
		m := &campaign.Milestones[k]
		if m.Status != model.MilestoneStatusApproved {
			continue
		}

		txHash, err := j.chainGateway.ReleaseMilestone(ctx, campaign.ContractAddress, m.Index)
		if err != nil {
			logger.Warn("Failed to release milestone %d of campaign %s: %v", m.Index, campaign.ID, err)
			continue
		}

		m.Status = model.MilestoneStatusCompleted
		m.ReleaseTx = txHash
		m.UpdatedAt = time.Now()
		settled++

		logger.Info("Released milestone %d of campaign %s. TxHash: %s", m.Index, campaign.ID, txHash)
	}
	return settled
}
