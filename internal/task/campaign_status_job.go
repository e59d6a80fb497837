package task

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/parthparmar07/ChainFund/internal/config"
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/parthparmar07/ChainFund/internal/model"
	"gorm.io/gorm"
)

// CampaignStatusJob 活动状态任务
// 所有里程碑完成后把活动标记为已完成
type CampaignStatusJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewCampaignStatusJob 创建活动状态任务
func NewCampaignStatusJob(db *gorm.DB, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	logger.Info("Starting campaign status task")

	var campaigns []model.Campaign
	if err := j.db.Where("status = ?", model.CampaignStatusActive).Find(&campaigns).Error; err != nil {
		logger.Error("Failed to fetch active campaigns: %v", err)
		return
	}

	completedCount := 0

	for i := range campaigns {
		campaign := &campaigns[i]
		if len(campaign.Milestones) == 0 || !campaign.AllMilestonesCompleted() {
			continue
		}

		if err := j.db.Model(campaign).Update("status", model.CampaignStatusCompleted).Error; err != nil {
			logger.Error("Failed to complete campaign %s: %v", campaign.ID, err)
			continue
		}

		logger.Info("Campaign %s completed, all milestones released", campaign.ID)
		completedCount++
	}

	logger.Info("Campaign status task completed. Completed %d campaigns", completedCount)
}
