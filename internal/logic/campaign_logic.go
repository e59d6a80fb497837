package logic

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/errs"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/parthparmar07/ChainFund/internal/wallet"
	"gorm.io/gorm"
)

// CampaignLogic 众筹活动业务逻辑
type CampaignLogic struct {
	db    *gorm.DB
	chain chain.Gateway
}

// NewCampaignLogic 创建众筹活动业务逻辑
func NewCampaignLogic(db *gorm.DB, chainGateway chain.Gateway) *CampaignLogic {
	return &CampaignLogic{db: db, chain: chainGateway}
}

// MilestoneInput 创建活动时的里程碑参数
type MilestoneInput struct {
	Title  string  `json:"title" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// CreateCampaignInput 创建活动参数
type CreateCampaignInput struct {
	CreatorWallet string           `json:"creator_wallet" binding:"required"`
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	GoalAmount    float64          `json:"goal_amount" binding:"required"`
	Milestones    []MilestoneInput `json:"milestones" binding:"required"`
}

// CreateCampaign 创建活动：部署合约成功后落库
func (l *CampaignLogic) CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*model.Campaign, error) {
	creator, err := wallet.Normalize(input.CreatorWallet)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, errs.Validation("活动标题不能为空")
	}
	if input.GoalAmount <= 0 {
		return nil, errs.Validation("目标金额必须大于0")
	}
	if len(input.Milestones) == 0 {
		return nil, errs.Validation("至少需要一个里程碑")
	}
	for _, m := range input.Milestones {
		if m.Title == "" {
			return nil, errs.Validation("里程碑标题不能为空")
		}
		if m.Amount <= 0 {
			return nil, errs.Validation("里程碑金额必须大于0")
		}
	}

	now := time.Now()

	// 里程碑index在创建时分配，此后不可变
	milestones := make([]model.Milestone, 0, len(input.Milestones))
	for i, m := range input.Milestones {
		milestones = append(milestones, model.Milestone{
			Index:     i,
			Title:     m.Title,
			Amount:    m.Amount,
			Status:    model.MilestoneStatusPending,
			Votes:     []model.Vote{},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	// 部署众筹合约，失败则整个创建失败
	contractAddress, err := l.chain.DeployCampaign(ctx, creator, input.GoalAmount, len(milestones))
	if err != nil {
		return nil, errs.ExternalService("部署众筹合约失败", err)
	}

	campaign := &model.Campaign{
		ID:              uuid.NewString(),
		CreatorWallet:   creator,
		Title:           input.Title,
		Description:     input.Description,
		GoalAmount:      input.GoalAmount,
		ContractAddress: contractAddress,
		Milestones:      milestones,
		Backers:         []model.Backer{},
		TotalBacked:     0,
		Status:          model.CampaignStatusActive,
	}

	if err := l.db.Create(campaign).Error; err != nil {
		return nil, errs.Internal("创建活动失败", err)
	}

	return campaign, nil
}

// GetCampaign 按ID或合约地址获取活动
func (l *CampaignLogic) GetCampaign(idOrAddress string) (*model.Campaign, error) {
	return findCampaign(l.db, idOrAddress)
}

// GetCampaigns 获取活动列表，支持按状态和创建者过滤
func (l *CampaignLogic) GetCampaigns(status, creator string, page, pageSize int) ([]model.Campaign, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	query := l.db.Model(&model.Campaign{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if creator != "" {
		normalized, err := wallet.Normalize(creator)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("creator_wallet = ?", normalized)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Internal("获取活动总数失败", err)
	}

	var campaigns []model.Campaign
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&campaigns).Error; err != nil {
		return nil, 0, errs.Internal("获取活动列表失败", err)
	}

	return campaigns, total, nil
}

// CampaignProgress 活动进度
type CampaignProgress struct {
	CampaignID          string  `json:"campaign_id"`
	TotalBacked         float64 `json:"total_backed"`
	GoalAmount          float64 `json:"goal_amount"`
	FundingPercentage   float64 `json:"funding_percentage"`
	BackersCount        int     `json:"backers_count"`
	MilestonesCompleted int     `json:"milestones_completed"`
	TotalMilestones     int     `json:"total_milestones"`
	MilestoneProgress   float64 `json:"milestone_progress"`
	Status              string  `json:"status"`
}

// GetCampaignProgress 获取活动的筹资和里程碑进度
func (l *CampaignLogic) GetCampaignProgress(idOrAddress string) (*CampaignProgress, error) {
	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return nil, err
	}

	progress := &CampaignProgress{
		CampaignID:      campaign.ID,
		TotalBacked:     campaign.TotalBacked,
		GoalAmount:      campaign.GoalAmount,
		BackersCount:    len(campaign.Backers),
		TotalMilestones: len(campaign.Milestones),
		Status:          string(campaign.Status),
	}

	if campaign.GoalAmount > 0 {
		progress.FundingPercentage = round2(campaign.TotalBacked / campaign.GoalAmount * 100)
	}

	for i := range campaign.Milestones {
		if campaign.Milestones[i].Status == model.MilestoneStatusCompleted {
			progress.MilestonesCompleted++
		}
	}
	if len(campaign.Milestones) > 0 {
		progress.MilestoneProgress = round2(float64(progress.MilestonesCompleted) / float64(len(campaign.Milestones)) * 100)
	}

	return progress, nil
}

// CancelCampaign 取消活动，仅创建者可操作
func (l *CampaignLogic) CancelCampaign(idOrAddress, creatorWallet string) error {
	creator, err := wallet.Normalize(creatorWallet)
	if err != nil {
		return err
	}

	campaign, err := findCampaign(l.db, idOrAddress)
	if err != nil {
		return err
	}

	if campaign.CreatorWallet != creator {
		return errs.Authorization("只有活动创建者可以取消活动")
	}
	if campaign.Status != model.CampaignStatusActive {
		return errs.Validation("只有进行中的活动可以取消")
	}

	campaign.Status = model.CampaignStatusCancelled
	if err := l.db.Save(campaign).Error; err != nil {
		return errs.Internal("取消活动失败", err)
	}

	return nil
}

// findCampaign 按ID或合约地址查找活动
// id列是uuid类型，非uuid文本直接查询会报类型错误，先按输入形态分流
func findCampaign(db *gorm.DB, idOrAddress string) (*model.Campaign, error) {
	column, key, ok := campaignLookupKey(idOrAddress)
	if !ok {
		return nil, errs.NotFound("活动不存在")
	}

	var campaign model.Campaign
	if err := db.Where(column+" = ?", key).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("活动不存在")
		}
		return nil, errs.Internal("获取活动失败", err)
	}
	return &campaign, nil
}

// campaignLookupKey 判定查询列：合约地址规范化为EIP-55格式，其余必须是合法uuid
func campaignLookupKey(idOrAddress string) (column, key string, ok bool) {
	if wallet.IsValid(idOrAddress) {
		normalized, err := wallet.Normalize(idOrAddress)
		if err != nil {
			return "", "", false
		}
		return "contract_address", normalized, true
	}
	if _, err := uuid.Parse(idOrAddress); err != nil {
		return "", "", false
	}
	return "id", idOrAddress, true
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
