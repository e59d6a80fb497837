package logic

import (
	"math"
	"sort"
	"time"

	"github.com/parthparmar07/ChainFund/internal/errs"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/parthparmar07/ChainFund/internal/wallet"
	"gorm.io/gorm"
)

// recentAchievementsLimit 最近成就返回条数
const recentAchievementsLimit = 5

// SkillLogic 技能评分业务逻辑
type SkillLogic struct {
	db *gorm.DB
}

// NewSkillLogic 创建技能评分业务逻辑
func NewSkillLogic(db *gorm.DB) *SkillLogic {
	return &SkillLogic{db: db}
}

// SkillActivityInput 技能活动参数
type SkillActivityInput struct {
	CampaignID     string    `json:"campaign_id" binding:"required"`
	MilestoneID    string    `json:"milestone_id" binding:"required"`
	MilestoneTitle string    `json:"milestone_title" binding:"required"`
	ScoreEarned    float64   `json:"score_earned" binding:"required"`
	Difficulty     string    `json:"difficulty"`
	OnTime         *bool     `json:"on_time"`
	PeerReviews    []float64 `json:"peer_reviews"`
}

// AddSkillActivity 追加一条技能历史并全量重算派生字段
// 历史只追加不删除，评分、等级和统计每次都从完整历史重算，保证不漂移
func (l *SkillLogic) AddSkillActivity(walletAddress string, input *SkillActivityInput) (*model.User, error) {
	address, err := wallet.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}

	if input.ScoreEarned <= 0 {
		return nil, errs.Validation("获得分数必须大于0")
	}
	for _, review := range input.PeerReviews {
		if review < 1 || review > 5 {
			return nil, errs.Validation("同行评分必须在1-5之间")
		}
	}

	user, err := findUser(l.db, address)
	if err != nil {
		return nil, err
	}

	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	onTime := true
	if input.OnTime != nil {
		onTime = *input.OnTime
	}
	peerReviews := input.PeerReviews
	if peerReviews == nil {
		peerReviews = []float64{}
	}

	user.SkillHistory = append(user.SkillHistory, model.SkillHistoryEntry{
		CampaignID:     input.CampaignID,
		MilestoneID:    input.MilestoneID,
		MilestoneTitle: input.MilestoneTitle,
		ScoreEarned:    input.ScoreEarned,
		CompletedAt:    time.Now(),
		Difficulty:     difficulty,
		OnTime:         onTime,
		PeerReviews:    peerReviews,
	})

	recomputeDerivedFields(user)

	if err := l.db.Save(user).Error; err != nil {
		return nil, errs.Internal("保存技能历史失败", err)
	}

	return user, nil
}

// RecomputeSkillScore 手动触发技能评分重算
func (l *SkillLogic) RecomputeSkillScore(walletAddress string) (*model.User, error) {
	address, err := wallet.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}

	user, err := findUser(l.db, address)
	if err != nil {
		return nil, err
	}

	recomputeDerivedFields(user)

	if err := l.db.Save(user).Error; err != nil {
		return nil, errs.Internal("保存技能评分失败", err)
	}

	return user, nil
}

// recomputeDerivedFields 从完整历史重算所有派生字段
func recomputeDerivedFields(user *model.User) {
	user.SkillScore = ComputeSkillScore(user.SkillHistory)
	user.SkillLevel = DetermineSkillLevel(user.SkillScore)
	user.TotalMilestonesCompleted = len(user.SkillHistory)
	user.TotalCampaignsParticipated = user.DistinctCampaigns()
	user.AverageCompletionTime = averageCompletionTime(user.SkillHistory)
}

// averageCompletionTime 平均完成天数
// TODO: SkillHistoryEntry 缺少 started_at 字段，补充后改为按真实耗时计算
func averageCompletionTime(history []model.SkillHistoryEntry) *float64 {
	if len(history) == 0 {
		return nil
	}
	avg := 7.0
	return &avg
}

// Achievement 最近成就
type Achievement struct {
	CampaignID     string    `json:"campaign_id"`
	MilestoneTitle string    `json:"milestone_title"`
	ScoreEarned    float64   `json:"score_earned"`
	CompletedAt    time.Time `json:"completed_at"`
	Difficulty     string    `json:"difficulty"`
	OnTime         bool      `json:"on_time"`
}

// SkillScoreData 技能评分综合数据
type SkillScoreData struct {
	WalletAddress              string             `json:"wallet_address"`
	SkillScore                 float64            `json:"skill_score"`
	SkillLevel                 string             `json:"skill_level"`
	SkillNFTTokenID            *int64             `json:"skill_nft_token_id,omitempty"`
	TotalMilestonesCompleted   int                `json:"total_milestones_completed"`
	TotalCampaignsParticipated int                `json:"total_campaigns_participated"`
	AverageCompletionTime      *float64           `json:"average_completion_time,omitempty"`
	SkillBreakdown             map[string]float64 `json:"skill_breakdown"`
	RecentAchievements         []Achievement      `json:"recent_achievements"`
	NextLevelThreshold         *float64           `json:"next_level_threshold,omitempty"` // Expert无下一等级时为空
}

// GetSkillScoreData 获取用户技能评分综合数据
func (l *SkillLogic) GetSkillScoreData(walletAddress string) (*SkillScoreData, error) {
	address, err := wallet.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}

	user, err := findUser(l.db, address)
	if err != nil {
		return nil, err
	}

	data := &SkillScoreData{
		WalletAddress:              user.WalletAddress,
		SkillScore:                 user.SkillScore,
		SkillLevel:                 user.SkillLevel,
		SkillNFTTokenID:            user.SkillNFTTokenID,
		TotalMilestonesCompleted:   user.TotalMilestonesCompleted,
		TotalCampaignsParticipated: user.TotalCampaignsParticipated,
		AverageCompletionTime:      user.AverageCompletionTime,
		SkillBreakdown:             skillBreakdownByDifficulty(user.SkillHistory),
		RecentAchievements:         recentAchievements(user.SkillHistory, recentAchievementsLimit),
	}

	if threshold := NextLevelThreshold(user.SkillScore); !math.IsInf(threshold, 1) {
		data.NextLevelThreshold = &threshold
	}

	return data, nil
}

// skillBreakdownByDifficulty 按难度汇总基础得分
func skillBreakdownByDifficulty(history []model.SkillHistoryEntry) map[string]float64 {
	breakdown := make(map[string]float64)
	for i := range history {
		entry := &history[i]
		difficulty := entry.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}
		breakdown[difficulty] = round2(breakdown[difficulty] + entry.ScoreEarned)
	}
	return breakdown
}

// recentAchievements 按完成时间倒序取最近的成就
func recentAchievements(history []model.SkillHistoryEntry, limit int) []Achievement {
	sorted := make([]model.SkillHistoryEntry, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	achievements := make([]Achievement, 0, len(sorted))
	for i := range sorted {
		achievements = append(achievements, Achievement{
			CampaignID:     sorted[i].CampaignID,
			MilestoneTitle: sorted[i].MilestoneTitle,
			ScoreEarned:    sorted[i].ScoreEarned,
			CompletedAt:    sorted[i].CompletedAt,
			Difficulty:     sorted[i].Difficulty,
			OnTime:         sorted[i].OnTime,
		})
	}
	return achievements
}
