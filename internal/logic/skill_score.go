package logic

import (
	"math"
	"strings"

	"github.com/parthparmar07/ChainFund/internal/model"
)

// 技能等级门槛，各档位下界取闭区间
const (
	levelBeginnerThreshold     = 50
	levelIntermediateThreshold = 200
	levelAdvancedThreshold     = 500
	levelExpertThreshold       = 1000
)

// difficultyMultiplier 难度系数，未识别的难度按1.0处理
func difficultyMultiplier(difficulty string) float64 {
	switch strings.ToLower(difficulty) {
	case "easy":
		return 1.0
	case "medium":
		return 1.5
	case "hard":
		return 2.0
	default:
		return 1.0
	}
}

// ComputeSkillScore 根据技能历史计算总评分
// 每条历史: 基础分 × 难度系数 × 准时系数 × 同行评分系数
// 总分超过1000后按 1000 + ln(score-999)*100 收敛
func ComputeSkillScore(history []model.SkillHistoryEntry) float64 {
	if len(history) == 0 {
		return 0
	}

	total := 0.0
	for i := range history {
		entry := &history[i]

		timeliness := 1.0
		if entry.OnTime {
			timeliness = 1.1
		}

		peerAvg := 1.0
		if len(entry.PeerReviews) > 0 {
			sum := 0.0
			for _, review := range entry.PeerReviews {
				sum += review
			}
			peerAvg = sum / float64(len(entry.PeerReviews))
		}
		peerMultiplier := peerAvg / 5.0

		total += entry.ScoreEarned * difficultyMultiplier(entry.Difficulty) * timeliness * peerMultiplier
	}

	if total > 1000 {
		total = 1000 + math.Log(total-999)*100
	}

	return math.Round(total*100) / 100
}

// DetermineSkillLevel 根据评分确定技能等级
func DetermineSkillLevel(score float64) string {
	switch {
	case score >= levelExpertThreshold:
		return "Expert"
	case score >= levelAdvancedThreshold:
		return "Advanced"
	case score >= levelIntermediateThreshold:
		return "Intermediate"
	case score >= levelBeginnerThreshold:
		return "Beginner"
	default:
		return "Novice"
	}
}

// NextLevelThreshold 下一等级的评分下界，Expert无上限时返回+Inf
func NextLevelThreshold(score float64) float64 {
	switch DetermineSkillLevel(score) {
	case "Novice":
		return levelBeginnerThreshold
	case "Beginner":
		return levelIntermediateThreshold
	case "Intermediate":
		return levelAdvancedThreshold
	case "Advanced":
		return levelExpertThreshold
	default:
		return math.Inf(1)
	}
}
