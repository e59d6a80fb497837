package logic

// backingTier 支持金额档位
type backingTier struct {
	Name      string
	Threshold float64
}

// 支持金额档位表，按门槛从高到低扫描，首个满足的即为结果
var backingTiers = []backingTier{
	{"Diamond", 50},
	{"Platinum", 10},
	{"Gold", 5},
	{"Silver", 1},
	{"Bronze", 0.1},
}

// SkillLevelInfo 技能NFT等级展示信息
type SkillLevelInfo struct {
	Name        string  `json:"name"`
	Threshold   float64 `json:"threshold"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
}

// 技能NFT等级表，与技能等级阶梯数值对齐
var skillNFTLevels = []SkillLevelInfo{
	{"Expert", 1000, "#EF4444", "Master contributor"},
	{"Advanced", 500, "#F59E0B", "Highly skilled"},
	{"Intermediate", 200, "#10B981", "Gaining expertise"},
	{"Beginner", 50, "#3B82F6", "Building foundations"},
	{"Novice", 0, "#8B5CF6", "Just getting started"},
}

// DetermineTier 根据支持金额确定NFT档位，不足最低门槛归为Supporter
func DetermineTier(amount float64) string {
	for _, tier := range backingTiers {
		if amount >= tier.Threshold {
			return tier.Name
		}
	}
	return "Supporter"
}

// DetermineSkillNFTLevel 根据技能评分确定技能NFT等级
func DetermineSkillNFTLevel(score float64) SkillLevelInfo {
	for _, level := range skillNFTLevels {
		if score >= level.Threshold {
			return level
		}
	}
	return skillNFTLevels[len(skillNFTLevels)-1]
}

// BackingTierTable 支持金额档位表（展示用）
func BackingTierTable() map[string]float64 {
	table := make(map[string]float64, len(backingTiers))
	for _, tier := range backingTiers {
		table[tier.Name] = tier.Threshold
	}
	return table
}

// SkillNFTLevelTable 技能NFT等级表（展示用）
func SkillNFTLevelTable() []SkillLevelInfo {
	levels := make([]SkillLevelInfo, len(skillNFTLevels))
	copy(levels, skillNFTLevels)
	return levels
}
