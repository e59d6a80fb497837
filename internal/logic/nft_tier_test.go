package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineTier(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Supporter"},
		{0.05, "Supporter"},
		{0.1, "Bronze"},
		{0.999, "Bronze"},
		{1, "Silver"},
		{4.99, "Silver"},
		{5, "Gold"},
		{9.99, "Gold"},
		{10, "Platinum"},
		{49.99, "Platinum"},
		{50, "Diamond"},
		{1000, "Diamond"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DetermineTier(tc.amount), "amount %.3f", tc.amount)
	}
}

func TestDetermineSkillNFTLevel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "Novice"},
		{49.99, "Novice"},
		{50, "Beginner"},
		{200, "Intermediate"},
		{500, "Advanced"},
		{1000, "Expert"},
	}

	for _, tc := range cases {
		level := DetermineSkillNFTLevel(tc.score)
		assert.Equal(t, tc.want, level.Name, "score %.2f", tc.score)
		// 每个等级都带展示信息
		assert.NotEmpty(t, level.Color)
		assert.NotEmpty(t, level.Description)
	}
}

func TestSkillNFTLevelTable_IsCopy(t *testing.T) {
	table := SkillNFTLevelTable()
	assert.Len(t, table, 5)

	// 修改返回值不影响内部表
	table[0].Name = "Hacked"
	assert.Equal(t, "Expert", SkillNFTLevelTable()[0].Name)
}

func TestBackingTierTable(t *testing.T) {
	table := BackingTierTable()
	assert.Equal(t, 50.0, table["Diamond"])
	assert.Equal(t, 0.1, table["Bronze"])
	assert.Len(t, table, 5)
}
