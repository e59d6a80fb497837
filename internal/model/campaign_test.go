package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBacking_Accumulates(t *testing.T) {
	now := time.Now()
	campaign := &Campaign{Status: CampaignStatusActive}

	campaign.AddBacking("0xAAA", 1.5, now)
	campaign.AddBacking("0xBBB", 2.0, now)
	campaign.AddBacking("0xAAA", 0.5, now.Add(time.Hour))

	// 同一地址累加，不产生重复记录
	require.Len(t, campaign.Backers, 2)

	backer := campaign.FindBacker("0xAAA")
	require.NotNil(t, backer)
	assert.Equal(t, 2.0, backer.AmountBacked)
	assert.Equal(t, now.Add(time.Hour), backer.BackedAt)

	// total_backed 等于所有支持金额之和
	sum := 0.0
	for _, b := range campaign.Backers {
		sum += b.AmountBacked
	}
	assert.Equal(t, sum, campaign.TotalBacked)
	assert.Equal(t, 4.0, campaign.TotalBacked)
}

func TestAttachProof_OnlyFromPending(t *testing.T) {
	now := time.Now()
	m := &Milestone{Index: 0, Status: MilestoneStatusPending}

	require.True(t, m.AttachProof("QmHash1", now))
	assert.Equal(t, MilestoneStatusSubmitted, m.Status)
	assert.Equal(t, "QmHash1", m.ProofIPFS)

	// 非pending状态不允许再次提交
	assert.False(t, m.AttachProof("QmHash2", now))
	assert.Equal(t, "QmHash1", m.ProofIPFS)

	m.Status = MilestoneStatusCompleted
	assert.False(t, m.AttachProof("QmHash3", now))
}

func TestRecordVote_ReplacesInPlace(t *testing.T) {
	now := time.Now()
	m := &Milestone{Status: MilestoneStatusSubmitted}

	m.RecordVote("0xAAA", true, now)
	m.RecordVote("0xBBB", false, now)
	require.Len(t, m.Votes, 2)

	// 重复投票原地覆盖，不新增记录
	m.RecordVote("0xAAA", false, now.Add(time.Minute))
	require.Len(t, m.Votes, 2)
	assert.False(t, m.Votes[0].Approve)
	assert.Equal(t, now.Add(time.Minute), m.Votes[0].VotedAt)
}

func TestTally_Threshold(t *testing.T) {
	cases := []struct {
		name     string
		approves []bool
		want     VoteTally
	}{
		{
			name:     "无投票时不通过",
			approves: nil,
			want:     VoteTally{Total: 0, Approve: 0, Reject: 0, Threshold: 1, Approved: false},
		},
		{
			name:     "单票赞成即通过",
			approves: []bool{true},
			want:     VoteTally{Total: 1, Approve: 1, Reject: 0, Threshold: 1, Approved: true},
		},
		{
			name:     "单票反对不通过",
			approves: []bool{false},
			want:     VoteTally{Total: 1, Approve: 0, Reject: 1, Threshold: 1, Approved: false},
		},
		{
			name:     "两票一赞成未达严格多数",
			approves: []bool{true, false},
			want:     VoteTally{Total: 2, Approve: 1, Reject: 1, Threshold: 2, Approved: false},
		},
		{
			name:     "三票两赞成通过",
			approves: []bool{true, true, false},
			want:     VoteTally{Total: 3, Approve: 2, Reject: 1, Threshold: 2, Approved: true},
		},
		{
			name:     "四票两赞成未达门槛三",
			approves: []bool{true, true, false, false},
			want:     VoteTally{Total: 4, Approve: 2, Reject: 2, Threshold: 3, Approved: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &Milestone{Status: MilestoneStatusSubmitted}
			for i, approve := range tc.approves {
				m.RecordVote(string(rune('a'+i)), approve, time.Now())
			}
			assert.Equal(t, tc.want, m.Tally())
		})
	}
}

func TestAllMilestonesCompleted(t *testing.T) {
	campaign := &Campaign{}
	// 没有里程碑不算完成
	assert.False(t, campaign.AllMilestonesCompleted())

	campaign.Milestones = []Milestone{
		{Index: 0, Status: MilestoneStatusCompleted},
		{Index: 1, Status: MilestoneStatusApproved},
	}
	assert.False(t, campaign.AllMilestonesCompleted())

	campaign.Milestones[1].Status = MilestoneStatusCompleted
	assert.True(t, campaign.AllMilestonesCompleted())
}

func TestApprovalPercentage(t *testing.T) {
	m := &Milestone{Status: MilestoneStatusSubmitted}
	assert.Equal(t, 0.0, m.ApprovalPercentage())

	m.RecordVote("0xAAA", true, time.Now())
	m.RecordVote("0xBBB", true, time.Now())
	m.RecordVote("0xCCC", false, time.Now())
	assert.InDelta(t, 66.67, m.ApprovalPercentage(), 0.01)
}
