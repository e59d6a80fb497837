package task

import (
	"context"
	"errors"
	"testing"

	"github.com/parthparmar07/ChainFund/internal/config"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChainGateway 用于测试的链网关模拟
type fakeChainGateway struct {
	releaseErr   error
	releaseCalls int
}

func (f *fakeChainGateway) DeployCampaign(ctx context.Context, creator string, goalAmount float64, milestoneCount int) (string, error) {
	return "0xContract", nil
}

func (f *fakeChainGateway) FundCampaign(ctx context.Context, contractAddress, backer string, amount float64) (string, error) {
	return "0xFundTx", nil
}

func (f *fakeChainGateway) ReleaseMilestone(ctx context.Context, contractAddress string, milestoneIndex int) (string, error) {
	f.releaseCalls++
	if f.releaseErr != nil {
		return "", f.releaseErr
	}
	return "0xReleaseTx", nil
}

func (f *fakeChainGateway) MintNFT(ctx context.Context, owner, tier string, amount float64) (int64, string, error) {
	return 1, "0xMintTx", nil
}

func (f *fakeChainGateway) MintSkillNFT(ctx context.Context, owner, level string, score float64) (int64, string, error) {
	return 2, "0xSkillMintTx", nil
}

func (f *fakeChainGateway) UpdateSkillNFT(ctx context.Context, tokenID int64, level string, score float64) (string, error) {
	return "0xSkillUpdateTx", nil
}

func settlementCampaign() *model.Campaign {
	return &model.Campaign{
		ID:              "camp-1",
		ContractAddress: "0xContract",
		Status:          model.CampaignStatusActive,
		Milestones: []model.Milestone{
			{Index: 0, Status: model.MilestoneStatusCompleted, ReleaseTx: "0xOldTx"},
			{Index: 1, Status: model.MilestoneStatusApproved},
			{Index: 2, Status: model.MilestoneStatusSubmitted},
			{Index: 3, Status: model.MilestoneStatusPending},
		},
	}
}

func TestSettleCampaign_ReleasesApprovedOnly(t *testing.T) {
	gateway := &fakeChainGateway{}
	job := NewMilestoneSettlementJob(nil, &config.Config{}, gateway)
	campaign := settlementCampaign()

	settled := job.settleCampaign(context.Background(), campaign)

	// 只有approved的里程碑被释放并进入completed
	require.Equal(t, 1, settled)
	assert.Equal(t, 1, gateway.releaseCalls)
	assert.Equal(t, model.MilestoneStatusCompleted, campaign.Milestones[1].Status)
	assert.Equal(t, "0xReleaseTx", campaign.Milestones[1].ReleaseTx)

	// 其余状态不受影响
	assert.Equal(t, "0xOldTx", campaign.Milestones[0].ReleaseTx)
	assert.Equal(t, model.MilestoneStatusSubmitted, campaign.Milestones[2].Status)
	assert.Equal(t, model.MilestoneStatusPending, campaign.Milestones[3].Status)
}

func TestSettleCampaign_FailureStaysApproved(t *testing.T) {
	gateway := &fakeChainGateway{releaseErr: errors.New("rpc timeout")}
	job := NewMilestoneSettlementJob(nil, &config.Config{}, gateway)
	campaign := settlementCampaign()

	settled := job.settleCampaign(context.Background(), campaign)

	// 释放失败时里程碑停留在approved，留待下一轮重试
	assert.Equal(t, 0, settled)
	assert.Equal(t, 1, gateway.releaseCalls)
	assert.Equal(t, model.MilestoneStatusApproved, campaign.Milestones[1].Status)
	assert.Empty(t, campaign.Milestones[1].ReleaseTx)
}

func TestSettleCampaign_MultipleApproved(t *testing.T) {
	gateway := &fakeChainGateway{}
	job := NewMilestoneSettlementJob(nil, &config.Config{}, gateway)
	campaign := &model.Campaign{
		ID:              "camp-2",
		ContractAddress: "0xContract",
		Milestones: []model.Milestone{
			{Index: 0, Status: model.MilestoneStatusApproved},
			{Index: 1, Status: model.MilestoneStatusApproved},
		},
	}

	settled := job.settleCampaign(context.Background(), campaign)

	assert.Equal(t, 2, settled)
	assert.Equal(t, 2, gateway.releaseCalls)
	assert.Equal(t, model.MilestoneStatusCompleted, campaign.Milestones[0].Status)
	assert.Equal(t, model.MilestoneStatusCompleted, campaign.Milestones[1].Status)
}

func TestSettleCampaign_NoContractSkipped(t *testing.T) {
	gateway := &fakeChainGateway{}
	job := NewMilestoneSettlementJob(nil, &config.Config{}, gateway)
	campaign := settlementCampaign()
	campaign.ContractAddress = ""

	settled := job.settleCampaign(context.Background(), campaign)

	// 未上链的活动不触发链调用
	assert.Equal(t, 0, settled)
	assert.Equal(t, 0, gateway.releaseCalls)
	assert.Equal(t, model.MilestoneStatusApproved, campaign.Milestones[1].Status)
}
