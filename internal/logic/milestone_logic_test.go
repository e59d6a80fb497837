package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parthparmar07/ChainFund/internal/errs"
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

func votingCampaign() *model.Campaign {
	return &model.Campaign{
		ID:              "camp-1",
		CreatorWallet:   "0xCreator",
		ContractAddress: "0xContract",
		Status:          model.CampaignStatusActive,
		Backers: []model.Backer{
			{WalletAddress: "0xBacker1", AmountBacked: 1},
			{WalletAddress: "0xBacker2", AmountBacked: 2},
			{WalletAddress: "0xBacker3", AmountBacked: 3},
		},
		Milestones: []model.Milestone{
			{Index: 0, Title: "阶段一", Amount: 3, Status: model.MilestoneStatusSubmitted, ProofIPFS: "QmProof"},
		},
	}
}

func TestApplyVote_NonBackerRejected(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()

	_, err := logic.applyVote(context.Background(), campaign, 0, "0xStranger", true)
	require.Error(t, err)
	assert.Equal(t, 403, errs.HTTPStatus(err))
	assert.Empty(t, campaign.Milestones[0].Votes)
}

func TestApplyVote_InvalidIndex(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)

	_, err := logic.applyVote(context.Background(), votingCampaign(), 5, "0xBacker1", true)
	require.Error(t, err)
	assert.Equal(t, 400, errs.HTTPStatus(err))
}

func TestApplyVote_NotInVotingState(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()
	campaign.Milestones[0].Status = model.MilestoneStatusPending

	_, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", true)
	require.Error(t, err)
	assert.Equal(t, 400, errs.HTTPStatus(err))
}

func TestApplyVote_BelowThresholdStaysSubmitted(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()

	// 两票一赞成，门槛为2，不通过
	_, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", false)
	require.NoError(t, err)
	result, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker2", true)
	require.NoError(t, err)

	assert.True(t, result.VoteRecorded)
	assert.Equal(t, string(model.MilestoneStatusSubmitted), result.MilestoneStatus)
	assert.Equal(t, 0, gateway.releaseCalls)
	assert.Equal(t, 2, result.Tally.Total)
	assert.Equal(t, 1, result.Tally.Approve)
}

func TestApplyVote_ApprovalTriggersRelease(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()

	// 单票赞成即达到门槛1，触发链上释放
	result, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", true)
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.releaseCalls)
	assert.Equal(t, string(model.MilestoneStatusCompleted), result.MilestoneStatus)
	assert.Equal(t, "0xReleaseTx", result.TransactionHash)
	assert.Equal(t, "0xReleaseTx", campaign.Milestones[0].ReleaseTx)
}

func TestApplyVote_ReleaseFailureKeepsApproved(t *testing.T) {
	gateway := &fakeChainGateway{releaseErr: errors.New("rpc timeout")}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()

	// 释放失败不回滚投票，里程碑停留在approved
	result, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", true)
	require.NoError(t, err)

	assert.True(t, result.VoteRecorded)
	assert.Equal(t, string(model.MilestoneStatusApproved), result.MilestoneStatus)
	assert.Empty(t, result.TransactionHash)
	assert.Equal(t, model.MilestoneStatusApproved, campaign.Milestones[0].Status)
	assert.Empty(t, campaign.Milestones[0].ReleaseTx)
}

func TestApplyVote_RevoteReplaces(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()

	_, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", false)
	require.NoError(t, err)
	_, err = logic.applyVote(context.Background(), campaign, 0, "0xBacker2", false)
	require.NoError(t, err)

	// Backer1改投赞成后为2票中1赞成，仍未达门槛
	result, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tally.Total)
	assert.Equal(t, 1, result.Tally.Approve)
	assert.Equal(t, string(model.MilestoneStatusSubmitted), result.MilestoneStatus)

	// Backer2也改投赞成，2/2达到门槛2
	result, err = logic.applyVote(context.Background(), campaign, 0, "0xBacker2", true)
	require.NoError(t, err)
	assert.Equal(t, string(model.MilestoneStatusCompleted), result.MilestoneStatus)
	assert.WithinDuration(t, time.Now(), campaign.Milestones[0].UpdatedAt, time.Minute)
}

func TestApplyVote_NoContractSkipsRelease(t *testing.T) {
	gateway := &fakeChainGateway{}
	logic := NewMilestoneLogic(nil, gateway, nil)
	campaign := votingCampaign()
	campaign.ContractAddress = ""

	result, err := logic.applyVote(context.Background(), campaign, 0, "0xBacker1", true)
	require.NoError(t, err)

	// 未上链的活动只做状态迁移，不触发链调用
	assert.Equal(t, 0, gateway.releaseCalls)
	assert.Equal(t, string(model.MilestoneStatusApproved), result.MilestoneStatus)
}
