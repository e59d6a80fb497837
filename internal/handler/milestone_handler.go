package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/logic"
)

// maxProofSize 证明文件大小上限
const maxProofSize = 10 << 20 // 10MB

// MilestoneHandler 里程碑处理器
type MilestoneHandler struct {
	milestoneLogic *logic.MilestoneLogic
}

// NewMilestoneHandler 创建里程碑处理器
func NewMilestoneHandler(milestoneLogic *logic.MilestoneLogic) *MilestoneHandler {
	return &MilestoneHandler{milestoneLogic: milestoneLogic}
}

// SubmitProof 提交里程碑完成证明
func (h *MilestoneHandler) SubmitProof(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑index")
		return
	}

	creatorWallet := c.PostForm("creator_wallet")
	if creatorWallet == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少creator_wallet参数")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "缺少证明文件")
		return
	}
	if fileHeader.Size > maxProofSize {
		ErrorResponse(c, http.StatusBadRequest, "证明文件超过大小限制")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "读取证明文件失败")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "读取证明文件失败")
		return
	}

	ipfsHash, err := h.milestoneLogic.SubmitProof(c.Request.Context(),
		c.Param("id"), index, creatorWallet, data, fileHeader.Filename)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "证明提交成功", gin.H{"proof_ipfs": ipfsHash})
}

// GetMilestones 获取活动的所有里程碑
func (h *MilestoneHandler) GetMilestones(c *gin.Context) {
	milestones, err := h.milestoneLogic.GetMilestones(c.Param("id"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取里程碑列表成功", gin.H{
		"milestones":       milestones,
		"total_milestones": len(milestones),
	})
}

// GetMilestone 获取单个里程碑详情
func (h *MilestoneHandler) GetMilestone(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑index")
		return
	}

	milestone, err := h.milestoneLogic.GetMilestone(c.Param("id"), index)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取里程碑成功", milestone)
}

// VoteOnMilestone 对里程碑投票
func (h *MilestoneHandler) VoteOnMilestone(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑index")
		return
	}

	var input struct {
		BackerWallet string `json:"backer_wallet" binding:"required"`
		Approve      *bool  `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.milestoneLogic.Vote(c.Request.Context(),
		c.Param("id"), index, input.BackerWallet, *input.Approve)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, result.Message, result)
}

// GetMilestoneVotes 获取里程碑投票详情
func (h *MilestoneHandler) GetMilestoneVotes(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑index")
		return
	}

	votes, err := h.milestoneLogic.GetVotes(c.Param("id"), index)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取投票详情成功", votes)
}
