package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/logic"
)

// CampaignHandler 众筹活动处理器
type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

// NewCampaignHandler 创建众筹活动处理器
func NewCampaignHandler(campaignLogic *logic.CampaignLogic) *CampaignHandler {
	return &CampaignHandler{campaignLogic: campaignLogic}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var input logic.CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 调用logic层创建活动
	campaign, err := h.campaignLogic.CreateCampaign(c.Request.Context(), &input)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", campaign)
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	status := c.Query("status")
	creator := c.Query("creator")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	campaigns, total, err := h.campaignLogic.GetCampaigns(status, creator, page, pageSize)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动列表成功", gin.H{
		"campaigns":  campaigns,
		"pagination": NewPagination(page, pageSize, total),
	})
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignLogic.GetCampaign(c.Param("id"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动成功", campaign)
}

// GetCampaignProgress 获取活动进度
func (h *CampaignHandler) GetCampaignProgress(c *gin.Context) {
	progress, err := h.campaignLogic.GetCampaignProgress(c.Param("id"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动进度成功", progress)
}

// CancelCampaign 取消活动
func (h *CampaignHandler) CancelCampaign(c *gin.Context) {
	var input struct {
		CreatorWallet string `json:"creator_wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.campaignLogic.CancelCampaign(c.Param("id"), input.CreatorWallet); err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动已取消", nil)
}
