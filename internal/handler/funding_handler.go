package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/logic"
)

// FundingHandler 注资处理器
type FundingHandler struct {
	fundingLogic *logic.FundingLogic
}

// NewFundingHandler 创建注资处理器
func NewFundingHandler(fundingLogic *logic.FundingLogic) *FundingHandler {
	return &FundingHandler{fundingLogic: fundingLogic}
}

// FundCampaign 向活动注资
func (h *FundingHandler) FundCampaign(c *gin.Context) {
	var input struct {
		BackerWallet string  `json:"backer_wallet" binding:"required"`
		Amount       float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.fundingLogic.Fund(c.Request.Context(), c.Param("id"), input.BackerWallet, input.Amount)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "注资成功", result)
}

// GetBackers 获取活动支持者列表
func (h *FundingHandler) GetBackers(c *gin.Context) {
	backers, err := h.fundingLogic.GetBackers(c.Param("id"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取支持者列表成功", gin.H{
		"backers":       backers,
		"total_backers": len(backers),
	})
}
