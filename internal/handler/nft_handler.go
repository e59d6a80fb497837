package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/logic"
)

// NFTHandler NFT处理器
type NFTHandler struct {
	nftLogic *logic.NFTLogic
}

// NewNFTHandler 创建NFT处理器
func NewNFTHandler(nftLogic *logic.NFTLogic) *NFTHandler {
	return &NFTHandler{nftLogic: nftLogic}
}

// GetNFTsByWallet 获取钱包持有的NFT列表
func (h *NFTHandler) GetNFTsByWallet(c *gin.Context) {
	nfts, err := h.nftLogic.GetNFTsByWallet(c.Param("wallet"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取NFT列表成功", gin.H{
		"nfts":  nfts,
		"count": len(nfts),
	})
}

// GetNFTsByCampaign 获取活动下已铸造的NFT列表
func (h *NFTHandler) GetNFTsByCampaign(c *gin.Context) {
	nfts, err := h.nftLogic.GetNFTsByCampaign(c.Param("id"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取NFT列表成功", gin.H{
		"nfts":  nfts,
		"count": len(nfts),
	})
}

// GetNFTStats 获取活动NFT统计
func (h *NFTHandler) GetNFTStats(c *gin.Context) {
	stats, err := h.nftLogic.GetNFTStats(c.Param("id"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取NFT统计成功", stats)
}

// GetTierTable 获取出资档位与技能NFT等级说明
func (h *NFTHandler) GetTierTable(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "获取档位说明成功", gin.H{
		"backing_tiers": logic.BackingTierTable(),
		"skill_levels":  logic.SkillNFTLevelTable(),
	})
}
