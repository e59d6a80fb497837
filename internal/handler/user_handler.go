package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/logic"
)

// UserHandler 用户处理器
type UserHandler struct {
	userLogic  *logic.UserLogic
	skillLogic *logic.SkillLogic
	nftLogic   *logic.NFTLogic
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userLogic *logic.UserLogic, skillLogic *logic.SkillLogic, nftLogic *logic.NFTLogic) *UserHandler {
	return &UserHandler{
		userLogic:  userLogic,
		skillLogic: skillLogic,
		nftLogic:   nftLogic,
	}
}

// Register 注册用户
func (h *UserHandler) Register(c *gin.Context) {
	var input struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
		Email         string `json:"email"`
		Username      string `json:"username"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userLogic.RegisterUser(input.WalletAddress, input.Email, input.Username)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "用户注册成功", user)
}

// GetUser 获取用户信息
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userLogic.GetUser(c.Param("wallet"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取用户成功", user)
}

// GetSkillScore 获取用户技能评分综合数据
func (h *UserHandler) GetSkillScore(c *gin.Context) {
	data, err := h.skillLogic.GetSkillScoreData(c.Param("wallet"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取技能评分成功", data)
}

// AddSkillActivity 追加技能活动
func (h *UserHandler) AddSkillActivity(c *gin.Context) {
	var input logic.SkillActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.skillLogic.AddSkillActivity(c.Param("wallet"), &input)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "技能活动已记录", gin.H{
		"new_skill_score": user.SkillScore,
		"new_skill_level": user.SkillLevel,
	})
}

// RecomputeSkillScore 手动触发技能评分重算
func (h *UserHandler) RecomputeSkillScore(c *gin.Context) {
	user, err := h.skillLogic.RecomputeSkillScore(c.Param("wallet"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "技能评分已更新", gin.H{
		"skill_score": user.SkillScore,
		"skill_level": user.SkillLevel,
	})
}

// MintSkillNFT 铸造或更新技能NFT
func (h *UserHandler) MintSkillNFT(c *gin.Context) {
	// 以当前评分为准铸造或更新
	user, err := h.userLogic.GetUser(c.Param("wallet"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	nft, err := h.nftLogic.MintOrUpdateSkillNFT(c.Request.Context(), user.WalletAddress, user.SkillScore)
	if err != nil {
		FailWithError(c, err)
		return
	}

	// 回填用户的技能NFT token id
	if nft.TokenID != nil && (user.SkillNFTTokenID == nil || *user.SkillNFTTokenID != *nft.TokenID) {
		user.SkillNFTTokenID = nft.TokenID
		if err := h.userLogic.SaveSkillNFTTokenID(user); err != nil {
			FailWithError(c, err)
			return
		}
	}

	SuccessResponse(c, http.StatusOK, "技能NFT铸造/更新成功", nft)
}

// GetSkillNFT 获取用户技能NFT
func (h *UserHandler) GetSkillNFT(c *gin.Context) {
	nft, err := h.nftLogic.GetSkillNFT(c.Param("wallet"))
	if err != nil {
		FailWithError(c, err)
		return
	}
	if nft == nil {
		SuccessResponse(c, http.StatusOK, "用户尚无技能NFT", nil)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取技能NFT成功", nft)
}
