package router

import (
	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/handler"
	"github.com/parthparmar07/ChainFund/internal/logic"
	"github.com/parthparmar07/ChainFund/internal/storage"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, chainGateway chain.Gateway, storageGateway storage.Gateway, fundingLogic *logic.FundingLogic) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "chainfund-service",
		})
	})

	nftLogic := logic.NewNFTLogic(db, chainGateway)
	campaignHandler := handler.NewCampaignHandler(logic.NewCampaignLogic(db, chainGateway))
	fundingHandler := handler.NewFundingHandler(fundingLogic)
	milestoneHandler := handler.NewMilestoneHandler(logic.NewMilestoneLogic(db, chainGateway, storageGateway))
	userHandler := handler.NewUserHandler(logic.NewUserLogic(db), logic.NewSkillLogic(db), nftLogic)
	nftHandler := handler.NewNFTHandler(nftLogic)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动相关路由
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/progress", campaignHandler.GetCampaignProgress)
			campaigns.DELETE("/:id", campaignHandler.CancelCampaign)

			// 出资
			campaigns.POST("/:id/fund", fundingHandler.FundCampaign)
			campaigns.GET("/:id/backers", fundingHandler.GetBackers)

			// 里程碑
			campaigns.GET("/:id/milestones", milestoneHandler.GetMilestones)
			campaigns.GET("/:id/milestones/:index", milestoneHandler.GetMilestone)
			campaigns.POST("/:id/milestones/:index/proof", milestoneHandler.SubmitProof)
			campaigns.POST("/:id/milestones/:index/vote", milestoneHandler.VoteOnMilestone)
			campaigns.GET("/:id/milestones/:index/votes", milestoneHandler.GetMilestoneVotes)

			// 活动NFT
			campaigns.GET("/:id/nfts", nftHandler.GetNFTsByCampaign)
			campaigns.GET("/:id/nfts/stats", nftHandler.GetNFTStats)
		}

		// 用户相关路由
		users := v1.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("/:wallet", userHandler.GetUser)
			users.GET("/:wallet/skill-score", userHandler.GetSkillScore)
			users.POST("/:wallet/skill-score/recompute", userHandler.RecomputeSkillScore)
			users.POST("/:wallet/skill-activity", userHandler.AddSkillActivity)
			users.POST("/:wallet/skill-nft", userHandler.MintSkillNFT)
			users.GET("/:wallet/skill-nft", userHandler.GetSkillNFT)
		}

		// NFT相关路由
		nfts := v1.Group("/nfts")
		{
			nfts.GET("/wallet/:wallet", nftHandler.GetNFTsByWallet)
			nfts.GET("/tiers", nftHandler.GetTierTable)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
