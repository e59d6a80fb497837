package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/parthparmar07/ChainFund/internal/chain"
	"github.com/parthparmar07/ChainFund/internal/config"
	"github.com/parthparmar07/ChainFund/internal/database"
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/parthparmar07/ChainFund/internal/logic"
	"github.com/parthparmar07/ChainFund/internal/router"
	"github.com/parthparmar07/ChainFund/internal/storage"
	"github.com/parthparmar07/ChainFund/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	logger.Init(cfg.Log)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化链客户端
	chainClient, err := chain.Init(cfg.Chain)
	if err != nil {
		log.Fatalf("Failed to initialize chain client: %v", err)
	}

	// 初始化IPFS存储
	ipfsClient := storage.NewPinataClient(cfg.IPFS)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 出资逻辑持有异步铸造协程池，在入口创建以便退出时关闭
	fundingLogic := logic.NewFundingLogic(db, chainClient, logic.NewNFTLogic(db, chainClient))
	defer fundingLogic.Close()

	// 初始化路由
	r := router.Setup(db, chainClient, ipfsClient, fundingLogic)

	// 启动定时任务
	manager := task.Start(db, chainClient, cfg)
	defer manager.Stop()

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
