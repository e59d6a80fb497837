package config

import (
	"github.com/parthparmar07/ChainFund/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	IPFS     IPFSConfig     `mapstructure:"ipfs"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
type ChainConfig struct {
	RpcUrl         string `mapstructure:"rpc_url"`         // RPC节点URL
	ChainId        int64  `mapstructure:"chain_id"`        // 链ID
	PrivateKey     string `mapstructure:"private_key"`     // 服务端私钥
	FactoryAddress string `mapstructure:"factory_address"` // 众筹工厂合约地址
	NFTAddress     string `mapstructure:"nft_address"`     // NFT合约地址
	GasLimit       uint64 `mapstructure:"gas_limit"`       // 交易Gas上限
}

// IPFSConfig IPFS存储配置
type IPFSConfig struct {
	PinataApiKey    string `mapstructure:"pinata_api_key"`
	PinataSecretKey string `mapstructure:"pinata_secret_key"`
	Endpoint        string `mapstructure:"endpoint"` // Pinata上传接口地址
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/chainfund")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "chainfund")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.rpc_url", "https://bsc-dataseed1.binance.org/")
	viper.SetDefault("chain.chain_id", 56)
	viper.SetDefault("chain.gas_limit", 2000000)
	viper.SetDefault("ipfs.endpoint", "https://api.pinata.cloud/pinning/pinFileToIPFS")
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
