package logic

import (
	"errors"

	"github.com/google/uuid"
	"github.com/parthparmar07/ChainFund/internal/errs"
	"github.com/parthparmar07/ChainFund/internal/model"
	"github.com/parthparmar07/ChainFund/internal/wallet"
	"gorm.io/gorm"
)

// UserLogic 用户业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// RegisterUser 注册用户，已存在时返回现有用户并按需更新邮箱
func (l *UserLogic) RegisterUser(walletAddress, email, username string) (*model.User, error) {
	address, err := wallet.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = l.db.Where("wallet_address = ?", address).First(&user).Error
	if err == nil {
		// 已注册，按需更新邮箱
		if email != "" && user.Email != email {
			user.Email = email
			if err := l.db.Save(&user).Error; err != nil {
				return nil, errs.Internal("更新用户邮箱失败", err)
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Internal("获取用户失败", err)
	}

	user = model.User{
		ID:            uuid.NewString(),
		WalletAddress: address,
		Email:         email,
		Username:      username,
		SkillLevel:    DetermineSkillLevel(0),
		SkillHistory:  []model.SkillHistoryEntry{},
	}

	if err := l.db.Create(&user).Error; err != nil {
		return nil, errs.Internal("创建用户失败", err)
	}

	return &user, nil
}

// GetUser 按钱包地址获取用户
func (l *UserLogic) GetUser(walletAddress string) (*model.User, error) {
	address, err := wallet.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}
	return findUser(l.db, address)
}

// SaveSkillNFTTokenID 持久化用户的技能NFT token id
func (l *UserLogic) SaveSkillNFTTokenID(user *model.User) error {
	if err := l.db.Model(user).Update("skill_nft_token_id", user.SkillNFTTokenID).Error; err != nil {
		return errs.Internal("更新用户技能NFT失败", err)
	}
	return nil
}

// findUser 按规范化后的钱包地址查找用户
func findUser(db *gorm.DB, address string) (*model.User, error) {
	var user model.User
	if err := db.Where("wallet_address = ?", address).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("用户不存在")
		}
		return nil, errs.Internal("获取用户失败", err)
	}
	return &user, nil
}
