package wallet

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/parthparmar07/ChainFund/internal/errs"
)

// IsValid 校验是否为合法的链上账户地址
func IsValid(address string) bool {
	return common.IsHexAddress(address)
}

// Normalize 将地址规范化为EIP-55校验和格式
// 规范化后的地址是整个系统中用户身份的唯一键
func Normalize(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", errs.Validation("无效的钱包地址: " + address)
	}
	return common.HexToAddress(address).Hex(), nil
}
