package storage

import (
	"context"
)

// Gateway 内容寻址存储网关接口
type Gateway interface {
	// Upload 上传字节内容，返回内容地址（IPFS哈希）
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}
