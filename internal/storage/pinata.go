package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/parthparmar07/ChainFund/internal/config"
)

// PinataClient 基于Pinata的IPFS存储客户端
type PinataClient struct {
	apiKey    string
	secretKey string
	endpoint  string
	http      *http.Client
}

var _ Gateway = (*PinataClient)(nil)

// NewPinataClient 创建Pinata客户端
func NewPinataClient(cfg config.IPFSConfig) *PinataClient {
	return &PinataClient{
		apiKey:    cfg.PinataApiKey,
		secretKey: cfg.PinataSecretKey,
		endpoint:  cfg.Endpoint,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// pinataResponse Pinata上传接口响应
type pinataResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Upload 上传文件到IPFS，返回内容哈希
func (p *PinataClient) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.secretKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload to IPFS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("IPFS upload failed with status %d: %s", resp.StatusCode, string(msg))
	}

	var result pinataResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode IPFS response: %w", err)
	}
	if result.IpfsHash == "" {
		return "", fmt.Errorf("IPFS response missing content hash")
	}

	return result.IpfsHash, nil
}
