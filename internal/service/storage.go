package service

import (
	"context"
	"io"
	"time"

	"deeperweave/internal/config"
	infraMinio "deeperweave/internal/infra/minio"
)

// ObjectStorage 公开读对象存储（MinIO 实现，测试可替换）
type ObjectStorage interface {
	// UploadPublic 上传对象并返回公开访问 URL
	UploadPublic(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

type minioStorage struct{}

// NewMinIOStorage 基于全局 MinIO 客户端的对象存储实现
func NewMinIOStorage() ObjectStorage {
	return &minioStorage{}
}

func (m *minioStorage) UploadPublic(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if _, err := infraMinio.UploadFile(uploadCtx, infraMinio.PublicMediaBucket, objectName, reader, size, contentType); err != nil {
		return "", err
	}

	cfg := config.GetMinIO()
	return infraMinio.GetPublicURL(cfg.Endpoint, cfg.UseSSL, infraMinio.PublicMediaBucket, objectName), nil
}
