package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stock-ahora/api-mod-semanal/internal/config"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const uploadTimeout = 60 * time.Second

// ReportArchiver guarda una copia de cada reporte generado.
type ReportArchiver interface {
	Archive(ctx context.Context, prefix, fileName string, content []byte) (string, error)
}

type uploader interface {
	Upload(ctx context.Context, input *awss3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// wrapper para el servicio de subida a S3
type S3Svc struct {
	uploader   uploader
	bucket     string
	publicBase string
	logger     *zap.Logger
}

func NewS3Svc(cfg config.UploadService, logger *zap.Logger) *S3Svc {
	return &S3Svc{
		uploader:   cfg.Uploader,
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicBase,
		logger:     logger,
	}
}

// Archive sube el archivo y devuelve su URL pública.
func (s *S3Svc) Archive(ctx context.Context, prefix, fileName string, content []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := buildObjectKey(sanitizeFilename(fileName), prefix)

	_, err := s.uploader.Upload(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(XLSXContentType),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			s.logger.Warn("S3 rechazó la subida",
				zap.String("code", apiErr.ErrorCode()),
				zap.String("message", apiErr.ErrorMessage()),
				zap.String("key", key),
			)
		}
		return "", fmt.Errorf("error subiendo a S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicBase, key), nil
}

func buildObjectKey(filename, prefix string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "file"
	}
	id := uuid.New().String()
	key := fmt.Sprintf("%s-%s%s", base, id, ext)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, string(filepath.Separator), "-")
	if name == "" {
		return "file"
	}
	return name
}
