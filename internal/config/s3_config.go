package config

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stock-ahora/api-mod-semanal/internal/config_lib"
)

func S3ConfigService(ctx context.Context, s3 S3Config) (*UploadService, error) {
	if s3.Region == "" || s3.Bucket == "" {
		return nil, errors.New("faltan variables de entorno: AWS_REGION y/o S3_BUCKET")
	}

	s3Client, uploader, publicBase, err := config_lib.NewS3Client(ctx, s3.Region, s3.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "error creando cliente S3")
	}

	return &UploadService{
		S3Client:   s3Client,
		Uploader:   uploader,
		Bucket:     s3.Bucket,
		PublicBase: publicBase,
	}, nil
}
