package mirror

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/config"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

var defaultTags = []string{"photo-context", "ai-analysis"}

type s3Mirror struct {
	client *s3.Client
	cfg    *config.MirrorConfig
	log    *zap.Logger
}

// NewS3Mirror builds a mirror backed by an S3-compatible bucket. When the
// config carries no credentials it returns the disabled no-op instead.
func NewS3Mirror(cfg *config.MirrorConfig, log *zap.Logger) (Mirror, error) {
	if !cfg.Enabled() {
		log.Info("Cloud mirror disabled: no credentials configured")
		return NewDisabled(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load mirror credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info("Cloud mirror initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("folder", cfg.Folder))

	return &s3Mirror{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

func (m *s3Mirror) Enabled() bool { return true }

// Upload copies a stored file to the mirror folder. Every failure is folded
// into the returned result; the processing path never sees an error from here.
func (m *s3Mirror) Upload(ctx context.Context, localPath, fileName, contentType string) *domain.CloudMirrorResult {
	file, err := os.Open(localPath)
	if err != nil {
		return m.failure(fileName, fmt.Sprintf("failed to open local file: %v", err))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return m.failure(fileName, fmt.Sprintf("failed to stat local file: %v", err))
	}

	key := path.Join(m.cfg.Folder, fileName)

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.BucketName),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Size()),
		Tagging:       aws.String(tagging(defaultTags)),
	})
	if err != nil {
		m.log.Warn("Mirror upload failed",
			zap.String("key", key),
			zap.Error(err))
		return m.failure(fileName, err.Error())
	}

	m.log.Info("File mirrored to cloud storage",
		zap.String("key", key),
		zap.Int64("size", info.Size()))

	// The folder is fixed per deployment, so the bare file name is the
	// public identifier for list/info/delete.
	return &domain.CloudMirrorResult{
		Success:   true,
		RemoteURL: m.objectURL(key),
		RemoteID:  fileName,
		FileName:  fileName,
		Folder:    m.cfg.Folder,
		Tags:      defaultTags,
	}
}

func (m *s3Mirror) List(ctx context.Context) ([]domain.CloudImage, error) {
	output, err := m.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.BucketName),
		Prefix: aws.String(m.cfg.Folder + "/"),
	})
	if err != nil {
		m.log.Error("Failed to list mirrored images", zap.Error(err))
		return nil, err
	}

	var images []domain.CloudImage
	for _, obj := range output.Contents {
		key := aws.ToString(obj.Key)
		img := domain.CloudImage{
			RemoteID:  path.Base(key),
			RemoteURL: m.objectURL(key),
			FileName:  path.Base(key),
		}
		if obj.Size != nil {
			img.Size = *obj.Size
		}
		if obj.LastModified != nil {
			img.UpdatedAt = *obj.LastModified
		}
		images = append(images, img)
	}

	return images, nil
}

func (m *s3Mirror) Info(ctx context.Context, remoteID string) (*domain.CloudImage, error) {
	key := path.Join(m.cfg.Folder, remoteID)

	output, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		m.log.Error("Failed to fetch mirrored image info",
			zap.String("remote_id", remoteID),
			zap.Error(err))
		return nil, err
	}

	img := &domain.CloudImage{
		RemoteID:  remoteID,
		RemoteURL: m.objectURL(key),
		FileName:  remoteID,
	}
	if output.ContentLength != nil {
		img.Size = *output.ContentLength
	}
	if output.LastModified != nil {
		img.UpdatedAt = *output.LastModified
	}

	return img, nil
}

func (m *s3Mirror) Delete(ctx context.Context, remoteID string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.cfg.BucketName),
		Key:    aws.String(path.Join(m.cfg.Folder, remoteID)),
	})
	if err != nil {
		m.log.Error("Failed to delete mirrored image",
			zap.String("remote_id", remoteID),
			zap.Error(err))
		return err
	}

	m.log.Info("Mirrored image deleted", zap.String("remote_id", remoteID))
	return nil
}

func (m *s3Mirror) failure(fileName, message string) *domain.CloudMirrorResult {
	return &domain.CloudMirrorResult{
		Success:  false,
		FileName: fileName,
		Folder:   m.cfg.Folder,
		Error:    message,
	}
}

func (m *s3Mirror) objectURL(key string) string {
	if m.cfg.Endpoint != "" {
		return strings.TrimSuffix(m.cfg.Endpoint, "/") + "/" + m.cfg.BucketName + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.cfg.BucketName, m.cfg.Region, key)
}

func tagging(tags []string) string {
	values := url.Values{}
	for i, t := range tags {
		values.Set(fmt.Sprintf("tag%d", i+1), t)
	}
	return values.Encode()
}
