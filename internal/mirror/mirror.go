package mirror

import (
	"context"
	"errors"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

// ErrDisabled is returned by management operations when no cloud storage
// credentials were configured.
var ErrDisabled = errors.New("cloud mirror is disabled: no credentials configured")

// Mirror copies processed uploads to remote object storage. Uploading is
// best-effort: a failure comes back as a failed CloudMirrorResult and must
// never abort the image processing path. The management operations (list,
// info, delete) return ordinary errors since they have no record to carry
// a failure flag in.
type Mirror interface {
	Enabled() bool
	Upload(ctx context.Context, localPath, fileName, contentType string) *domain.CloudMirrorResult
	List(ctx context.Context) ([]domain.CloudImage, error)
	Info(ctx context.Context, remoteID string) (*domain.CloudImage, error)
	Delete(ctx context.Context, remoteID string) error
}

// Disabled is the no-op mirror used when credentials are absent. Upload
// reports skipped as nil so records omit the cloud field entirely.
type Disabled struct{}

func NewDisabled() *Disabled { return &Disabled{} }

func (d *Disabled) Enabled() bool { return false }

func (d *Disabled) Upload(ctx context.Context, localPath, fileName, contentType string) *domain.CloudMirrorResult {
	return nil
}

func (d *Disabled) List(ctx context.Context) ([]domain.CloudImage, error) {
	return nil, ErrDisabled
}

func (d *Disabled) Info(ctx context.Context, remoteID string) (*domain.CloudImage, error) {
	return nil, ErrDisabled
}

func (d *Disabled) Delete(ctx context.Context, remoteID string) error {
	return ErrDisabled
}
