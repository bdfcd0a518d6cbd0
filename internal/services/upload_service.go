package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/happynation/wellbeing-service/internal/imagehost"
	"github.com/happynation/wellbeing-service/internal/models"
)

// UploadService stores profile pictures on the image host and links them to
// the owning account. A failed upload leaves the profile unchanged.
type UploadService interface {
	UploadEmployeeAvatar(ctx context.Context, email string, img imagehost.Image) (*models.Employee, error)
	UploadAdminAvatar(ctx context.Context, email string, img imagehost.Image) (*models.Admin, error)
}

type uploadService struct {
	uploader  imagehost.Uploader
	employees EmployeeService
	auth      AuthService
	logger    *slog.Logger
}

// NewUploadService builds the service. A nil uploader disables uploads.
func NewUploadService(uploader imagehost.Uploader, employees EmployeeService, authService AuthService, logger *slog.Logger) UploadService {
	return &uploadService{
		uploader:  uploader,
		employees: employees,
		auth:      authService,
		logger:    logger,
	}
}

func (s *uploadService) UploadEmployeeAvatar(ctx context.Context, email string, img imagehost.Image) (*models.Employee, error) {
	if _, err := s.employees.Get(ctx, email); err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, img)
	if err != nil {
		return nil, err
	}
	return s.employees.SetImage(ctx, email, url)
}

func (s *uploadService) UploadAdminAvatar(ctx context.Context, email string, img imagehost.Image) (*models.Admin, error) {
	if _, err := s.auth.AdminProfile(ctx, email); err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, img)
	if err != nil {
		return nil, err
	}
	return s.auth.SetAdminImage(ctx, email, url)
}

func (s *uploadService) upload(ctx context.Context, img imagehost.Image) (string, error) {
	if s.uploader == nil {
		return "", ErrUploadsDisabled
	}

	if err := imagehost.Check(img); err != nil {
		switch {
		case errors.Is(err, imagehost.ErrTooLarge):
			return "", NewValidationError("image", "must be at most 5 MB", img.Size)
		case errors.Is(err, imagehost.ErrUnsupportedType):
			return "", NewValidationError("image", "must be a JPEG, PNG, GIF or WebP image", img.ContentType)
		}
		return "", err
	}

	url, err := s.uploader.Upload(ctx, img)
	if err != nil {
		s.logger.WarnContext(ctx, "Image upload failed", "filename", img.Filename, "error", err)
		return "", fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
	}
	return url, nil
}
