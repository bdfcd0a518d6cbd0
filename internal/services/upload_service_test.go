package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/happynation/wellbeing-service/internal/events"
	"github.com/happynation/wellbeing-service/internal/imagehost"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/validator"
)

type stubUploader struct {
	url   string
	err   error
	calls int
}

func (s *stubUploader) Upload(ctx context.Context, img imagehost.Image) (string, error) {
	s.calls++
	return s.url, s.err
}

func newTestUploadService(repo *MockRepository, uploader imagehost.Uploader) UploadService {
	logger := quietLogger()
	v := validator.New()
	notifications := NewNotificationService(repo, logger)
	employees := NewEmployeeService(repo, notifications, NewNotificationEventService(events.NewMockEventPublisher(logger), logger),
		NewAnalyticsService(repo, nil, logger, 0), v, logger)
	authService := NewAuthService(repo, nil, nil, nil, v, logger)
	return NewUploadService(uploader, employees, authService, logger)
}

func pngImage(size int64) imagehost.Image {
	return imagehost.Image{Filename: "me.png", ContentType: "image/png", Size: size, Body: strings.NewReader("png")}
}

func TestUploadService_EmployeeAvatar(t *testing.T) {
	repo := newMockRepository()
	uploader := &stubUploader{url: "https://img.example.com/me.png"}
	repo.employee.On("GetByEmail", mock.Anything, "ann@corp.com").Return(&models.Employee{Email: "ann@corp.com", Name: "Ann"}, nil)
	repo.employee.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Employee) bool {
		return e.Image == "https://img.example.com/me.png"
	})).Return(nil)
	repo.notification.On("Create", mock.Anything, mock.Anything).Return(nil)

	employee, err := newTestUploadService(repo, uploader).UploadEmployeeAvatar(context.Background(), "ann@corp.com", pngImage(1024))
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/me.png", employee.Image)
	assert.Equal(t, 1, uploader.calls)
}

func TestUploadService_RejectsBadImages(t *testing.T) {
	tests := []struct {
		name string
		img  imagehost.Image
	}{
		{name: "too large", img: pngImage(imagehost.MaxImageSize + 1)},
		{name: "wrong type", img: imagehost.Image{Filename: "cv.pdf", ContentType: "application/pdf", Size: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			uploader := &stubUploader{url: "unused"}
			repo.employee.On("GetByEmail", mock.Anything, "ann@corp.com").Return(&models.Employee{Email: "ann@corp.com"}, nil)

			_, err := newTestUploadService(repo, uploader).UploadEmployeeAvatar(context.Background(), "ann@corp.com", tt.img)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Zero(t, uploader.calls)
		})
	}
}

func TestUploadService_HostFailureLeavesProfile(t *testing.T) {
	repo := newMockRepository()
	repo.admin.On("GetByEmail", mock.Anything, DefaultAdminEmail).Return(&models.Admin{Email: DefaultAdminEmail}, nil)

	_, err := newTestUploadService(repo, &stubUploader{err: errors.New("503")}).
		UploadAdminAvatar(context.Background(), DefaultAdminEmail, pngImage(10))
	assert.ErrorIs(t, err, ErrImageUploadFailed)
	assert.True(t, IsUpstream(err))
	repo.admin.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUploadService_Disabled(t *testing.T) {
	repo := newMockRepository()
	repo.employee.On("GetByEmail", mock.Anything, "ann@corp.com").Return(&models.Employee{Email: "ann@corp.com"}, nil)

	_, err := newTestUploadService(repo, nil).UploadEmployeeAvatar(context.Background(), "ann@corp.com", pngImage(10))
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}
