package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const cloudinaryAPI = "https://api.cloudinary.com/v1_1"

// CloudinaryUploader posts unsigned multipart uploads with a preset.
type CloudinaryUploader struct {
	baseURL   string
	cloudName string
	preset    string
	client    *http.Client
}

func NewCloudinaryUploader(cloudName, preset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		baseURL:   cloudinaryAPI,
		cloudName: cloudName,
		preset:    preset,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (u *CloudinaryUploader) Upload(ctx context.Context, img Image) (string, error) {
	if err := Check(img); err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", img.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, img.Body); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := form.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.SecureURL == "" {
		msg := "no secure_url in response"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("image upload rejected (status %d): %s", resp.StatusCode, msg)
	}
	return out.SecureURL, nil
}
