package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"scholarhub_backend/internal/imageprocessor"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/metrics"
	"scholarhub_backend/internal/storage"
	"scholarhub_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadService кладет файлы в Blob Store и возвращает их публичный URL
type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
	UploadMany(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
}

type UploadConfig struct {
	MaxFileSize  int64
	Folder       string
	AllowedTypes []string // MIME-типы, определяются по содержимому
	ImageQuality int
}

func GetDefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:  10 * 1024 * 1024,
		Folder:       "ScholarshipDocs",
		AllowedTypes: []string{"image/jpeg", "image/png", "application/pdf"},
		ImageQuality: 80,
	}
}

type uploadService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    *UploadConfig
	now       func() time.Time
}

func NewUploadService(storage storage.Storage, config *UploadConfig) UploadService {
	if config == nil {
		config = GetDefaultUploadConfig()
	}
	return &uploadService{
		storage:   storage,
		processor: imageprocessor.NewProcessor(config.ImageQuality),
		config:    config,
		now:       time.Now,
	}
}

func (s *uploadService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > s.config.MaxFileSize {
		metrics.RecordUpload("", false)
		return "", apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.NewBadRequestError("Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.config.MaxFileSize+1))
	if err != nil {
		return "", apperrors.NewBadRequestError("Failed to read uploaded file")
	}
	if int64(len(data)) > s.config.MaxFileSize {
		metrics.RecordUpload("", false)
		return "", apperrors.ErrFileTooLarge
	}

	// Содержимое, а не Content-Type клиента
	mtype := mimetype.Detect(data)
	if !s.isAllowed(mtype) {
		logger.CtxWarn(ctx, "Upload rejected", "filename", file.Filename, "detected", mtype.String())
		metrics.RecordUpload(mtype.Extension(), false)
		return "", apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": mtype.String()})
	}

	var body io.Reader = bytes.NewReader(data)
	if mtype.Is("image/jpeg") || mtype.Is("image/png") {
		buf, _, err := s.processor.Recompress(bytes.NewReader(data))
		if err != nil {
			metrics.RecordUpload(mtype.Extension(), false)
			return "", apperrors.ErrInvalidFileType.WithError(err)
		}
		body = buf
	}

	key := path.Join(s.config.Folder, s.now().UTC().Format("2006/01/02"), uuid.NewString()+mtype.Extension())
	if err := s.storage.Save(ctx, key, body, mtype.String()); err != nil {
		logger.CtxWithError(ctx, "Failed to save file to storage", err, "key", key)
		return "", apperrors.ExternalServiceError(err, "storage")
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return "", apperrors.ExternalServiceError(err, "storage")
	}

	metrics.RecordUpload(mtype.Extension(), true)
	logger.CtxDebug(ctx, "File uploaded", "key", key, "size", len(data), "type", mtype.String())
	return url, nil
}

func (s *uploadService) UploadMany(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.Upload(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *uploadService) isAllowed(mtype *mimetype.MIME) bool {
	for _, allowed := range s.config.AllowedTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}
