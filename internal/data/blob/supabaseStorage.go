package blob

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	storage "github.com/supabase-community/storage-go"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var uploaderInstance *supabaseUploader

// Uploader stores raw uploads and hands back a public URL the pipeline can
// fetch from later.
type Uploader interface {
	Upload(ctx context.Context, documentId string, fileName string, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

type supabaseUploader struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func GetSupabaseUploader() Uploader {
	once.Do(func() {
		logger = logger_i.NewLogger("Supabase Storage")
		if config.SupabaseURL == "" || config.SupabaseServiceKey == "" {
			logger.Error("supabase storage is not configured")
			return
		}
		uploaderInstance = &supabaseUploader{
			client:  storage.NewClient(config.SupabaseURL+"/storage/v1", config.SupabaseServiceKey, nil),
			baseURL: strings.TrimRight(config.SupabaseURL, "/"),
			bucket:  config.StorageBucket,
		}
		logger.Info("Supabase storage client created")
	})

	if uploaderInstance == nil {
		return nil
	}
	return uploaderInstance
}

func (u *supabaseUploader) Upload(ctx context.Context, documentId string, fileName string, contentType string, data []byte) (string, error) {
	ext := filepath.Ext(fileName)
	objectPath := fmt.Sprintf("%s%s", documentId, ext)

	options := storage.FileOptions{
		ContentType: &contentType,
	}

	_, err := u.client.UploadFile(u.bucket, objectPath, bytes.NewBuffer(data), options)
	if err != nil {
		return "", fmt.Errorf("supabase upload failed: %w", err)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, objectPath)
	logger.Debug("uploaded blob", "path", objectPath, "bytes", len(data))
	return publicURL, nil
}

func (u *supabaseUploader) Remove(ctx context.Context, objectPath string) error {
	// accept either a bare object path or a full public URL
	if idx := strings.Index(objectPath, "/object/public/"+u.bucket+"/"); idx != -1 {
		objectPath = objectPath[idx+len("/object/public/"+u.bucket+"/"):]
	}
	_, err := u.client.RemoveFile(u.bucket, []string{objectPath})
	if err != nil {
		return fmt.Errorf("supabase delete failed: %w", err)
	}
	return nil
}
