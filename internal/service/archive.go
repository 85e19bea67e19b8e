package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/chefmate/backend/config"
	"github.com/chefmate/backend/internal/types"
)

// ArchiveService exports closed session transcripts to S3. It is optional:
// with no bucket configured the service is nil and callers skip the export.
type ArchiveService struct {
	s3Config *config.S3Config
}

// NewArchiveService creates a new ArchiveService instance
func NewArchiveService(s3Config *config.S3Config) *ArchiveService {
	return &ArchiveService{s3Config: s3Config}
}

// ExportTranscript uploads the session transcript as JSON under
// transcripts/<session-id>.json and returns the object URL.
func (s *ArchiveService) ExportTranscript(ctx context.Context, session *types.Session) (string, error) {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}

	key := fmt.Sprintf("transcripts/%s.json", session.ID)
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript to S3: %w", err)
	}

	objectURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ArchiveService] exported transcript for session %s to %s", session.ID, objectURL)

	return objectURL, nil
}
