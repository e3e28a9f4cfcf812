// Package uploads stores milestone evidence files.
package uploads

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chris/gig-agreements/pkg/retry"
	"github.com/google/uuid"
)

// ErrEmptyFile is returned for a file with no content.
var ErrEmptyFile = errors.New("file is empty")

// File is an evidence file received with a milestone submission.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// StoredFile describes where a file was stored.
type StoredFile struct {
	Name        string
	Key         string
	URL         string
	Hash        string
	ContentType string
	Size        int64
}

// Uploader stores evidence files.
type Uploader interface {
	Store(ctx context.Context, milestoneID string, f File) (*StoredFile, error)
}

// S3API is the subset of the S3 client used for uploads.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores files in an S3 bucket under milestones/<id>/.
type S3Uploader struct {
	Client  S3API
	Bucket  string
	BaseURL string
	Policy  retry.Policy
}

// NewS3Uploader creates an uploader with the default retry policy. When
// baseURL is empty, virtual-hosted S3 URLs are used.
func NewS3Uploader(client S3API, bucket, baseURL string) *S3Uploader {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3Uploader{
		Client:  client,
		Bucket:  bucket,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Policy:  retry.DefaultPolicy,
	}
}

var _ Uploader = (*S3Uploader)(nil)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func objectName(name string) string {
	base := unsafeChars.ReplaceAllString(path.Base(name), "_")
	if base == "" || base == "." || base == "_" {
		base = "file"
	}
	return base
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Store uploads the file, retrying transient failures per the policy.
func (u *S3Uploader) Store(ctx context.Context, milestoneID string, f File) (*StoredFile, error) {
	if len(f.Body) == 0 {
		return nil, fmt.Errorf("file %q: %w", f.Name, ErrEmptyFile)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	hash := digest(f.Body)
	key := path.Join("milestones", milestoneID, uuid.New().String()+"-"+objectName(f.Name))

	err := u.Policy.Do(ctx, "s3.PutObject", func(ctx context.Context) error {
		_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(f.Body),
			ContentType: aws.String(contentType),
			Metadata:    map[string]string{"sha256": hash},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", f.Name, err)
	}

	return &StoredFile{
		Name:        f.Name,
		Key:         key,
		URL:         u.BaseURL + "/" + key,
		Hash:        hash,
		ContentType: contentType,
		Size:        int64(len(f.Body)),
	}, nil
}

// Digest records files by content hash without storing them. It is used
// when no bucket is configured.
type Digest struct{}

var _ Uploader = Digest{}

func (Digest) Store(_ context.Context, milestoneID string, f File) (*StoredFile, error) {
	if len(f.Body) == 0 {
		return nil, fmt.Errorf("file %q: %w", f.Name, ErrEmptyFile)
	}
	hash := digest(f.Body)
	return &StoredFile{
		Name:        f.Name,
		Key:         path.Join("milestones", milestoneID, hash),
		URL:         "sha256:" + hash,
		Hash:        hash,
		ContentType: f.ContentType,
		Size:        int64(len(f.Body)),
	}, nil
}
