package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// RemoteAsset is the pointer pair the store hands back for one object.
type RemoteAsset struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// RemoteObject is one entry of the store listing.
type RemoteObject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

// S3AssetStore holds the catalog's image bytes in an S3 bucket, served
// through CloudFront. Object keys double as asset identifiers.
type S3AssetStore struct {
	client *s3.Client
	bucket string
	cdnURL string
	prefix string
}

func NewS3AssetStore() (*S3AssetStore, error) {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}

	prefix := os.Getenv("S3_PREFIX")
	if prefix == "" {
		prefix = "cut-images"
	}

	return &S3AssetStore{
		client: s3.NewFromConfig(cfg),
		bucket: os.Getenv("S3_BUCKET"),
		cdnURL: os.Getenv("CLOUDFRONT_URL"),
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Upload stores a new object and returns its identifier and public URL.
// The key embeds a nanosecond stamp so re-uploads never collide.
func (s *S3AssetStore) Upload(ctx context.Context, data []byte, name, contentType string) (RemoteAsset, error) {
	ext := path.Ext(name)
	base := strings.TrimSuffix(path.Base(name), ext)
	key := fmt.Sprintf("%s/%s-%d%s", s.prefix, base, time.Now().UnixNano(), ext)

	if err := s.put(ctx, key, data, contentType); err != nil {
		return RemoteAsset{}, err
	}
	return RemoteAsset{ID: key, URL: s.URLFor(key)}, nil
}

// Update overwrites an existing object in place, keeping its identifier.
func (s *S3AssetStore) Update(ctx context.Context, id string, data []byte, contentType string) (RemoteAsset, error) {
	if err := s.put(ctx, id, data, contentType); err != nil {
		return RemoteAsset{}, err
	}
	return RemoteAsset{ID: id, URL: s.URLFor(id)}, nil
}

func (s *S3AssetStore) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// Delete removes an object. S3 deletes are idempotent: removing a key
// that no longer exists still succeeds.
func (s *S3AssetStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// List returns every object under the store prefix.
func (s *S3AssetStore) List(ctx context.Context) ([]RemoteObject, error) {
	var objects []RemoteObject
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			objects = append(objects, RemoteObject{
				ID:       key,
				Name:     path.Base(key),
				MimeType: mime.TypeByExtension(path.Ext(key)),
			})
		}
	}
	return objects, nil
}

func (s *S3AssetStore) Download(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// URLFor builds the public URL for an object, via CloudFront.
func (s *S3AssetStore) URLFor(id string) string {
	return fmt.Sprintf("%s/%s", s.cdnURL, id)
}

// ParseBase64Image splits a data URI ("data:<mime>;base64,<data>") into
// raw bytes, content type, and a file extension for that type.
func ParseBase64Image(base64Data string) (data []byte, contentType, ext string, err error) {
	parts := strings.Split(base64Data, ",")
	if len(parts) != 2 {
		return nil, "", "", fmt.Errorf("invalid base64 image")
	}

	mediaType := strings.SplitN(parts[0], ":", 2)
	if len(mediaType) != 2 {
		return nil, "", "", fmt.Errorf("invalid base64 image")
	}
	contentType = strings.SplitN(mediaType[1], ";", 2)[0] // "image/jpeg"

	exts, _ := mime.ExtensionsByType(contentType)
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if len(exts) > 0 {
			ext = exts[0]
		} else if sub := strings.SplitN(contentType, "/", 2); len(sub) == 2 {
			ext = "." + sub[1]
		}
	}

	data, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decode image: %v", err)
	}
	return data, contentType, ext, nil
}
