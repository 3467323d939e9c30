package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"matchai-service/config"
	"matchai-service/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Upload is a presigned pair for one profile media object.
type Upload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ReadURL   string    `json:"readUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Presigner struct {
	client *s3.PresignClient
	bucket string
	expire time.Duration
}

func New(client *s3.Client, bucket string, expire time.Duration) *Presigner {
	if expire <= 0 {
		expire = 5 * time.Minute
	}
	return &Presigner{client: s3.NewPresignClient(client), bucket: bucket, expire: expire}
}

// S3Connect builds a presigner from the default AWS credential chain.
func S3Connect(ctx context.Context) (*Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Config("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	bucket := config.Config("S3_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is not configured")
	}
	return New(s3.NewFromConfig(cfg), bucket, config.Duration("MEDIA_UPLOAD_EXPIRE", 5*time.Minute)), nil
}

// ProfileUpload presigns a PUT for a new object under the user's prefix.
// Only the owner of the profile may ask for one.
func (p *Presigner) ProfileUpload(ctx context.Context, callerID, userID uint, fileName, contentType string) (*Upload, error) {
	if callerID != userID {
		return nil, model.NewUnauthorizedError("Not authorized")
	}
	if !strings.HasPrefix(contentType, "video/") && !strings.HasPrefix(contentType, "image/") {
		return nil, model.NewValidationError("Invalid media type", map[string]string{
			"contentType": "must be a video or image type",
		})
	}

	key := fmt.Sprintf("profile-videos/%d/%s%s", userID, uuid.NewString(), strings.ToLower(path.Ext(path.Base(fileName))))

	put, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.expire))
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	get, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expire))
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	return &Upload{
		Key:       key,
		UploadURL: put.URL,
		ReadURL:   get.URL,
		ExpiresAt: time.Now().Add(p.expire).UTC(),
	}, nil
}
