package media

import (
	"context"
	"testing"
	"time"

	"matchai-service/model"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresigner() *Presigner {
	client := s3.New(s3.Options{
		Region:      "eu-west-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	return New(client, "matchai-media", time.Minute)
}

func TestProfileUpload(t *testing.T) {
	p := newPresigner()

	up, err := p.ProfileUpload(context.Background(), 7, 7, "Intro.MP4", "video/mp4")
	require.NoError(t, err)
	assert.Regexp(t, `^profile-videos/7/[0-9a-f-]{36}\.mp4$`, up.Key)
	assert.Contains(t, up.UploadURL, "matchai-media")
	assert.Contains(t, up.UploadURL, up.Key)
	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
	assert.Contains(t, up.ReadURL, "X-Amz-Signature=")
	assert.True(t, up.ExpiresAt.After(time.Now()))

	again, err := p.ProfileUpload(context.Background(), 7, 7, "Intro.MP4", "video/mp4")
	require.NoError(t, err)
	assert.NotEqual(t, up.Key, again.Key)
}

func TestProfileUploadRejected(t *testing.T) {
	p := newPresigner()

	_, err := p.ProfileUpload(context.Background(), 7, 8, "a.mp4", "video/mp4")
	assert.True(t, model.IsKind(err, model.KindUnauthorized))

	_, err = p.ProfileUpload(context.Background(), 7, 7, "a.exe", "application/octet-stream")
	assert.True(t, model.IsKind(err, model.KindValidation))
}
