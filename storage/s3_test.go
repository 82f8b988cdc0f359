package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderUpload(t *testing.T) {
	putter := &fakePutter{}
	uploader := &S3Uploader{Client: putter, Bucket: "exports", BaseURL: "https://s3.example.com/"}

	link, err := uploader.Upload(context.Background(), "search-logs/2026-10-13.ndjson.gz", []byte("data"), "application/gzip")
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com/exports/search-logs/2026-10-13.ndjson.gz", link)
	assert.Equal(t, "exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/gzip", aws.ToString(putter.input.ContentType))
	assert.Equal(t, []byte("data"), putter.body)
}

func TestS3UploaderUploadError(t *testing.T) {
	uploader := &S3Uploader{Client: &fakePutter{err: errors.New("denied")}, Bucket: "exports"}

	_, err := uploader.Upload(context.Background(), "k", nil, "")
	require.ErrorContains(t, err, "put s3://exports/k: denied")
}
