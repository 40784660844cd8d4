// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/config"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type mockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *mockS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out, ok := args.Get(0).(*s3.PutObjectOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func formFile(t *testing.T, filename string, body []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/products/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func testAWSConfig() config.AWSConfig {
	return config.AWSConfig{
		Region:        "ap-south-1",
		S3Bucket:      "storefront-images",
		MaxUploadSize: 1024,
	}
}

func TestUploadProductImage(t *testing.T) {
	client := &mockS3{}
	client.On("PutObjectWithContext", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.StringValue(in.Bucket) == "storefront-images" &&
			aws.StringValue(in.ContentType) == "image/png" &&
			aws.StringValue(in.ACL) == s3.ObjectCannedACLPublicRead
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	svc := NewStorageServiceWithClient(client, testAWSConfig())
	file, header := formFile(t, "phone.PNG", pngHeader)

	result, err := svc.UploadProductImage(context.Background(), file, header)
	require.NoError(t, err)
	assert.Regexp(t, `^products/\d{8}_[0-9a-f]{8}\.png$`, result.Key)
	assert.Equal(t, "https://storefront-images.s3.ap-south-1.amazonaws.com/"+result.Key, result.URL)
	assert.Equal(t, int64(len(pngHeader)), result.Size)
	client.AssertExpectations(t)
}

func TestUploadProductImageCloudFrontURL(t *testing.T) {
	client := &mockS3{}
	client.On("PutObjectWithContext", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	cfg := testAWSConfig()
	cfg.CloudFrontURL = "https://img.example.com/"
	svc := NewStorageServiceWithClient(client, cfg)
	file, header := formFile(t, "a.png", pngHeader)

	result, err := svc.UploadProductImage(context.Background(), file, header)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/"+result.Key, result.URL)
}

func TestUploadProductImageRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     []byte
		tag      string
	}{
		{"too large", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 2048)...), "max_size"},
		{"wrong extension", "notes.pdf", pngHeader, "file_type"},
		{"not an image", "fake.png", []byte("plain text pretending"), "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockS3{}
			svc := NewStorageServiceWithClient(client, testAWSConfig())
			file, header := formFile(t, tt.filename, tt.body)

			_, err := svc.UploadProductImage(context.Background(), file, header)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.tag, verr.Fields[0].Tag)
			client.AssertNotCalled(t, "PutObjectWithContext", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadProductImageS3Failure(t *testing.T) {
	client := &mockS3{}
	client.On("PutObjectWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	svc := NewStorageServiceWithClient(client, testAWSConfig())
	file, header := formFile(t, "a.png", pngHeader)

	_, err := svc.UploadProductImage(context.Background(), file, header)
	assert.ErrorContains(t, err, "access denied")
}

func TestUploadWithoutCredentials(t *testing.T) {
	svc, err := NewStorageService(config.AWSConfig{})
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	file, header := formFile(t, "a.png", pngHeader)
	_, err = svc.UploadProductImage(context.Background(), file, header)
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}
