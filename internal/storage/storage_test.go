package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "uploads/u-1/property-title-deed-deed.pdf", UserUploadKey("u-1", "property-title-deed", "deed.pdf"))
	assert.Equal(t, "tx/t-1/adv-1/sale agreement", TransactionDocumentKey("t-1", "adv-1", "sale agreement"))

	// Client names never escape their segment
	assert.Equal(t, "uploads/u-1/cert-passwd", UserUploadKey("u-1", "cert", "../../etc/passwd"))
	assert.Equal(t, "tx/t-1/adv-1/evil.pdf", TransactionDocumentKey("t-1", "adv-1", `..\..\evil.pdf`))
	assert.Equal(t, "tx/_/adv-1/doc", TransactionDocumentKey("..", "adv-1", "doc"))
}

func TestLocalDirUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "files")
	l, err := NewLocalDir(dir, "http://localhost:3000/files/")
	require.NoError(t, err)

	url, err := l.Upload(context.Background(), "tx/t-1/adv-1/agreement", "application/pdf", strings.NewReader("signed"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/files/tx/t-1/adv-1/agreement", url)

	data, err := os.ReadFile(filepath.Join(dir, "tx", "t-1", "adv-1", "agreement"))
	require.NoError(t, err)
	assert.Equal(t, "signed", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Upload(ctx, "x", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3BucketUpload(t *testing.T) {
	fake := &fakePutObject{}
	b := &S3Bucket{Client: fake, Bucket: "deeds", PublicURL: "https://deeds.s3.us-east-1.amazonaws.com"}

	url, err := b.Upload(context.Background(), "uploads/u-1/deed.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "https://deeds.s3.us-east-1.amazonaws.com/uploads/u-1/deed.pdf", url)
	assert.Equal(t, "deeds", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "uploads/u-1/deed.pdf", aws.ToString(fake.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.input.ContentType))
	assert.Equal(t, s3types.ObjectCannedACLPublicRead, fake.input.ACL)
	assert.Equal(t, "pdf", fake.body)

	fake.err = errors.New("access denied")
	_, err = b.Upload(context.Background(), "k", "", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket deeds")
}

func TestNewS3BucketPublicURL(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	b, err := NewS3Bucket(context.Background(), "deeds", "eu-west-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://deeds.s3.eu-west-1.amazonaws.com", b.PublicURL)

	b, err = NewS3Bucket(context.Background(), "deeds", "us-east-1", "http://localhost:9000", "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/deeds", b.PublicURL)
}
