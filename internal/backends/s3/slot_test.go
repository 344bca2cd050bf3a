package s3

import (
	"clientbook/internal/backends/slottest"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Requires an S3-compatible server with an existing bucket; set TEST_S3_ENDPOINT and TEST_S3_BUCKET.
func TestSlotContract(t *testing.T) {
	endpoint := os.Getenv("TEST_S3_ENDPOINT")
	bucket := os.Getenv("TEST_S3_BUCKET")
	if endpoint == "" || bucket == "" {
		t.Skip("TEST_S3_ENDPOINT / TEST_S3_BUCKET not set")
	}
	ctx := context.Background()
	s, err := New(ctx, Config{
		Bucket:          bucket,
		Key:             "crm_clients_test.json",
		Endpoint:        endpoint,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		PathStyle:       true,
	})
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))
	slottest.Run(t, s)
}

func TestNewRequiresBucketAndKey(t *testing.T) {
	_, err := New(context.Background(), Config{Key: "k"})
	require.Error(t, err)
	_, err = New(context.Background(), Config{Bucket: "b"})
	require.Error(t, err)
}
