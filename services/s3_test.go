package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemImageKey(t *testing.T) {
	key, err := ItemImageKey(7, "Photo.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "wardrobe/7/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	other, err := ItemImageKey(7, "photo.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = ItemImageKey(7, "notes.pdf")
	assert.Error(t, err)
}

type presignerStub struct {
	mu    sync.Mutex
	calls int
}

func (p *presignerStub) PresignLink(ctx context.Context, bucketName, fileName string) (string, error) {
	return "https://upload/" + fileName, nil
}

func (p *presignerStub) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return "https://" + bucketName + "/" + fileKey, nil
}

func TestURLCacheService(t *testing.T) {
	stub := &presignerStub{}
	svc, err := NewURLCacheService(stub, "closet")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := svc.GetReadURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = svc.GetReadURL(ctx, "wardrobe/1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://closet/wardrobe/1/a.jpg", url)

	assert.Eventually(t, func() bool {
		stub.mu.Lock()
		before := stub.calls
		stub.mu.Unlock()
		_, err := svc.GetReadURL(ctx, "wardrobe/1/a.jpg")
		stub.mu.Lock()
		defer stub.mu.Unlock()
		return err == nil && stub.calls == before
	}, 2*time.Second, 10*time.Millisecond)
}
