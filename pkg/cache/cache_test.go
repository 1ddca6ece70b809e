package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	key := LicenseKey("left-pad", "1.3.0", "lf")

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit, "empty cache should miss")

	require.NoError(t, c.Set(ctx, key, []byte("MIT License"), time.Hour))

	data, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("MIT License"), data)

	require.NoError(t, c.Delete(ctx, key))
	_, hit, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit, "deleted key should miss")
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit, "expired entry should miss")
}

func TestFileCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit, "zero ttl should mean no expiry")
	assert.Equal(t, []byte("v"), data)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit, "NullCache should never store data")
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestLicenseKeyDistinguishesInputs(t *testing.T) {
	base := LicenseKey("pkg", "1.0.0", "lf")
	assert.NotEqual(t, base, LicenseKey("pkg", "1.0.1", "lf"), "version must change the key")
	assert.NotEqual(t, base, LicenseKey("pkg", "1.0.0", "crlf"), "line ending must change the key")
	assert.Equal(t, base, LicenseKey("pkg", "1.0.0", "lf"), "key must be deterministic")
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	assert.Equal(t, h1, h2, "Hash should be deterministic")
	assert.NotEqual(t, h1, Hash([]byte("world")))
	assert.Len(t, h1, 64, "SHA-256 hex is 64 chars")
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable errors return immediately.
	calls := 0
	err := retryWithBackoff(ctx, func() error {
		calls++
		return errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	// Retryable errors are attempted three times.
	calls = 0
	err = retryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errors.New("transient"))
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	// Success on a later attempt clears the error.
	calls = 0
	err = retryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
