package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent failure")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	words := []string{"go", "big", "or", "go", "home"}

	k1 := k.BoxKey(words, BoxKeyOpts{Width: 18, MaxLines: 8})
	if k1 != k.BoxKey(words, BoxKeyOpts{Width: 18, MaxLines: 8}) {
		t.Error("BoxKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "boxes:") {
		t.Errorf("BoxKey unexpected prefix: %s", k1)
	}

	// Every option and the word boundaries must change the key.
	others := []string{
		k.BoxKey(words, BoxKeyOpts{Width: 26, MaxLines: 8}),
		k.BoxKey(words, BoxKeyOpts{Width: 18, MaxLines: 10}),
		k.BoxKey(words, BoxKeyOpts{Width: 18, MaxLines: 8, SkipBlankLines: true}),
		k.BoxKey([]string{"go big", "or", "go", "home"}, BoxKeyOpts{Width: 18, MaxLines: 8}),
	}
	for i, other := range others {
		if other == k1 {
			t.Errorf("variant %d should produce a different key", i)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "centerbox:")

	opts := BoxKeyOpts{Width: 6, MaxLines: 1}
	key := scoped.BoxKey([]string{"hi"}, opts)
	if key != "centerbox:"+inner.BoxKey([]string{"hi"}, opts) {
		t.Errorf("ScopedKeyer BoxKey unexpected: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.BoxKey([]string{"hi"}, BoxKeyOpts{})
	if !strings.HasPrefix(key, "prefix:boxes:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = (%q, %v, %v), want (value, true, nil)", data, hit, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	fc := c.(*FileCache)

	path := fc.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is reserved and refuses connections.
	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("NewRedisCache error = %v, want ErrNetwork", err)
	}

	if _, err := NewRedisCache(ctx, "http://localhost"); err == nil {
		t.Error("NewRedisCache should reject non-redis URLs")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("CENTERBOX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CENTERBOX_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "centerbox-test:").BoxKey([]string{t.Name()}, BoxKeyOpts{})
	defer c.Delete(ctx, key)

	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = (%q, %v, %v), want (value, true, nil)", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Errorf("Get after Delete = hit %v, err %v", hit, err)
	}
}

func TestTransient(t *testing.T) {
	if transient(nil) != nil {
		t.Error("transient(nil) should return nil")
	}

	err := transient(ErrNetwork)
	if !isTransient(err) {
		t.Error("isTransient should report a marked error")
	}
	if !errors.Is(err, ErrNetwork) || err.Error() != ErrNetwork.Error() {
		t.Errorf("transient error should wrap ErrNetwork unchanged: %v", err)
	}
	if isTransient(errPermanent) {
		t.Error("isTransient should be false for an unmarked error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		failWith  error
		wantErr   error
		wantCalls int
	}{
		{"success", 0, nil, nil, 1},
		{"permanent failure", 5, errPermanent, errPermanent, 1},
		{"recovers", 1, transient(ErrNetwork), nil, 2},
		{"gives up", 5, transient(ErrNetwork), ErrNetwork, len(retryDelays) + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("retry() error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("retry() made %d calls, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, func() error {
		calls++
		return transient(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("retry() made %d calls after cancel, want 1", calls)
	}
}
