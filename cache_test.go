package petsite

import (
	"errors"
	"sync"
	"testing"
)

func TestImageCacheGetLoadsOnce(t *testing.T) {
	c := NewImageCache()
	calls := 0
	load := func() (ImageMetadata, error) {
		calls++
		return ImageMetadata{FormatJPEG: {{URL: "/a-400w.jpeg", Width: 400}}}, nil
	}

	for i := 0; i < 3; i++ {
		m, err := c.Get("a", load)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(m[FormatJPEG]) != 1 {
			t.Fatalf("expected 1 variant, got %d", len(m[FormatJPEG]))
		}
	}
	if calls != 1 {
		t.Errorf("expected load once, got %d", calls)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestImageCacheDoesNotCacheErrors(t *testing.T) {
	c := NewImageCache()
	boom := errors.New("boom")
	calls := 0
	load := func() (ImageMetadata, error) {
		calls++
		return nil, boom
	}

	if _, err := c.Get("a", load); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := c.Get("a", load); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 loads, got %d", calls)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestImageCacheInvalidate(t *testing.T) {
	c := NewImageCache()
	load := func() (ImageMetadata, error) { return ImageMetadata{}, nil }
	c.Get("a", load)
	c.Get("b", load)
	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Invalidate, got %d", c.Len())
	}
}

func TestImageCacheConcurrentGet(t *testing.T) {
	c := NewImageCache()
	var mu sync.Mutex
	calls := 0
	load := func() (ImageMetadata, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return ImageMetadata{}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get("shared", load)
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Errorf("expected load once, got %d", calls)
	}
}

func TestCacheKeySortsWidths(t *testing.T) {
	a := cacheKey("dog.jpg", []int{800, 400}, []string{FormatJPEG})
	b := cacheKey("dog.jpg", []int{400, 800}, []string{FormatJPEG})
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	if a == cacheKey("dog.jpg", []int{400, 800}, []string{FormatPNG}) {
		t.Error("format should be part of the key")
	}
}
