package sdlstage

import (
	"slices"
	"testing"
)

func TestTextureCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTextureCache(2)
	c.Set("title.png", nil)
	c.Set("game.png", nil)
	c.Get("title.png")
	c.Set("pause.png", nil)

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.textures["game.png"]; ok {
		t.Fatal("least recently used texture was not evicted")
	}
	if want := []string{"title.png", "pause.png"}; !slices.Equal(c.order, want) {
		t.Fatalf("order = %v, want %v", c.order, want)
	}

	c.Set("title.png", nil)
	if want := []string{"pause.png", "title.png"}; !slices.Equal(c.order, want) {
		t.Fatalf("order after re-set = %v, want %v", c.order, want)
	}

	c.Destroy()
	if c.Len() != 0 || len(c.textures) != 0 {
		t.Fatal("Destroy should empty the cache")
	}
}

func TestNewTextureCacheDefaultSize(t *testing.T) {
	if c := NewTextureCache(0); c.maxSize != defaultMaxCacheSize {
		t.Fatalf("maxSize = %d, want %d", c.maxSize, defaultMaxCacheSize)
	}
}
