package assets

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/milk9111/hedgehog/flags"
)

// Library caches preloaded images by key.
type Library struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

func NewLibrary() *Library {
	return &Library{images: make(map[string]image.Image)}
}

func (l *Library) Put(key string, img image.Image) {
	if l == nil || key == "" || img == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.images[key] = img
}

func (l *Library) Image(key string) (image.Image, bool) {
	if l == nil || key == "" {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.images[key]
	return img, ok
}

func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

// PreloadKeys lists every asset the level can draw: each skin's sheets, the
// given skin first, then the collectible image.
func PreloadKeys(first flags.Skin) []string {
	first = flags.ParseSkin(string(first))
	skins := make([]flags.Skin, 0, len(flags.Skins))
	skins = append(skins, first)
	for _, s := range flags.Skins {
		if s != first {
			skins = append(skins, s)
		}
	}

	keys := make([]string, 0, len(skins)*len(SheetKinds)+1)
	for _, s := range skins {
		for _, kind := range SheetKinds {
			keys = append(keys, SheetKey(s, kind))
		}
	}
	return append(keys, DataPointKey)
}

// Preload loads keys in order and stops at the first failure. Keys already
// in the library are not loaded again.
func (l *Library) Preload(ctx context.Context, loader Loader, keys []string) error {
	if l == nil {
		return fmt.Errorf("assets: preload: nil library")
	}
	if loader == nil {
		return fmt.Errorf("assets: preload: nil loader")
	}
	for _, key := range keys {
		if _, ok := l.Image(key); ok {
			continue
		}
		img, err := loader.Load(ctx, key)
		if err != nil {
			return fmt.Errorf("assets: preload %s: %w", key, err)
		}
		if img == nil {
			return fmt.Errorf("assets: preload %s: %w", key, ErrNotFound)
		}
		l.Put(key, img)
	}
	return nil
}
