package game

import (
	"context"
	"fmt"

	"github.com/milk9111/hedgehog/assets"
	"github.com/milk9111/hedgehog/flags"
)

// Boot preloads every skin's sheets and the collectible image, the given
// skin first. Any failure aborts the boot; nothing is retried.
func Boot(ctx context.Context, loader assets.Loader, lib *assets.Library, skin flags.Skin) error {
	if loader == nil {
		return fmt.Errorf("game: boot: no asset loader")
	}
	if err := lib.Preload(ctx, loader, assets.PreloadKeys(skin)); err != nil {
		return fmt.Errorf("game: boot: %w", err)
	}
	return nil
}
