// Package assets resolves the images the game needs by key. Images are plain
// image.Image values so the simulation can preload them without a GPU; the
// host converts them to textures on first draw.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/prefabs"
)

// Sheet kinds every skin ships.
const (
	SheetWalk = "walk"
	SheetJump = "jump"
	SheetFall = "fall"
)

var SheetKinds = []string{SheetWalk, SheetJump, SheetFall}

const DataPointKey = "data-point"

var ErrNotFound = errors.New("assets: not found")

// SheetKey names the sheet of one animation kind for a skin, e.g.
// "spiderhog-walk".
func SheetKey(skin flags.Skin, kind string) string {
	return skin.String() + "-" + kind
}

// SplitSheetKey is the inverse of SheetKey.
func SplitSheetKey(key string) (flags.Skin, string, bool) {
	i := strings.LastIndex(key, "-")
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return flags.Skin(key[:i]), key[i+1:], true
}

// Loader resolves a key to an image. A missing key returns an error wrapping
// ErrNotFound.
type Loader interface {
	Load(ctx context.Context, key string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, key string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, key string) (image.Image, error) {
	return f(ctx, key)
}

// FSLoader decodes PNG files from a file system. Files maps keys to paths;
// keys without an entry resolve to "<key>.png".
type FSLoader struct {
	FS    fs.FS
	Files map[string]string
}

// NewFSLoader maps the sheet file names declared in spec onto their keys.
func NewFSLoader(fsys fs.FS, spec *prefabs.SkinsSpec) *FSLoader {
	l := &FSLoader{FS: fsys, Files: map[string]string{}}
	if spec == nil {
		return l
	}
	for _, skin := range spec.Skins {
		for kind, file := range skin.Sheets {
			if file == "" {
				continue
			}
			l.Files[SheetKey(flags.Skin(skin.Name), kind)] = file
		}
	}
	if spec.DataPoint.File != "" {
		l.Files[DataPointKey] = spec.DataPoint.File
	}
	return l
}

func (l *FSLoader) Load(ctx context.Context, key string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l == nil || l.FS == nil {
		return nil, fmt.Errorf("assets: load %s: %w", key, ErrNotFound)
	}
	p := l.Files[key]
	if p == "" {
		p = key + ".png"
	}
	p = path.Clean(strings.TrimPrefix(p, "/"))

	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("assets: load %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("assets: read %s: %w", p, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", p, err)
	}
	return img, nil
}

// Chain tries each loader in turn. Only ErrNotFound falls through to the
// next loader; any other failure is returned as is.
type Chain []Loader

func (c Chain) Load(ctx context.Context, key string) (image.Image, error) {
	for _, l := range c {
		if l == nil {
			continue
		}
		img, err := l.Load(ctx, key)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("assets: load %s: %w", key, ErrNotFound)
}
