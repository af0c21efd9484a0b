package resources

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/font"
	"github.com/npillmayer/weft/core/font/fontregistry"
	xfont "golang.org/x/image/font"
)

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
	imageResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resource missing: %v", res)
	var s string
	switch rtype {
	case imageResourceType:
		s = fmt.Sprintf("image not found: %s, loaded placeholder image instead", res)
	case fontResourceType:
		s = fmt.Sprintf("font not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	err := core.WrapError(e, core.EMISSING, s)
	return err
}

// --- Images ---------------------------------------------------------------

type imgPlusErr struct {
	img image.Image
	err error
}

// ResolveImage fetches and decodes an image, using a given fetcher. A nil
// fetcher defaults to a NetFetcher. If the image cannot be retrieved or
// decoded, the promise yields a placeholder image together with the error.
func ResolveImage(href string, base string, fetcher Fetcher) ImagePromise {
	if fetcher == nil {
		fetcher = NewNetFetcher(nil)
	}
	ch := make(chan imgPlusErr)
	fetcher.Retrieve(href, base, func(ev Event) {
		result := imgPlusErr{}
		if ev.Kind == FetchFailed {
			result.img = placeholderImage()
			result.err = NotFound(href, imageResourceType)
		} else if result.img, _, result.err = image.Decode(bytes.NewReader(ev.Data)); result.err != nil {
			result.img = placeholderImage()
			result.err = core.WrapError(result.err, core.EINVALID, "cannot decode image %s", href)
		}
		ch <- result
		close(ch)
	})
	return imageLoader{
		await: func(ctx context.Context) (image.Image, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.img, r.err
			}
		},
	}
}

type ImagePromise interface {
	Image() (image.Image, error)
}

type imageLoader struct {
	await func(ctx context.Context) (image.Image, error)
}

func (loader imageLoader) Image() (image.Image, error) {
	return loader.await(context.Background())
}

// placeholderImage is what clients get when an image cannot be loaded.
func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	grey := color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, grey)
		}
	}
	return img
}

// --- Fonts -----------------------------------------------------------------

type fontPlusErr struct {
	font *font.TypeCase
	err  error
}

type TypeCasePromise interface {
	TypeCase() (*font.TypeCase, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.TypeCase, error)
}

func (loader fontLoader) TypeCase() (*font.TypeCase, error) {
	return loader.await(context.Background())
}

// ResolveTypeCase resolves a font typecase with a given size, in points.
//
// Resolving tries, in order: the global font registry, system fonts via
// the findfont library, locally installed fonts via fontconfig, and the
// Google Fonts service. Whatever source succeeds gets stored in the
// registry, keyed by normalized name, so subsequent lookups stay local.
// If every source fails, the promise yields a typecase derived from the
// fallback font, together with an error.
func ResolveTypeCase(name string, style xfont.Style, weight xfont.Weight, size float64) TypeCasePromise {
	ch := make(chan fontPlusErr)
	go func(ch chan<- fontPlusErr) {
		result := fontPlusErr{}
		registry := fontregistry.GlobalRegistry()
		normalized := fontregistry.NormalizeFontname(name, style, weight)
		if t, err := registry.TypeCase(normalized, size); err == nil {
			result.font = t
			ch <- result
			close(ch)
			return
		}
		var f *font.ScalableFont
		if fpath, err := findfont.Find(name); err == nil && fpath != "" {
			if fontregistry.Matches(fpath, name, style, weight) {
				tracer().Debugf("%s is a system font", name)
				f, result.err = font.LoadOpenTypeFont(fpath)
			}
		}
		if f == nil {
			if desc, variant := findFontConfigFont(name, style, weight); variant != "" {
				tracer().Debugf("fontconfig provides %s as %s|%s", name, desc.Family, variant)
				f, result.err = font.LoadOpenTypeFont(desc.Path)
			}
		}
		if f == nil {
			var fiList []GoogleFontInfo
			if fiList, result.err = FindGoogleFont(name, style, weight); result.err == nil {
				fi := fiList[0]
				_, variant, _ := fontregistry.ClosestMatch(
					[]font.Descriptor{fi.Descriptor()}, name, style, weight)
				var fpath string
				if fpath, result.err = CacheGoogleFont(fi, variant); result.err == nil {
					f, result.err = font.LoadOpenTypeFont(fpath)
				}
			}
		}
		if f != nil {
			registry.StoreFont(normalized, f)
			registry.MarkFamilyLoaded(name)
			result.font, result.err = registry.TypeCase(normalized, size)
		} else {
			if result.err == nil {
				result.err = NotFound(name, fontResourceType)
			}
			result.font, _ = registry.TypeCase(normalized, size) // yields fallback
		}
		ch <- result
		close(ch)
	}(ch)
	return fontLoader{
		await: func(ctx context.Context) (*font.TypeCase, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.font, r.err
			}
		},
	}
}

// RegisterFontFace registers downloaded font-face bytes under a family
// name. The bytes are probed before registration; broken downloads leave
// the registry untouched.
func RegisterFontFace(family string, style xfont.Style, weight xfont.Weight, data []byte) error {
	if err := ProbeFont(data); err != nil {
		return err
	}
	f, err := font.ParseOpenTypeFont(data)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot parse font-face for %s", family)
	}
	registry := fontregistry.GlobalRegistry()
	registry.StoreFont(fontregistry.NormalizeFontname(family, style, weight), f)
	registry.MarkFamilyLoaded(family)
	return nil
}
