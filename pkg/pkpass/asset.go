package pkpass

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Reserved archive entries, written by the package itself.
const (
	PassFile      = "pass.json"
	ManifestFile  = "manifest.json"
	SignatureFile = "signature"
)

// ImageType is one of the images a wallet app displays.
type ImageType string

const (
	ImageBackground ImageType = "background"
	ImageFooter     ImageType = "footer"
	ImageIcon       ImageType = "icon"
	ImageLogo       ImageType = "logo"
	ImageStrip      ImageType = "strip"
	ImageThumbnail  ImageType = "thumbnail"
)

var imageTypes = map[ImageType]bool{
	ImageBackground: true,
	ImageFooter:     true,
	ImageIcon:       true,
	ImageLogo:       true,
	ImageStrip:      true,
	ImageThumbnail:  true,
}

// ImageName returns the archive name of an image at a display scale (1, 2 or 3),
// e.g. "icon.png" or "logo@2x.png".
func ImageName(t ImageType, scale int) string {
	if scale <= 1 {
		return string(t) + ".png"
	}
	return fmt.Sprintf("%s@%dx.png", t, scale)
}

// LocalizedName returns the name of an asset in the localization directory of locale,
// e.g. LocalizedName("fr", "pass.strings") is "fr.lproj/pass.strings".
func LocalizedName(locale, name string) string {
	return locale + ".lproj/" + name
}

// AssetKind classifies an asset.
type AssetKind int

const (
	AssetOther AssetKind = iota
	AssetImage
	AssetStrings
)

// AssetInfo describes an asset name.
type AssetInfo struct {
	Name   string
	Kind   AssetKind
	Locale string // "" unless the asset is in a <locale>.lproj directory

	// set for images
	Image ImageType
	Scale int
}

// ClassifyAsset describes the asset stored under name.
//
// Recognised assets are the standard images (optionally @2x or @3x) and pass.strings,
// at the top level or in a <locale>.lproj directory. Anything else is AssetOther: it is
// packaged and signed but not used by a wallet app.
func ClassifyAsset(name string) AssetInfo {
	info := AssetInfo{Name: name}

	dir, file := path.Split(name)
	if dir != "" {
		locale, ok := strings.CutSuffix(strings.TrimSuffix(dir, "/"), ".lproj")
		if !ok || locale == "" || strings.Contains(locale, "/") {
			return info
		}
		info.Locale = locale
	}

	if file == "pass.strings" && info.Locale != "" {
		info.Kind = AssetStrings
		return info
	}

	base, ok := strings.CutSuffix(file, ".png")
	if !ok {
		return info
	}
	scale := 1
	switch {
	case strings.HasSuffix(base, "@2x"):
		scale, base = 2, strings.TrimSuffix(base, "@2x")
	case strings.HasSuffix(base, "@3x"):
		scale, base = 3, strings.TrimSuffix(base, "@3x")
	}
	if !imageTypes[ImageType(base)] {
		return info
	}

	info.Kind = AssetImage
	info.Image = ImageType(base)
	info.Scale = scale
	return info
}

// validateAssetName checks that name can be stored in an archive: a relative, slash
// separated path without "." or ".." elements that does not collide with a reserved entry.
func validateAssetName(name string) error {
	if name == "" {
		return NewAssetReadError(name, "name is empty")
	}
	if name == "." || !fs.ValidPath(name) {
		return NewAssetReadError(name, "name must be a relative slash separated path without . or .. elements")
	}
	if strings.Contains(name, `\`) {
		return NewAssetReadError(name, "name must not contain a backslash")
	}
	switch name {
	case PassFile, ManifestFile, SignatureFile:
		return NewAssetReadError(name, "name is reserved")
	}
	return nil
}
