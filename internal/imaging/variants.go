package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Enhancement parameters, tuned for screen-captured text on mixed
// backgrounds.
const (
	upscaleFactor    = 2.0
	contrastChange   = 0.9  // ~1.9x contrast
	brightnessChange = 0.05 // slight lift to separate dark text from noise
	sharpenAmount    = 0.7
	sharpenRadius    = 1.0
)

// Tag identifies the transform chain that produced a variant.
type Tag string

const (
	TagIdentity               Tag = "identity"
	TagScaled                 Tag = "scaled"
	TagScaledEnhanced         Tag = "scaled-enhanced"
	TagScaledEnhancedInverted Tag = "scaled-enhanced-inverted"
	TagEnhanced               Tag = "enhanced"
	TagEnhancedInverted       Tag = "enhanced-inverted"
)

// Variant is a derived bitmap plus the label of the transform that produced
// it. Variants live only for the duration of one cascade run.
type Variant struct {
	Image image.Image
	Tag   Tag
}

// Scale returns img uniformly upscaled by factor using Lanczos resampling.
// Returns img unchanged when factor <= 1, and nil when the image is nil or
// has no pixels.
func Scale(img image.Image, factor float64) image.Image {
	if img == nil {
		return nil
	}
	if factor <= 1 {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil
	}
	w := int(float64(bounds.Dx()) * factor)
	h := int(float64(bounds.Dy()) * factor)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Enhance produces a recognition-friendly copy of img: full desaturation,
// raised contrast, slightly lifted brightness, then an unsharp-mask pass.
// Returns nil if the input is nil or empty; never returns partial output.
func Enhance(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil
	}

	out := effect.Grayscale(img)
	out = adjust.Contrast(out, contrastChange)
	out = adjust.Brightness(out, brightnessChange)
	out = effect.UnsharpMask(out, sharpenRadius, sharpenAmount)
	return out
}

// Invert returns a fully color-inverted copy of img, or nil for nil input.
// Used on already-enhanced variants to recover light-on-dark text.
func Invert(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	return effect.Invert(img)
}

// CloudRetry derives the image used for the second cloud recognition
// attempt: the source upscaled 2x and then enhanced. If enhancement fails
// the scaled image alone is returned; if scaling fails the result is nil.
func CloudRetry(img image.Image) image.Image {
	scaled := Scale(img, upscaleFactor)
	if scaled == nil {
		return nil
	}
	if enhanced := Enhance(scaled); enhanced != nil {
		return enhanced
	}
	return scaled
}

// LocalVariants builds the ordered variant set for the local recognition
// fallback:
//
//	identity, scaled, scaled+enhanced, inverted(scaled+enhanced),
//	enhanced, inverted(enhanced)
//
// The cascade tries these in order and exits on the first usable result.
// Any derived variant that cannot be generated is silently dropped; the
// identity variant is always first and never dropped.
func LocalVariants(img image.Image) []Variant {
	variants := []Variant{{Image: img, Tag: TagIdentity}}

	if scaled := Scale(img, upscaleFactor); scaled != nil {
		variants = append(variants, Variant{Image: scaled, Tag: TagScaled})
	}
	if scaledEnhanced := CloudRetry(img); scaledEnhanced != nil {
		variants = append(variants, Variant{Image: scaledEnhanced, Tag: TagScaledEnhanced})
		if inverted := Invert(scaledEnhanced); inverted != nil {
			variants = append(variants, Variant{Image: inverted, Tag: TagScaledEnhancedInverted})
		}
	}
	if enhanced := Enhance(img); enhanced != nil {
		variants = append(variants, Variant{Image: enhanced, Tag: TagEnhanced})
		if inverted := Invert(enhanced); inverted != nil {
			variants = append(variants, Variant{Image: inverted, Tag: TagEnhancedInverted})
		}
	}

	return variants
}
