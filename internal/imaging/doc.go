// Package imaging prepares captured bitmaps for text recognition.
//
// It covers the image side of the pipeline boundary: decoding a captured
// screenshot, cropping the selected region, deriving pre-processed variants
// that improve recognition odds, and encoding request bodies for the cloud
// OCR service.
//
// # Variants
//
// A variant is a derived copy of the source bitmap labeled with the transform
// that produced it (identity, scaled, enhanced, inverted, or combinations).
// The recognition cascade tries variants in a fixed order and stops at the
// first one that yields usable text, so generation order matters and is part
// of the package contract. Derived-variant failures are silent: a variant
// that cannot be generated is simply absent from the set, while the identity
// variant is always present.
//
// # Coordinate System
//
// Region coordinates are 0-based with origin at top-left; (x1,y1) is
// inclusive and (x2,y2) exclusive, matching the rest of the Go image
// ecosystem.
//
// # Thread Safety
//
// All functions are stateless and safe to call concurrently on different
// images.
package imaging
