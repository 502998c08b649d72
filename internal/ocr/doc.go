// Package ocr implements the text recognition cascade.
//
// The cascade turns one captured bitmap into a recognition result by trying
// strategies in a fixed order: a cloud recognition attempt (with one retry on
// an enhanced image variant) followed by a local fallback that sweeps a set
// of pre-processed image variants, running up to six language-hint passes on
// each. The first result that passes the shared usability gate wins and the
// rest of the cascade is skipped.
//
// # Collaborators
//
// Local recognition is abstracted behind the Engine interface so the cascade
// can be driven by the bundled Tesseract adapter or by test stubs. Cloud
// recognition is abstracted behind CloudRecognizer, implemented by the
// vision package.
//
// # Failure Policy
//
// Errors below the cascade's top level are logged and treated as "this
// attempt produced nothing usable". The cascade itself errors only when no
// attempt produced any result at all: as long as one variant completed its
// pass chain, its (possibly borderline) mixed-pass result is returned
// instead of an error.
package ocr
