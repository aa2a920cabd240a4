// Package ocr defines the boundary between the tag scanner and its OCR
// engine.
//
// The extraction engine never talks to an OCR engine directly: it consumes
// an ordered stream of text fragments. This package holds the types that
// carry recognized words across that boundary and the Recognizer interface
// an OCR backend implements. The Tesseract backend lives in the tesseract
// subpackage so that code depending only on these types builds without cgo.
//
// # Confidence
//
// Confidence values are normalized to 0.0 to 1.0. The scan service uses the
// mean word confidence to choose between candidate rotations of a photo, and
// Result.Tokens can drop low-confidence words before extraction.
//
// # Token Order
//
// Result.Tokens numbers words in emission order. For Tesseract this is page
// layout order (block, paragraph, line, word), which is the best available
// proxy for reading order on a printed tag.
package ocr
