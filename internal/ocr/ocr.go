package ocr

import (
	"context"
	"image"
	"strings"

	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one recognized word with its location and OCR confidence.
type Word struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this word in the recognized image.
	Bounds Bounds `json:"bounds"`
}

// Result contains the words recognized in one image, in the order the
// recognizer emitted them.
type Result struct {
	// FullText is all recognized text as a single string with original spacing/newlines.
	FullText string `json:"full_text"`

	// Words contains individual words with their bounding boxes and confidence scores.
	Words []Word `json:"words"`
}

// MeanConfidence returns the average word confidence, or 0 with no words.
func (r *Result) MeanConfidence() float64 {
	if r == nil || len(r.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range r.Words {
		sum += w.Confidence
	}
	return sum / float64(len(r.Words))
}

// Tokens converts the recognized words into the raw token stream consumed by
// the extraction engine. Words below minConfidence and blank words are
// dropped; Index keeps the emission position among the surviving words.
func (r *Result) Tokens(minConfidence float64) []tag.RawToken {
	if r == nil {
		return nil
	}
	out := make([]tag.RawToken, 0, len(r.Words))
	for _, w := range r.Words {
		if strings.TrimSpace(w.Text) == "" || w.Confidence < minConfidence {
			continue
		}
		out = append(out, tag.RawToken{Text: w.Text, Index: len(out)})
	}
	return out
}

// Recognizer turns an image into words. Implementations must be safe for
// concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (*Result, error)
	Info() Info
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available    bool   `json:"available"`
	Version      string `json:"version,omitempty"`
	Error        string `json:"error,omitempty"`
	Backend      string `json:"backend"`
	Language     string `json:"language,omitempty"`
	TessdataPath string `json:"tessdata_path,omitempty"`
}
