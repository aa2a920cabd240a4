// Package tesseract implements ocr.Recognizer with Tesseract via gosseract.
//
// Tesseract must be installed on the system together with the language data
// for the configured language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A non-default tessdata directory can be set with Options.TessdataPrefix.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/inventory-tag-scanner/internal/ocr"
)

const backend = "gosseract"

// Options configures the recognizer.
type Options struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
}

// Recognizer runs Tesseract on in-memory images.
//
// gosseract clients are not safe for concurrent use, so each call creates
// and closes its own client.
type Recognizer struct {
	opts Options
}

var _ ocr.Recognizer = (*Recognizer)(nil)

// New returns a Tesseract recognizer.
func New(opts Options) *Recognizer {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	return &Recognizer{opts: opts}
}

func (r *Recognizer) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if r.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(r.opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return client, nil
}

// Recognize performs OCR on an image and returns its words with confidence
// scores. If word-level box extraction fails the full text is still
// returned with no words.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) (*ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client, err := r.newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &ocr.Result{FullText: text, Words: []ocr.Word{}}, nil
	}

	words := make([]ocr.Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, ocr.Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: ocr.Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &ocr.Result{FullText: text, Words: words}, nil
}

// Info reports whether Tesseract can be initialized with the configured
// language and data path.
func (r *Recognizer) Info() ocr.Info {
	info := ocr.Info{
		Backend:      backend,
		Language:     r.opts.Language,
		TessdataPath: r.opts.TessdataPrefix,
	}

	client, err := r.newClient()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer client.Close()

	info.Version = client.Version()
	info.Available = info.Version != ""
	if !info.Available {
		info.Error = "tesseract version unavailable"
	}
	return info
}
