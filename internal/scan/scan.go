// Package scan turns a tag photo into a verified-ready record: load, orient,
// clean up, recognize, then extract fields.
package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/inventory-tag-scanner/internal/extract"
	"github.com/ironsheep/inventory-tag-scanner/internal/imaging"
	"github.com/ironsheep/inventory-tag-scanner/internal/ocr"
	"github.com/ironsheep/inventory-tag-scanner/internal/tag"
)

// ErrNoText is returned by Recognize when no rotation of the photo yields
// any words. Scan treats it as an empty token stream, not a failure.
var ErrNoText = errors.New("scan: no text recognized")

// goodEnough stops the rotation search early once a reading is this
// confident with at least minWords words.
const (
	goodEnough = 0.85
	minWords   = 3
)

// Options controls the recognition pass.
type Options struct {
	// Rotations are the counter-clockwise turns to try, in preference order.
	Rotations []int

	// Preprocess runs imaging.Prepare before OCR.
	Preprocess bool
	Prepare    imaging.PrepareOptions

	// MinConfidence drops words below this confidence before extraction.
	MinConfidence float64
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		Rotations:     []int{0, 90, 270, 180},
		Preprocess:    true,
		Prepare:       imaging.DefaultPrepareOptions(),
		MinConfidence: 0.3,
	}
}

// Request names the photo to scan. Exactly one of Path or Image is set.
type Request struct {
	Path  string
	Image []byte

	// Region crops the photo to the tag before recognition. The zero value
	// scans the whole photo.
	Region imaging.Region

	// Annotate returns the recognized image with word boxes drawn on it.
	Annotate bool
}

// Attempt records how one rotation read.
type Attempt struct {
	Rotation   int     `json:"rotation"`
	Words      int     `json:"words"`
	Confidence float64 `json:"confidence"`
}

// Recognition is the best OCR reading of a photo.
type Recognition struct {
	Result   *ocr.Result
	Rotation int
	Image    image.Image // the image that was read
	Attempts []Attempt
}

// Result is a scanned tag awaiting human verification.
type Result struct {
	ScanID     string                `json:"scan_id"`
	Record     tag.Record            `json:"record"`
	Fields     []extract.FieldResult `json:"fields"`
	Tokens     []tag.RawToken        `json:"tokens"`
	Rotation   int                   `json:"rotation"`
	Confidence float64               `json:"confidence"`
	Attempts   []Attempt             `json:"attempts"`
	NoText     bool                  `json:"no_text,omitempty"`
	Annotated  *imaging.EncodedImage `json:"annotated,omitempty"`
	Elapsed    time.Duration         `json:"elapsed_ns"`
}

// Service scans tag photos. It is safe for concurrent use; the extraction
// engine can be swapped while scans are running.
type Service struct {
	rec    ocr.Recognizer
	cache  *imaging.ImageCache
	opts   Options
	logger *slog.Logger

	engine atomic.Pointer[extract.Engine]
}

// New returns a scan service.
func New(engine *extract.Engine, rec ocr.Recognizer, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Rotations) == 0 {
		opts.Rotations = []int{0}
	}
	s := &Service{
		rec:    rec,
		cache:  imaging.NewImageCache(),
		opts:   opts,
		logger: logger,
	}
	s.engine.Store(engine)
	return s
}

// Engine returns the extraction engine in effect.
func (s *Service) Engine() *extract.Engine {
	return s.engine.Load()
}

// SetEngine replaces the extraction engine for subsequent scans.
func (s *Service) SetEngine(e *extract.Engine) {
	if e != nil {
		s.engine.Store(e)
	}
}

// Recognizer returns the OCR backend.
func (s *Service) Recognizer() ocr.Recognizer {
	return s.rec
}

// Scan recognizes a tag photo and extracts its fields.
func (s *Service) Scan(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	scanID := uuid.NewString()

	img, err := s.load(req)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Crop(img, req.Region)
	if err != nil {
		return nil, err
	}

	res := &Result{ScanID: scanID}
	rec, err := s.Recognize(ctx, img)
	switch {
	case errors.Is(err, ErrNoText):
		res.NoText = true
		s.logger.Warn("scan.no_text", "scan_id", scanID, "path", req.Path)
	case err != nil:
		return nil, err
	}
	if rec != nil {
		res.Rotation = rec.Rotation
		res.Attempts = rec.Attempts
		res.Confidence = rec.Result.MeanConfidence()
		res.Tokens = rec.Result.Tokens(s.opts.MinConfidence)
	}
	if res.Tokens == nil {
		res.Tokens = []tag.RawToken{}
	}

	out := s.Engine().ExtractTokens(res.Tokens)
	res.Record = out.Record
	res.Fields = out.Fields

	if req.Annotate && rec != nil && rec.Image != nil {
		res.Annotated, err = annotate(rec)
		if err != nil {
			return nil, err
		}
	}
	res.Elapsed = time.Since(start)

	s.logger.Info("scan.ok",
		"scan_id", scanID,
		"path", req.Path,
		"rotation", res.Rotation,
		"tokens", len(res.Tokens),
		"confidence", res.Confidence,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

// Recognize reads img at each candidate rotation, likeliest first, and
// keeps the reading with the best mean word confidence. The search stops
// early on a confident reading. It returns ErrNoText, with the attempts
// made, when no rotation yields a word.
func (s *Service) Recognize(ctx context.Context, img image.Image) (*Recognition, error) {
	var best *Recognition
	var attempts []Attempt

	for _, deg := range imaging.RankRotations(img, s.opts.Rotations) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rotated, err := imaging.Rotate(img, deg)
		if err != nil {
			return nil, err
		}
		if s.opts.Preprocess {
			rotated = imaging.Prepare(rotated, s.opts.Prepare)
		}

		res, err := s.rec.Recognize(ctx, rotated)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize rotation %d: %w", deg, err)
		}
		a := Attempt{Rotation: deg, Words: len(res.Words), Confidence: res.MeanConfidence()}
		attempts = append(attempts, a)
		s.logger.Debug("scan.attempt", "rotation", deg, "words", a.Words, "confidence", a.Confidence)

		if a.Words == 0 {
			continue
		}
		if best == nil || a.Confidence > best.Result.MeanConfidence() {
			best = &Recognition{Result: res, Rotation: deg, Image: rotated}
		}
		if a.Confidence >= goodEnough && a.Words >= minWords {
			break
		}
	}

	if best == nil {
		return &Recognition{Result: &ocr.Result{}, Attempts: attempts}, ErrNoText
	}
	best.Attempts = attempts
	return best, nil
}

func (s *Service) load(req Request) (image.Image, error) {
	switch {
	case req.Path != "" && len(req.Image) > 0:
		return nil, errors.New("scan: set either a path or image data, not both")
	case req.Path != "":
		defer s.cache.Evict(req.Path)
		return s.cache.Load(req.Path)
	case len(req.Image) > 0:
		return imaging.Decode(req.Image)
	}
	return nil, errors.New("scan: no image given")
}

func annotate(rec *Recognition) (*imaging.EncodedImage, error) {
	boxes := make([]imaging.Box, 0, len(rec.Result.Words))
	for _, w := range rec.Result.Words {
		boxes = append(boxes, imaging.Box{
			Region: imaging.Region{X1: w.Bounds.X1, Y1: w.Bounds.Y1, X2: w.Bounds.X2, Y2: w.Bounds.Y2},
			Label:  w.Text,
		})
	}
	return imaging.EncodePNG(imaging.Annotate(rec.Image, boxes, imaging.DefaultBoxColor))
}
