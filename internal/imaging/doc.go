// Package imaging prepares photos of inventory tags for OCR.
//
// A tag photo goes through these steps before recognition:
//
//  1. Load: decode with EXIF orientation applied (ImageCache, Decode).
//  2. Crop: optionally cut the photo down to the tag (Crop).
//  3. Rotate: try the candidate quarter turns, likeliest first
//     (RankRotations, Rotate).
//  4. Prepare: resize, grayscale, invert light-on-dark tags, boost contrast
//     and binarize (Prepare).
//
// After recognition, Annotate draws the recognized word boxes over the
// image that was read so a person can verify the record before commit.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. For
// regions, (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Formats
//
// PNG, JPEG and GIF decoders come from the standard library; BMP, TIFF and
// WebP are registered from golang.org/x/image.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and return new images rather than modifying their input.
package imaging
