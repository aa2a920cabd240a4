package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createInMemoryImage creates a solid-color image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// createStripedImage draws horizontal ink lines like rows of tag text.
func createStripedImage(width, height int, ink, paper color.Color) *image.RGBA {
	img := createInMemoryImage(width, height, paper)
	for y := height / 5; y < height*4/5; y++ {
		if (y/6)%2 == 0 {
			continue
		}
		for x := width / 10; x < width*9/10; x++ {
			img.Set(x, y, ink)
		}
	}
	return img
}

// createTestImageFile writes img as PNG into a temp dir and returns its path.
func createTestImageFile(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tag.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImageFile(t, createInMemoryImage(40, 20, color.White))
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %v, want 40x20", img.Bounds())
	}
	if cache.Len() != 1 {
		t.Errorf("cache length: got %d, want 1", cache.Len())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load should return the cached image")
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("after Evict: got %d entries", cache.Len())
	}
	cache.Evict("/not/cached.png")

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/tag.png"); err == nil {
		t.Error("Load should fail for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImageFile(t, createInMemoryImage(10, 10, color.Black))
	cache := NewImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestDecodeAndDescribe(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(30, 12, color.White)); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 30 {
		t.Errorf("width: got %d, want 30", img.Bounds().Dx())
	}

	info, err := DescribeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DescribeBytes failed: %v", err)
	}
	if info.Width != 30 || info.Height != 12 || info.Format != "png" {
		t.Errorf("info: got %+v", info)
	}

	if _, err := Decode([]byte("junk")); err == nil {
		t.Error("Decode should fail for junk")
	}
	if _, err := DescribeBytes(nil); err == nil {
		t.Error("DescribeBytes should fail for empty data")
	}
}

func TestCrop(t *testing.T) {
	img := createInMemoryImage(100, 80, color.White)

	tests := []struct {
		name    string
		region  Region
		w, h    int
		wantErr bool
	}{
		{"zero region is whole image", Region{}, 100, 80, false},
		{"inner", Region{10, 10, 60, 40}, 50, 30, false},
		{"full", Region{0, 0, 100, 80}, 100, 80, false},
		{"outside", Region{50, 50, 120, 90}, 0, 0, true},
		{"inverted", Region{60, 10, 10, 40}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Crop(img, tt.region)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if got.Bounds().Dx() != tt.w || got.Bounds().Dy() != tt.h {
				t.Errorf("dimensions: got %v, want %dx%d", got.Bounds(), tt.w, tt.h)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	res, err := EncodePNG(createInMemoryImage(8, 6, color.Black))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if res.Width != 8 || res.Height != 6 || res.MimeType != "image/png" {
		t.Errorf("result: got %+v", res)
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("not a PNG: %v", err)
	}
}

func TestRotate(t *testing.T) {
	img := createInMemoryImage(40, 10, color.White)
	tests := []struct {
		deg  int
		w, h int
	}{
		{0, 40, 10},
		{90, 10, 40},
		{180, 40, 10},
		{270, 10, 40},
	}
	for _, tt := range tests {
		got, err := Rotate(img, tt.deg)
		if err != nil {
			t.Fatalf("Rotate(%d) failed: %v", tt.deg, err)
		}
		if got.Bounds().Dx() != tt.w || got.Bounds().Dy() != tt.h {
			t.Errorf("Rotate(%d): got %v, want %dx%d", tt.deg, got.Bounds(), tt.w, tt.h)
		}
		if !ValidRotation(tt.deg) {
			t.Errorf("ValidRotation(%d) = false", tt.deg)
		}
	}
	if _, err := Rotate(img, 45); err == nil {
		t.Error("Rotate(45) should fail")
	}
	if ValidRotation(45) {
		t.Error("ValidRotation(45) = true")
	}
}

func TestRankRotations(t *testing.T) {
	candidates := []int{0, 90, 270, 180}
	upright := createStripedImage(200, 120, color.Black, color.White)

	got := RankRotations(upright, candidates)
	want := []int{0, 180, 90, 270}
	if !equalInts(got, want) {
		t.Errorf("upright: got %v, want %v", got, want)
	}

	sideways, _ := Rotate(upright, 90)
	got = RankRotations(sideways, candidates)
	want = []int{90, 270, 0, 180}
	if !equalInts(got, want) {
		t.Errorf("sideways: got %v, want %v", got, want)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDarkBackground(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"dark text on white", createStripedImage(100, 60, color.Black, color.White), false},
		{"white text on black", createStripedImage(100, 60, color.White, color.Black), true},
		{"navy tag", createInMemoryImage(50, 50, color.RGBA{20, 30, 90, 255}), true},
		{"yellow tag", createInMemoryImage(50, 50, color.RGBA{250, 230, 80, 255}), false},
		{"empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DarkBackground(tt.img); got != tt.want {
				t.Errorf("DarkBackground() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBorderLightness_Transparent(t *testing.T) {
	if _, ok := BorderLightness(image.NewRGBA(image.Rect(0, 0, 10, 10))); ok {
		t.Error("fully transparent image should report no lightness")
	}
}

func TestOtsuLevel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		if i%2 == 0 {
			img.Pix[i] = 40
		} else {
			img.Pix[i] = 210
		}
	}
	level := OtsuLevel(img)
	if level <= 40 || level > 210 {
		t.Errorf("OtsuLevel = %d, want between 40 and 210", level)
	}
}

func TestPrepare(t *testing.T) {
	inverted := createStripedImage(200, 100, color.White, color.Black)
	out := Prepare(inverted, DefaultPrepareOptions())

	b := out.Bounds()
	if b.Dy() != 600 {
		t.Errorf("height: got %d, want upscaled to 600", b.Dy())
	}
	if DarkBackground(out) {
		t.Error("prepared image should have a light background")
	}

	// Every pixel is pure black or white after binarization.
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 7 {
			g := color.GrayModel.Convert(out.At(x, y)).(color.Gray)
			if g.Y != 0 && g.Y != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, g.Y)
			}
		}
	}
}

func TestPrepare_Downscale(t *testing.T) {
	img := createInMemoryImage(3000, 1000, color.White)
	out := Prepare(img, PrepareOptions{MaxSide: 1500})
	if out.Bounds().Dx() != 1500 || out.Bounds().Dy() != 500 {
		t.Errorf("dimensions: got %v, want 1500x500", out.Bounds())
	}
}

func TestPrepare_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if out := Prepare(img, DefaultPrepareOptions()); out != img {
		t.Error("empty image should be returned unchanged")
	}
}

func TestAnnotate(t *testing.T) {
	img := createInMemoryImage(100, 60, color.White)
	boxes := []Box{
		{Region: Region{10, 20, 50, 40}, Label: "1940"},
		{Region: Region{200, 200, 300, 300}, Label: "off image"},
	}
	out := Annotate(img, boxes, DefaultBoxColor)

	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds: got %v, want %v", out.Bounds(), img.Bounds())
	}
	if c := out.RGBAAt(30, 39); c.R < 200 || c.G > 100 {
		t.Errorf("box bottom edge not drawn: %v", c)
	}
	if c := out.RGBAAt(90, 55); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("untouched pixel changed: %v", c)
	}
	if c := img.RGBAAt(30, 39); c != (color.RGBA{255, 255, 255, 255}) {
		t.Error("Annotate modified its input")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF0080", color.RGBA{0, 255, 0, 128}, false},
		{"", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
