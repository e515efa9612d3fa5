package bloomtree

import (
	"image"
	"testing"
)

func TestFontCacheQuantizes(t *testing.T) {
	f, err := loadDefaultFont()
	if err != nil {
		t.Fatal(err)
	}
	fc := newFontCache(f)
	a, err := fc.face(12)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := fc.face(12.1)
	if a != b {
		t.Error("sizes within a quarter unit got different faces")
	}
	c, _ := fc.face(13)
	if a == c {
		t.Error("different sizes share a face")
	}
	if len(fc.faces) != 2 {
		t.Errorf("cached %d faces, want 2", len(fc.faces))
	}
}

func TestMeasureString(t *testing.T) {
	f, err := loadDefaultFont()
	if err != nil {
		t.Fatal(err)
	}
	face, err := newFontCache(f).face(16)
	if err != nil {
		t.Fatal(err)
	}
	short, long := measureString(face, "ab"), measureString(face, "abab")
	if short <= 0 || long <= short {
		t.Errorf("measure ab = %v, abab = %v", short, long)
	}
	if measureString(face, "") != 0 {
		t.Error("empty string has width")
	}
}

func TestDrawStringAlign(t *testing.T) {
	f, _ := loadDefaultFont()
	face, err := newFontCache(f).face(16)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 100, 30))
	drawString(img, face, "W", 50, 20, TextAlignRight, red.premultiplied(1))
	for y := range 30 {
		for x := 52; x < 100; x++ {
			if img.RGBAAt(x, y).A != 0 {
				t.Fatalf("right-aligned text painted past its anchor at (%d, %d)", x, y)
			}
		}
	}
}
