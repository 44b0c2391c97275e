package assets

import "testing"

func TestCleanAssetPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"block.png", "block.png"},
		{"assets/block.png", "block.png"},
		{"/home/me/game/assets/player.png", "player.png"},
		{"/elsewhere/emoji.json", "emoji.json"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := cleanAssetPath(tc.in); got != tc.want {
				t.Fatalf("cleanAssetPath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEmbeddedImagesDecode(t *testing.T) {
	tests := []struct {
		file string
		w, h int
	}{
		{"tileset.png", 256, 64},
		{"block.png", 64, 64},
		{"wooden-plank.png", 64, 18},
		{"player.png", 256, 96},
		{"emoji.png", 256, 64},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			img, err := DecodeImage(tc.file)
			if err != nil {
				t.Fatalf("DecodeImage failed: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tc.w || b.Dy() != tc.h {
				t.Fatalf("expected %dx%d, got %dx%d", tc.w, tc.h, b.Dx(), b.Dy())
			}
		})
	}
}

func TestEmbeddedSoundsPresent(t *testing.T) {
	for _, name := range []string{"music.wav", "jump.wav", "ouch.wav", "outro.wav"} {
		b, err := LoadFile(name)
		if err != nil {
			t.Fatalf("LoadFile(%q) failed: %v", name, err)
		}
		if len(b) < 44 || string(b[:4]) != "RIFF" {
			t.Fatalf("%s is not a RIFF file", name)
		}
	}
}

func TestParseAtlas(t *testing.T) {
	data, err := LoadFile("emoji.json")
	if err != nil {
		t.Fatal(err)
	}
	img, frames, err := ParseAtlas(data)
	if err != nil {
		t.Fatalf("ParseAtlas failed: %v", err)
	}
	if img != "emoji.png" {
		t.Fatalf("expected emoji.png, got %q", img)
	}
	r, ok := frames["1f4a9"]
	if !ok {
		t.Fatalf("missing frame 1f4a9")
	}
	if r.Dx() != 64 || r.Dy() != 64 {
		t.Fatalf("unexpected frame size %v", r)
	}

	if _, _, err := ParseAtlas([]byte(`{"frames":{}}`)); err == nil {
		t.Fatalf("expected error for atlas without meta.image")
	}
}
