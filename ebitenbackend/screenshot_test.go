package ebitenbackend

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"after-drag", "after-drag"},
		{"  zoom 2.0x  ", "zoom_2.0x"},
		{"a/b\\c:d", "a_b_c_d"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque
		64, 32, 0, 128, // half transparent
		0, 0, 0, 0, // clear
	}
	img := unpremultiply(pixels, 3, 1)

	want := []byte{
		255, 0, 0, 255,
		127, 63, 0, 128,
		0, 0, 0, 0,
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("pix = %v, want %v", img.Pix, want)
		}
	}
}
