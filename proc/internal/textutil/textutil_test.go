package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPreview_ShortPassthrough(t *testing.T) {
	result := Preview([]byte("plain text"))
	if result != "plain text" {
		t.Errorf("Preview() = %q, want %q", result, "plain text")
	}
}

func TestPreview_LongInputCapped(t *testing.T) {
	result := Preview([]byte(strings.Repeat("x", MaxPreview+500)))
	if len(result) > MaxPreview {
		t.Errorf("len(result) = %d, want <= %d", len(result), MaxPreview)
	}
}

func TestPreview_ControlCharsReplaced(t *testing.T) {
	result := Preview([]byte("a\nb\x00c\td"))
	if result != "a.b.c.d" {
		t.Errorf("Preview() = %q, want %q", result, "a.b.c.d")
	}
}

func TestPreview_InvalidUTF8Replaced(t *testing.T) {
	result := Preview([]byte{0xff, 0xfe, 'o', 'k'})
	if !utf8.ValidString(result) {
		t.Errorf("Preview() = %q, not valid UTF-8", result)
	}
	if !strings.HasSuffix(result, "ok") {
		t.Errorf("Preview() = %q, want suffix %q", result, "ok")
	}
}

func TestPreview_UTF8Boundary(t *testing.T) {
	input := strings.Repeat("x", MaxPreview-2) + "\U0001F600" // 4-byte emoji at boundary
	result := Preview([]byte(input))
	if len(result) > MaxPreview {
		t.Errorf("len(result) = %d, want <= %d", len(result), MaxPreview)
	}
	if !utf8.ValidString(result) {
		t.Errorf("result is not valid UTF-8")
	}
}

func TestPreview_Empty(t *testing.T) {
	if result := Preview(nil); result != "" {
		t.Errorf("Preview(nil) = %q, want empty", result)
	}
}
