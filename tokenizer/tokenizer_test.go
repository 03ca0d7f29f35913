package tokenizer

import "testing"

func TestCountEnglishNoCorrection(t *testing.T) {
	text := "hello world, this is a test"
	got := Count(text, true)
	want := baseEstimate(len([]rune(text)))
	if got != want {
		t.Errorf("got %d, want %d (no CJK correction expected)", got, want)
	}
}

func TestCountCJKCorrection(t *testing.T) {
	text := "你好世界"
	got := Count(text, true)
	base := baseEstimate(4)
	correction := 10 - 6 // ceil(4*2.5)=10, ceil(4*1.5)=6
	want := base + correction
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestCountMultiLanguageDisabled(t *testing.T) {
	text := "你好世界"
	got := Count(text, false)
	want := baseEstimate(4)
	if got != want {
		t.Errorf("got %d, want %d (correction should not apply)", got, want)
	}
}

func TestFallback(t *testing.T) {
	got := Fallback("abcd")
	if got != 1 {
		t.Errorf("got %d, want 1 for 4 ascii chars", got)
	}
	got = Fallback("你好")
	if got != 5 {
		t.Errorf("got %d, want 5 for 2 cjk chars (ceil(2*2.5)=5)", got)
	}
}

func TestCountEmpty(t *testing.T) {
	if Count("", true) != 0 {
		t.Errorf("expected 0 for empty text")
	}
}
