package checksum

import "testing"

func TestSum_Known(t *testing.T) {
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestLines_OrderSensitive(t *testing.T) {
	a := Lines([]string{"a", "b"})
	b := Lines([]string{"b", "a"})
	if a == b {
		t.Error("reordered lists should differ")
	}
	if a != Lines([]string{"a", "b"}) {
		t.Error("Lines is not deterministic")
	}
	if Lines([]string{"ab"}) == Lines([]string{"a", "b"}) {
		t.Error("separator not applied")
	}
}
