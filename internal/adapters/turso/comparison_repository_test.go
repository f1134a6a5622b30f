package turso

import (
	"strings"
	"testing"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, seq := range []int64{0, 1, 42, 1 << 40} {
		got, err := decodeCursor(encodeCursor(seq))
		if err != nil {
			t.Fatalf("decodeCursor(encodeCursor(%d)): %v", seq, err)
		}
		if got != seq {
			t.Errorf("cursor round trip: expected %d, got %d", seq, got)
		}
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, cursor := range []string{"not base64!", "c2VxOmFiYw==", "YWJj"} {
		if _, err := decodeCursor(cursor); err == nil {
			t.Errorf("decodeCursor(%q) succeeded, expected error", cursor)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(1); got != "?" {
		t.Errorf("placeholders(1) = %q", got)
	}
	got := placeholders(3)
	if got != "?, ?, ?" && got != "?,?,?" {
		t.Errorf("placeholders(3) = %q", got)
	}
	if strings.Count(got, "?") != 3 {
		t.Errorf("expected three placeholders, got %q", got)
	}
}
