package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateMDY(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"6/1/2024", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"12/31/1999", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{" 1/2/2024 ", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"2/30/2024", time.Time{}, false}, // normalized overflow
		{"13/1/2024", time.Time{}, false},
		{"6/0/2024", time.Time{}, false},
		{"6/1", time.Time{}, false},
		{"2024-06-01", time.Time{}, false},
		{"a/b/c", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		d, err := ParseDateMDY(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseDateMDY(%q) unexpected error: %v", tc.in, err)
			}
			if !d.Equal(tc.want) {
				t.Fatalf("ParseDateMDY(%q) = %v, want %v", tc.in, d.Time, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ParseDateMDY(%q) expected error", tc.in)
		}
	}
}

func TestDateIsUTCMidnight(t *testing.T) {
	d, err := ParseDateMDY("6/1/2024")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h, m, s := d.Clock()
	if h != 0 || m != 0 || s != 0 {
		t.Fatalf("expected midnight, got %02d:%02d:%02d", h, m, s)
	}
	if d.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", d.Location())
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 6, 1)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-06-01T00:00:00.000Z"` {
		t.Fatalf("marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back.Time, d.Time)
	}
}
