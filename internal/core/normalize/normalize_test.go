package normalize

import (
	"testing"
)

// Test table covers each stage and combined pipelines.
func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "call sarah about the kitchen renovation",
			out:  "call sarah about the kitchen renovation",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'm', 'e', 'm', 'o', 0x80, ' ', 'o', 'n', 'e'}),
			out:  "memo one",
		},
		{
			name: "case fold",
			in:   "Sarah CHEN",
			out:  "sarah chen",
		},
		{
			name: "remove zero-widths",
			in:   "bud​get‍ review", // ZERO WIDTH SPACE + ZERO WIDTH JOINER
			out:  "budget review",
		},
		{
			name: "remove combining marks",
			in:   "renée at the café", // combining acute accents
			out:  "renee at the cafe",
		},
		{
			name: "width fold fullwidth",
			in:   "ＡＣＭＥ renewal", // fullwidth letters
			out:  "acme renewal",
		},
		{
			name: "nfkc ligature",
			in:   "back to the oﬃce", // ffi ligature
			out:  "back to the office",
		},
		{
			name: "digits survive",
			in:   "room 401 at 7 for the Q3 review",
			out:  "room 401 at 7 for the q3 review",
		},
		{
			name: "collapse whitespace keeps line breaks",
			in:   "first\t\tpoint\nsecond   point",
			out:  "first point\nsecond point",
		},
		{
			name: "idempotent",
			in:   n.Normalize("Ｒｅｎｅ́  planning\t\tnotes  "),
			out:  "rene planning notes",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// Idempotence check: normalize again should be identical
			got2 := n.Normalize(got)
			if got2 != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, got2)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a\nb c"
	got := collapseSpaces(in)
	if got != want {
		t.Fatalf("collapseSpaces(%q) = %q, want %q", in, got, want)
	}
}
