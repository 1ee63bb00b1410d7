package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "extends both ends",
			a:        Span{File: 1, Start: Pos{2, 4}, End: Pos{2, 9}},
			b:        Span{File: 1, Start: Pos{1, 1}, End: Pos{3, 2}},
			expected: Span{File: 1, Start: Pos{1, 1}, End: Pos{3, 2}},
		},
		{
			name:     "other file is ignored",
			a:        Span{File: 1, Start: Pos{2, 4}, End: Pos{2, 9}},
			b:        Span{File: 2, Start: Pos{1, 1}, End: Pos{3, 2}},
			expected: Span{File: 1, Start: Pos{2, 4}, End: Pos{2, 9}},
		},
		{
			name:     "unknown takes other",
			a:        Unknown,
			b:        At(1, 5, 5),
			expected: At(1, 5, 5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Fatalf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanString(t *testing.T) {
	if got := Unknown.String(); got != "loc(unknown)" {
		t.Fatalf("unexpected unknown span string %q", got)
	}
	if got := At(3, 7, 2).String(); got != "loc(3:7:2)" {
		t.Fatalf("unexpected point span string %q", got)
	}
}
