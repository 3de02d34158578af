package source

import "testing"

func TestSpanString(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want string
	}{
		{name: "empty", span: Span{}, want: "?"},
		{name: "point", span: At(3, 7), want: "3:7"},
		{name: "range", span: Span{Start: Pos{Line: 1, Col: 2}, End: Pos{Line: 4, Col: 1}}, want: "1:2-4:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: Pos{Line: 2, Col: 5}, End: Pos{Line: 2, Col: 9}}
	b := Span{Start: Pos{Line: 1, Col: 1}, End: Pos{Line: 2, Col: 6}}

	got := a.Cover(b)
	want := Span{Start: Pos{Line: 1, Col: 1}, End: Pos{Line: 2, Col: 9}}
	if got != want {
		t.Fatalf("Cover = %v, want %v", got, want)
	}
	if a.Cover(Span{}) != a {
		t.Fatalf("covering an empty span must be a no-op")
	}
	if (Span{}).Cover(a) != a {
		t.Fatalf("empty span covered by a must equal a")
	}

	other := b
	other.File = 7
	if a.Cover(other) != a {
		t.Fatalf("spans from different files must not merge")
	}
}
