package box

import "testing"

func TestIntersect(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Box
		want    Box
		wantOK  bool
	}{
		{
			name:   "overlap",
			a:      Box{X: 0, Y: 0, Width: 10, Height: 10},
			b:      Box{X: 5, Y: 5, Width: 10, Height: 10},
			want:   Box{X: 5, Y: 5, Width: 5, Height: 5},
			wantOK: true,
		},
		{
			name:   "disjoint",
			a:      Box{X: 0, Y: 0, Width: 10, Height: 10},
			b:      Box{X: 20, Y: 20, Width: 10, Height: 10},
			wantOK: false,
		},
		{
			name:   "touching edges don't overlap",
			a:      Box{X: 0, Y: 0, Width: 10, Height: 10},
			b:      Box{X: 10, Y: 0, Width: 10, Height: 10},
			wantOK: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Intersect(c.a, c.b)
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if ok && got != c.want {
				t.Fatalf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestClampKeepsSizeWhenFits(t *testing.T) {
	bound := Box{X: 0, Y: 0, Width: 800, Height: 600}
	b := Box{X: 100, Y: 350, Width: 400, Height: 600}
	got := b.Clamp(bound)
	if got.Width != 400 || got.Height != 600 {
		t.Fatalf("size changed: %+v", got)
	}
	if got.Y != 0 {
		t.Fatalf("expected y clamped to 0, got %d", got.Y)
	}
}

func TestCentered(t *testing.T) {
	outer := Box{X: 0, Y: 0, Width: 800, Height: 600}
	got := Centered(outer, 400, 200)
	want := Box{X: 200, Y: 200, Width: 400, Height: 200}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
