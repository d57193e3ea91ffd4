package engine

import "testing"

func TestAsInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{5, 5, true},
		{int64(7), 7, true},
		{float64(42), 42, true},
		{"175", 175, true},
		{" 80 ", 80, true},
		{"fast", 0, false},
		{float64(1.5), 0, false},
	}
	for _, c := range cases {
		got, err := AsInt(c.in)
		if c.ok {
			if err != nil {
				t.Fatalf("AsInt(%v): unexpected error %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("AsInt(%v) = %v, want %d", c.in, got, c.want)
			}
		} else if err == nil {
			t.Fatalf("AsInt(%v): expected error, got %v", c.in, got)
		}
	}
}

func TestAsLower(t *testing.T) {
	got, err := AsLower(" EN-us ")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != "en-us" {
		t.Fatalf("got %v", got)
	}
}

func TestAsString(t *testing.T) {
	got, err := AsString("  Alex ")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != "Alex" {
		t.Fatalf("got %v", got)
	}
	if got, _ := AsString(42); got != "42" {
		t.Fatalf("got %v", got)
	}
}
