package common

import (
	"math"
	"testing"
)

func TestLoopPosition(t *testing.T) {
	cases := []struct {
		name       string
		elapsed    float64
		length     float64
		loop       int
		normalized float64
	}{
		{"start", 0, 2, 0, 0},
		{"inside_first", 1, 2, 0, 0.5},
		{"exact_boundary_not_wrapped", 2, 2, 1, 1},
		{"second_loop", 3, 2, 1, 0.5},
		{"third_loop", 4.5, 2, 2, 0.25},
		{"zero_length", 3, 0, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			loop, normalized := LoopPosition(c.elapsed, c.length)
			if loop != c.loop {
				t.Fatalf("expected loop %d, got %d", c.loop, loop)
			}
			if math.Abs(normalized-c.normalized) > 1e-9 {
				t.Fatalf("expected normalized %f, got %f", c.normalized, normalized)
			}
		})
	}
}

func TestLocalTime(t *testing.T) {
	cases := []struct {
		elapsed float64
		length  float64
		want    float64
	}{
		{0.5, 2, 0.5},
		{2, 2, 2},
		{3, 2, 1},
		{5, 2, 1},
		{1, 0, 0},
	}

	for _, c := range cases {
		if got := LocalTime(c.elapsed, c.length); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("LocalTime(%v, %v) = %v, want %v", c.elapsed, c.length, got, c.want)
		}
	}
}
