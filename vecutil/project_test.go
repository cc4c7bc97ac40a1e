package vecutil

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestProject2D_SeparatesClusters(t *testing.T) {
	// Two clusters far apart along the first axis.
	vectors := [][]float32{
		{10, 0, 0.1}, {10.2, 0.1, 0}, {9.8, -0.1, 0.05},
		{-10, 0.1, 0}, {-9.9, 0, 0.1}, {-10.1, -0.05, 0},
	}
	points, err := Project2D(vectors)
	if err != nil {
		t.Fatalf("Project2D failed: %v", err)
	}
	if len(points) != len(vectors) {
		t.Fatalf("got %d points, want %d", len(points), len(vectors))
	}

	// The first principal component must keep the clusters on opposite sides.
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			if points[i].X*points[j].X >= 0 {
				t.Fatalf("points %d and %d ended on the same side: %v vs %v",
					i, j, points[i], points[j])
			}
		}
	}
}

func TestProject2D_Deterministic(t *testing.T) {
	vectors := [][]float32{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}
	a, err := Project2D(vectors)
	if err != nil {
		t.Fatalf("Project2D failed: %v", err)
	}
	b, err := Project2D(vectors)
	if err != nil {
		t.Fatalf("Project2D failed: %v", err)
	}
	for i := range a {
		if math.Abs(a[i].X-b[i].X) > 1e-12 || math.Abs(a[i].Y-b[i].Y) > 1e-12 {
			t.Fatalf("projection not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestProject2D_Errors(t *testing.T) {
	if _, err := Project2D([][]float32{{1, 2}, {1}}); err == nil {
		t.Error("expected error for inconsistent dims")
	}
	if _, err := Project2D([][]float32{{}}); err == nil {
		t.Error("expected error for empty vectors")
	}
	points, err := Project2D(nil)
	if err != nil || points != nil {
		t.Errorf("Project2D(nil) = %v, %v; want nil, nil", points, err)
	}
}

func TestWritePointsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WritePointsCSV(&buf, []string{"a", "b"}, []Point2D{{X: 1.5, Y: -2}, {X: 0, Y: 3}})
	if err != nil {
		t.Fatalf("WritePointsCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "id,x,y" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "a,1.5,-2" {
		t.Errorf("row = %q", lines[1])
	}

	if err := WritePointsCSV(&buf, []string{"a"}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
}
