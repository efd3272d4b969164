package constraint

import (
	"testing"

	"github.com/milk9111/springjoint/common"
)

func TestPropsVec3(t *testing.T) {
	def := common.Vec3{X: 9, Y: 9, Z: 9}
	tests := []struct {
		name string
		raw  any
		want common.Vec3
	}{
		{"list3", []any{1, 2.5, -3}, common.Vec3{X: 1, Y: 2.5, Z: -3}},
		{"list2", []any{4, 5}, common.Vec3{X: 4, Y: 5}},
		{"map_partial", map[string]any{"x": 1, "z": 2}, common.Vec3{X: 1, Y: 9, Z: 2}},
		{"floats", []float64{1, 2, 3}, common.Vec3{X: 1, Y: 2, Z: 3}},
		{"too_short", []any{1}, def},
		{"bad_element", []any{1, "two"}, def},
		{"missing", nil, def},
		{"wrong_type", true, def},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Props{}
			if tc.raw != nil {
				p["v"] = tc.raw
			}
			if got := p.Vec3("v", def); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestPropsScalars(t *testing.T) {
	p := Props{
		"s":     "hello",
		"n":     3,
		"f":     "2.5",
		"b":     "true",
		"bn":    1,
		"bad_b": "maybe",
	}

	if got := p.String("s", ""); got != "hello" {
		t.Fatalf("string: got %q", got)
	}
	if got := p.String("n", ""); got != "3" {
		t.Fatalf("numeric string: got %q", got)
	}
	if got := p.String("missing", "def"); got != "def" {
		t.Fatalf("missing string: got %q", got)
	}
	if got := p.Float("n", 0); got != 3 {
		t.Fatalf("int float: got %v", got)
	}
	if got := p.Float("f", 0); got != 2.5 {
		t.Fatalf("string float: got %v", got)
	}
	if got := p.Float("s", 7); got != 7 {
		t.Fatalf("malformed float: got %v", got)
	}
	if !p.Bool("b", false) || !p.Bool("bn", false) {
		t.Fatalf("bool coercion failed")
	}
	if !p.Bool("bad_b", true) {
		t.Fatalf("malformed bool should keep default")
	}
	if !p.Has("s") || p.Has("missing") {
		t.Fatalf("Has mismatch")
	}
}

func TestPropsMerge(t *testing.T) {
	base := Props{"a": 1, "b": 2}
	out := base.Merge(map[string]any{"b": 3, "c": 4})
	if out.Float("a", 0) != 1 || out.Float("b", 0) != 3 || out.Float("c", 0) != 4 {
		t.Fatalf("unexpected merge result %v", out)
	}
	if base.Float("b", 0) != 2 {
		t.Fatalf("merge must not mutate the receiver")
	}
}
