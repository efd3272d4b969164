package constraint

import (
	"strconv"
	"strings"

	"github.com/milk9111/springjoint/common"
)

// PropList reads typed configuration values by name. Missing or malformed
// values fall back to def.
type PropList interface {
	Has(name string) bool
	String(name, def string) string
	Float(name string, def float64) float64
	Bool(name string, def bool) bool
	Vec3(name string, def common.Vec3) common.Vec3
}

// Props is a PropList over decoded YAML or JSON data.
type Props map[string]any

func (p Props) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Props) String(name, def string) string {
	switch v := p[name].(type) {
	case string:
		return v
	case nil:
		return def
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return def
	}
}

func (p Props) Float(name string, def float64) float64 {
	if f, ok := toFloat(p[name]); ok {
		return f
	}
	return def
}

func (p Props) Bool(name string, def bool) bool {
	switch v := p[name].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return b
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return def
	}
}

// Vec3 accepts [x, y], [x, y, z], {x:, y:, z:} or a common.Vec3.
func (p Props) Vec3(name string, def common.Vec3) common.Vec3 {
	switch v := p[name].(type) {
	case common.Vec3:
		return v
	case []any:
		if len(v) < 2 || len(v) > 3 {
			return def
		}
		var out [3]float64
		for i, raw := range v {
			f, ok := toFloat(raw)
			if !ok {
				return def
			}
			out[i] = f
		}
		return common.Vec3{X: out[0], Y: out[1], Z: out[2]}
	case []float64:
		if len(v) < 2 || len(v) > 3 {
			return def
		}
		out := common.Vec3{X: v[0], Y: v[1]}
		if len(v) == 3 {
			out.Z = v[2]
		}
		return out
	case map[string]any:
		out := def
		m := Props(v)
		out.X = m.Float("x", out.X)
		out.Y = m.Float("y", out.Y)
		out.Z = m.Float("z", out.Z)
		return out
	default:
		return def
	}
}

// Merge returns a copy of p with every key of over applied on top.
func (p Props) Merge(over map[string]any) Props {
	out := make(Props, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
