package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/parsefix/parsefix/schema"
	"github.com/parsefix/parsefix/value"
)

// coerce attempts a lossless-ish conversion of a primitive to the schema's
// type. It never fabricates data that is not derivable from the input and
// never errors: the boolean reports whether a conversion applied.
func coerce(v *value.Value, node *schema.Node) (*value.Value, bool) {
	switch node.Kind {
	case schema.KindNumber:
		return coerceNumber(v)
	case schema.KindString:
		return coerceString(v)
	case schema.KindBoolean:
		return coerceBool(v)
	case schema.KindNull:
		// Nothing coerces to null; absence of data cannot be derived.
		return nil, false
	default:
		return nil, false
	}
}

func coerceNumber(v *value.Value) (*value.Value, bool) {
	switch v.Kind() {
	case value.KindString:
		text := strings.TrimSpace(v.StringVal())
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.Int(i), true
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return value.Float(f), true
		}
		return nil, false
	case value.KindBool:
		if v.BoolVal() {
			return value.Int(1), true
		}
		return value.Int(0), true
	default:
		return nil, false
	}
}

func coerceString(v *value.Value) (*value.Value, bool) {
	switch v.Kind() {
	case value.KindInt:
		return value.String(strconv.FormatInt(v.IntVal(), 10)), true
	case value.KindFloat:
		f := v.FloatVal()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return value.String(strconv.FormatFloat(f, 'g', -1, 64)), true
	case value.KindBool:
		return value.String(strconv.FormatBool(v.BoolVal())), true
	default:
		return nil, false
	}
}

// truthy and falsy string forms accepted when coercing to boolean, matching
// the YAML scalar set plus "1"/"0".
var (
	truthyStrings = map[string]bool{"true": true, "yes": true, "on": true, "1": true}
	falsyStrings  = map[string]bool{"false": true, "no": true, "off": true, "0": true}
)

func coerceBool(v *value.Value) (*value.Value, bool) {
	switch v.Kind() {
	case value.KindString:
		text := strings.ToLower(strings.TrimSpace(v.StringVal()))
		if truthyStrings[text] {
			return value.Bool(true), true
		}
		if falsyStrings[text] {
			return value.Bool(false), true
		}
		return nil, false
	case value.KindInt:
		switch v.IntVal() {
		case 0:
			return value.Bool(false), true
		case 1:
			return value.Bool(true), true
		}
		return nil, false
	default:
		return nil, false
	}
}
