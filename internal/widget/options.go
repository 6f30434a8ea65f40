package widget

import (
	"strconv"
	"strings"
)

// Options accumulates ",key:value" fragments of a JavaScript object literal.
// Keys are written in call order; the *Unless helpers skip a key whose value
// equals its documented client-side default.
type Options struct {
	sb strings.Builder
}

// NewOptions returns an empty fragment list.
func NewOptions() *Options {
	return &Options{}
}

// String writes key with a quoted, escaped value.
func (o *Options) String(key, value string) *Options {
	o.sb.WriteString("," + key + ":" + Quote(value))
	return o
}

// StringIf writes key only when value is non-empty.
func (o *Options) StringIf(key, value string) *Options {
	if value == "" {
		return o
	}
	return o.String(key, value)
}

// StringUnless writes key only when value differs from def.
func (o *Options) StringUnless(key, value, def string) *Options {
	if value == def {
		return o
	}
	return o.String(key, value)
}

func (o *Options) Int(key string, value int) *Options {
	o.sb.WriteString("," + key + ":" + strconv.Itoa(value))
	return o
}

// IntUnless writes key only when value differs from def.
func (o *Options) IntUnless(key string, value, def int) *Options {
	if value == def {
		return o
	}
	return o.Int(key, value)
}

func (o *Options) Int64(key string, value int64) *Options {
	o.sb.WriteString("," + key + ":" + strconv.FormatInt(value, 10))
	return o
}

func (o *Options) Float(key string, value float64) *Options {
	o.sb.WriteString("," + key + ":" + FormatNumber(value))
	return o
}

// FloatUnless writes key only when value differs from def.
func (o *Options) FloatUnless(key string, value, def float64) *Options {
	if value == def {
		return o
	}
	return o.Float(key, value)
}

func (o *Options) Bool(key string, value bool) *Options {
	o.sb.WriteString("," + key + ":" + strconv.FormatBool(value))
	return o
}

// BoolUnless writes key only when value differs from def.
func (o *Options) BoolUnless(key string, value, def bool) *Options {
	if value == def {
		return o
	}
	return o.Bool(key, value)
}

// Native writes key with an unquoted JavaScript expression.
func (o *Options) Native(key, expr string) *Options {
	o.sb.WriteString("," + key + ":" + expr)
	return o
}

// NativeIf writes key only when expr is non-empty.
func (o *Options) NativeIf(key, expr string) *Options {
	if expr == "" {
		return o
	}
	return o.Native(key, expr)
}

// Callback writes key as a function literal.
func (o *Options) Callback(key, signature, body string) *Options {
	o.sb.WriteString("," + key + ":" + signature + "{" + body + "}")
	return o
}

// Strings writes key as an array of quoted strings.
func (o *Options) Strings(key string, values []string) *Options {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	o.sb.WriteString("," + key + ":[" + strings.Join(quoted, ",") + "]")
	return o
}

// Nested writes key as an object built from child.
func (o *Options) Nested(key string, child *Options) *Options {
	o.sb.WriteString("," + key + ":" + child.Object())
	return o
}

// Raw appends a pre-built fragment verbatim. The fragment must start with a
// comma to keep the list well formed.
func (o *Options) Raw(fragment string) *Options {
	o.sb.WriteString(fragment)
	return o
}

// Len reports the byte length of the written fragments.
func (o *Options) Len() int {
	return o.sb.Len()
}

// Fragments returns the raw ",key:value" concatenation.
func (o *Options) Fragments() string {
	return o.sb.String()
}

// Object returns the fragments wrapped as an object literal.
func (o *Options) Object() string {
	return "{" + strings.TrimPrefix(o.sb.String(), ",") + "}"
}

// FormatNumber renders a float the way JavaScript number literals read:
// integral values without a fractional part, others in shortest form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
