package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindArray
	KindFunction
	KindRange
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindRange:
		return "range"
	case KindNone:
		return "none"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue is a 32-bit signed integer; arithmetic on it wraps.
type NumberValue struct {
	Val int32
}

func (v NumberValue) Kind() Kind { return KindNumber }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }

// None is the value of a missing else branch, a block without a tail
// expression, an assignment, and the `none` literal.
var None Value = NoneValue{}

//-----------------------------------------------------------------------------
// Collections and ranges
//-----------------------------------------------------------------------------

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// RangeValue is the half-open interval [Start, End). When Bounded is false the
// range has no end.
type RangeValue struct {
	Start   int32
	End     int32
	Bounded bool
}

func (v RangeValue) Kind() Kind { return KindRange }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue stores a parameter list and an unevaluated body. It captures
// nothing: the body runs against the global frame plus its parameters.
type FunctionValue struct {
	Name   string
	Params []string
	Body   ast.Expression
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NewFunction builds a function value from its definition.
func NewFunction(def *ast.FunctionDefinition) *FunctionValue {
	params := make([]string, 0, len(def.Params))
	for _, param := range def.Params {
		params = append(params, param.Name)
	}
	name := ""
	if def.Name != nil {
		name = def.Name.Name
	}
	return &FunctionValue{Name: name, Params: params, Body: def.Body}
}

// Clone returns a copy of v that shares no mutable state with it. Scalars,
// ranges and functions are immutable and returned as is.
func Clone(v Value) Value {
	arr, ok := v.(*ArrayValue)
	if !ok || arr == nil {
		return v
	}
	elements := make([]Value, len(arr.Elements))
	for idx, el := range arr.Elements {
		elements[idx] = Clone(el)
	}
	return &ArrayValue{Elements: elements}
}

// Format renders a value for display. Top-level strings are printed raw;
// strings nested in arrays are quoted.
func Format(v Value) string {
	if s, ok := v.(StringValue); ok {
		return s.Val
	}
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil:
		b.WriteString("none")
	case NumberValue:
		b.WriteString(strconv.FormatInt(int64(val.Val), 10))
	case BoolValue:
		b.WriteString(strconv.FormatBool(val.Val))
	case StringValue:
		b.WriteString(strconv.Quote(val.Val))
	case NoneValue:
		b.WriteString("none")
	case *ArrayValue:
		b.WriteByte('[')
		for idx, el := range val.Elements {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el)
		}
		b.WriteByte(']')
	case RangeValue:
		b.WriteString(strconv.FormatInt(int64(val.Start), 10))
		b.WriteString("..")
		if val.Bounded {
			b.WriteString(strconv.FormatInt(int64(val.End), 10))
		}
	case *FunctionValue:
		fmt.Fprintf(b, "<func %s(%s)>", val.Name, strings.Join(val.Params, ", "))
	default:
		fmt.Fprintf(b, "<%s>", v.Kind())
	}
}
