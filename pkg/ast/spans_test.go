package ast

import (
	"encoding/json"
	"testing"
)

func TestSetSpanAnnotatesNode(t *testing.T) {
	id := NewIdentifier("x")
	span := Span{Start: Position{Line: 2, Column: 5}, End: Position{Line: 2, Column: 6}}
	SetSpan(id, span)
	if got := id.Span(); got != span {
		t.Fatalf("span mismatch: got %+v, want %+v", got, span)
	}
	SetSpan(nil, span)
}

func TestNodesMarshalWithTypeTag(t *testing.T) {
	expr := Bin(BinaryMultiply, Num(2), Neg(ID("n")))
	out, err := json.Marshal(expr)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"type":"BinaryExpression","operator":"*","left":{"type":"NumberLiteral","value":2},"right":{"type":"UnaryExpression","operator":"-","operand":{"type":"Identifier","name":"n"}}}`
	if string(out) != want {
		t.Fatalf("unexpected json:\n got: %s\nwant: %s", out, want)
	}
}
