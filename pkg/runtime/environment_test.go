package runtime

import (
	"errors"
	"reflect"
	"testing"
)

func TestEnvironmentDefineAndShadow(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", NumberValue{Val: 1})
	env.PushFrame()
	env.Define("x", StringValue{Val: "inner"})

	got, err := env.Get("x")
	if err != nil {
		t.Fatalf("get x: %v", err)
	}
	if got != (StringValue{Val: "inner"}) {
		t.Fatalf("expected shadowed binding, got %#v", got)
	}

	env.PopFrame()
	got, err = env.Get("x")
	if err != nil {
		t.Fatalf("get x after pop: %v", err)
	}
	if got != (NumberValue{Val: 1}) {
		t.Fatalf("expected global binding restored, got %#v", got)
	}
}

func TestEnvironmentGetMissingIsUndefinedVariable(t *testing.T) {
	env := NewEnvironment()
	_, err := env.Get("missing")
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected UndefinedVariable, got %v", err)
	}
}

func TestEnvironmentAssignKeepsKind(t *testing.T) {
	env := NewEnvironment()
	env.Define("n", NumberValue{Val: 1})
	env.PushFrame()

	if err := env.Assign("n", NumberValue{Val: 2}); err != nil {
		t.Fatalf("assign same kind: %v", err)
	}
	got, _ := env.Get("n")
	if got != (NumberValue{Val: 2}) {
		t.Fatalf("assign should update the outer binding, got %#v", got)
	}

	err := env.Assign("n", BoolValue{Val: true})
	if !errors.Is(err, ErrAssignTypeMismatch) {
		t.Fatalf("expected AssignTypeMismatch, got %v", err)
	}
	if kind, ok := KindOf(err); !ok || kind != AssignTypeMismatch {
		t.Fatalf("KindOf returned %q, %v", kind, ok)
	}

	if err := env.Assign("fresh", NumberValue{Val: 0}); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("assign must not create bindings, got %v", err)
	}
	if env.Depth() != 1 {
		t.Fatalf("unexpected depth %d", env.Depth())
	}
}

func TestEnvironmentGetReturnsCopies(t *testing.T) {
	env := NewEnvironment()
	env.Define("arr", &ArrayValue{Elements: []Value{NumberValue{Val: 1}}})

	first, _ := env.Get("arr")
	first.(*ArrayValue).Elements[0] = NumberValue{Val: 99}

	second, _ := env.Get("arr")
	if got := second.(*ArrayValue).Elements[0]; got != (NumberValue{Val: 1}) {
		t.Fatalf("stored array was mutated through a read: %#v", got)
	}
}

func TestEnvironmentSuspendHidesLocals(t *testing.T) {
	env := NewEnvironment()
	env.Define("g", NumberValue{Val: 1})
	env.PushFrame()
	env.Define("outer", NumberValue{Val: 2})
	env.PushFrame()
	env.Define("inner", NumberValue{Val: 3})

	suspended := env.Suspend()
	if env.Depth() != 0 {
		t.Fatalf("expected no locals while suspended, got %d", env.Depth())
	}
	env.PushFrame()
	env.Define("param", NumberValue{Val: 4})
	if _, err := env.Get("g"); err != nil {
		t.Fatalf("globals must stay visible: %v", err)
	}
	if _, err := env.Get("outer"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("caller locals must be hidden, got %v", err)
	}
	env.PopFrame()
	env.Resume(suspended)

	if env.Depth() != 2 {
		t.Fatalf("expected two frames after resume, got %d", env.Depth())
	}
	// The innermost frame must still be the one that was innermost before.
	env.Define("inner", NumberValue{Val: 30})
	env.PopFrame()
	got, err := env.Get("outer")
	if err != nil || got != (NumberValue{Val: 2}) {
		t.Fatalf("outer frame not restored in order: %#v, %v", got, err)
	}
	if _, err := env.Get("inner"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("inner frame should have been popped, got %v", err)
	}
	if _, err := env.Get("param"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("parameter frame leaked into caller, got %v", err)
	}
}

func TestEnvironmentDefineWithoutLocalsIsGlobal(t *testing.T) {
	env := NewEnvironment()
	env.Define("b", BoolValue{Val: true})
	env.Define("a", None)
	env.PushFrame()
	env.Define("local", None)
	if got := env.Globals(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected globals %v", got)
	}
}

func TestEnvironmentPopWithoutPushPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewEnvironment().PopFrame()
}
