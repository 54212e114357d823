package runtime

import "sort"

type frame map[string]Value

// Environment holds one persistent global frame plus a stack of local frames.
// Lookups walk the locals innermost first and fall back to the globals.
type Environment struct {
	global frame
	locals []frame
}

// NewEnvironment creates an environment with an empty global frame.
func NewEnvironment() *Environment {
	return &Environment{global: make(frame)}
}

// PushFrame opens a new innermost local scope.
func (e *Environment) PushFrame() {
	e.locals = append(e.locals, make(frame))
}

// PopFrame discards the innermost local scope. Frames are strictly LIFO, so
// popping with no local frame is a caller bug.
func (e *Environment) PopFrame() {
	if len(e.locals) == 0 {
		panic("runtime: PopFrame without a matching PushFrame")
	}
	e.locals[len(e.locals)-1] = nil
	e.locals = e.locals[:len(e.locals)-1]
}

// Depth reports the number of active local frames.
func (e *Environment) Depth() int {
	return len(e.locals)
}

func (e *Environment) innermost() frame {
	if len(e.locals) == 0 {
		return e.global
	}
	return e.locals[len(e.locals)-1]
}

func (e *Environment) find(name string) (frame, bool) {
	for idx := len(e.locals) - 1; idx >= 0; idx-- {
		if _, ok := e.locals[idx][name]; ok {
			return e.locals[idx], true
		}
	}
	if _, ok := e.global[name]; ok {
		return e.global, true
	}
	return nil, false
}

// Define inserts or shadows a binding in the innermost frame.
func (e *Environment) Define(name string, value Value) {
	e.innermost()[name] = value
}

// Get retrieves a copy of the nearest binding for name.
func (e *Environment) Get(name string) (Value, error) {
	scope, ok := e.find(name)
	if !ok {
		return nil, NewError(UndefinedVariable, "undefined variable '%s'", name)
	}
	return Clone(scope[name]), nil
}

// Assign updates the nearest existing binding. The new value must have the
// same kind as the one it replaces.
func (e *Environment) Assign(name string, value Value) error {
	scope, ok := e.find(name)
	if !ok {
		return NewError(UndefinedVariable, "undefined variable '%s'", name)
	}
	if current := scope[name]; current.Kind() != value.Kind() {
		return NewError(AssignTypeMismatch, "cannot assign %s to '%s' which holds %s", value.Kind(), name, current.Kind())
	}
	scope[name] = value
	return nil
}

// SuspendedFrames holds the local frames detached by Suspend.
type SuspendedFrames struct {
	frames []frame
}

// Suspend detaches every local frame, leaving only the globals visible. The
// frames must be handed back to Resume once the call finishes.
func (e *Environment) Suspend() SuspendedFrames {
	suspended := SuspendedFrames{frames: e.locals}
	e.locals = nil
	return suspended
}

// Resume reinstates frames detached by Suspend, in their original order, and
// drops any locals opened since.
func (e *Environment) Resume(s SuspendedFrames) {
	e.locals = s.frames
}

// Globals returns the global binding names in sorted order.
func (e *Environment) Globals() []string {
	keys := make([]string, 0, len(e.global))
	for k := range e.global {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
