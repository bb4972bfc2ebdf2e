package policy

// Policy is the hook contract every loop-control rule implements.
type Policy interface {
	// Initialize resets iteration state before a loop starts.
	Initialize()

	// ShouldApply reports whether the current iteration may proceed.
	// item is None() for producer-driven loops.
	ShouldApply(item Value) bool

	// Completed reports whether the loop must stop. output is None() for the
	// top-of-loop check and for action-driven loops.
	Completed(output Value) bool

	// Mutate advances iteration state after the operation ran.
	Mutate()
}

// Base supplies the neutral hook defaults. Embed it and override the hooks a
// policy needs.
type Base struct{}

// Initialize does nothing.
func (Base) Initialize() {}

// ShouldApply always admits the iteration.
func (Base) ShouldApply(Value) bool { return true }

// Completed never stops the loop.
func (Base) Completed(Value) bool { return false }

// Mutate does nothing.
func (Base) Mutate() {}

// Value is an optional item or output handed to ShouldApply and Completed.
type Value struct {
	v  any
	ok bool
}

// Some wraps a present value.
func Some(v any) Value {
	return Value{v: v, ok: true}
}

// None returns the absent value.
func None() Value {
	return Value{}
}

// Get returns the wrapped value and whether it is present.
func (v Value) Get() (any, bool) {
	return v.v, v.ok
}

// Present reports whether a value is wrapped.
func (v Value) Present() bool {
	return v.ok
}

// Funcs adapts plain functions to the Policy interface. A nil field falls
// back to the Base default for that hook.
type Funcs struct {
	OnInitialize func()
	Gate         func(item Value) bool
	Done         func(output Value) bool
	OnMutate     func()
}

// Initialize calls OnInitialize.
func (f *Funcs) Initialize() {
	if f.OnInitialize != nil {
		f.OnInitialize()
	}
}

// ShouldApply calls Gate.
func (f *Funcs) ShouldApply(item Value) bool {
	if f.Gate == nil {
		return true
	}
	return f.Gate(item)
}

// Completed calls Done.
func (f *Funcs) Completed(output Value) bool {
	if f.Done == nil {
		return false
	}
	return f.Done(output)
}

// Mutate calls OnMutate.
func (f *Funcs) Mutate() {
	if f.OnMutate != nil {
		f.OnMutate()
	}
}
