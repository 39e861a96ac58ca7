package expr

import "testing"

func mustCompile(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return p
}

func noopResolver(string) (Value, bool) { return Value{}, false }

func TestEvaluateArithmetic(t *testing.T) {
	p := mustCompile(t, "1+2*3")
	v, err := Evaluate(p, noopResolver)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Kind != KindNumber || v.Num != 7 {
		t.Errorf("Evaluate(1+2*3) = %+v, want number 7", v)
	}
}

func TestEvaluateSelectors(t *testing.T) {
	p := mustCompile(t, `.age >= 18 and .country == "US"`)
	resolve := func(path string) (Value, bool) {
		switch path {
		case ".age":
			return Number(21), true
		case ".country":
			return String("US"), true
		}
		return Value{}, false
	}
	v, err := Evaluate(p, resolve)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Kind != KindBool || !v.Bool {
		t.Errorf("Evaluate(...) = %+v, want true", v)
	}
}

func TestEvaluateUnresolvedSelector(t *testing.T) {
	p := mustCompile(t, ".missing == 1")
	_, err := Evaluate(p, noopResolver)
	if err == nil {
		t.Fatalf("Evaluate: expected an error for an unresolved selector")
	}
}

func TestEvaluateInRequiresTuple(t *testing.T) {
	p := mustCompile(t, `.x in .y`)
	resolve := func(path string) (Value, bool) {
		switch path {
		case ".x":
			return Number(2), true
		case ".y":
			return Number(3), true
		}
		return Value{}, false
	}
	if _, err := Evaluate(p, resolve); err == nil {
		t.Fatalf("Evaluate: expected a type error when `in`'s right operand is not a tuple")
	}
}

func TestEvaluateInMembership(t *testing.T) {
	p := mustCompile(t, `.x in .y`)
	resolve := func(path string) (Value, bool) {
		switch path {
		case ".x":
			return String("b"), true
		case ".y":
			return Tuple(String("a"), String("b"), String("c")), true
		}
		return Value{}, false
	}
	v, err := Evaluate(p, resolve)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.Truthy() {
		t.Errorf("Evaluate(.x in .y) = %+v, want true", v)
	}
}

func TestEvaluateNot(t *testing.T) {
	p := mustCompile(t, "!0")
	v, err := Evaluate(p, noopResolver)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.Truthy() {
		t.Errorf("Evaluate(!0) = %+v, want true", v)
	}
}

func TestEvaluateTypeErrorNotPanic(t *testing.T) {
	p := mustCompile(t, `1 + "a"`)
	_, err := Evaluate(p, noopResolver)
	if err == nil {
		t.Fatalf("Evaluate: expected a type error, got none")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Errorf("Evaluate error type = %T, want *EvalError", err)
	}
}
