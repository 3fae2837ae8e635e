package result

import "testing"

func TestResultOkErr(t *testing.T) {
	ok := Ok(42)
	if !ok.IsOk() {
		t.Fatalf("expected ok")
	}
	if v, err := ok.Unwrap(); err != nil || v != 42 {
		t.Fatalf("unexpected unwrap %v %v", v, err)
	}

	bad := Err[int](NewError(NoSuchAccount, "no such account"))
	if bad.IsOk() {
		t.Fatalf("expected failure")
	}
	if _, err := bad.Unwrap(); err == nil || err.Code != NoSuchAccount {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestErrorEquivalence(t *testing.T) {
	e := NewError(DaemonTimeout, "relay timed out")
	if !e.Is(Timeout) {
		t.Fatalf("expected DaemonTimeout ~ Timeout")
	}
	if e.Is(NotFound) {
		t.Fatalf("did not expect DaemonTimeout ~ NotFound")
	}

	hidden := NewError(NoSuchAccount, "hidden")
	if !hidden.Is(NotFound) {
		t.Fatalf("expected NoSuchAccount ~ NotFound")
	}
}

func TestMapConvertsSuccessType(t *testing.T) {
	r := Ok(uint64(1000))
	s := Map(r, func(v uint64) string { return "converted" })
	if v, err := s.Unwrap(); err != nil || v != "converted" {
		t.Fatalf("unexpected map result %v %v", v, err)
	}

	f := Err[uint64](NewError(BadViewKey, "bad"))
	s2 := Map(f, func(v uint64) string { return "unused" })
	if s2.IsOk() {
		t.Fatalf("expected failure to propagate through Map")
	}
}

func TestVoidResult(t *testing.T) {
	v := VoidOk()
	if !v.IsOk() {
		t.Fatalf("expected ok")
	}
	bad := VoidErr(NewError(CreateQueueMax, "queue full"))
	if bad.IsOk() {
		t.Fatalf("expected failure")
	}
	if bad.Error().Code != CreateQueueMax {
		t.Fatalf("unexpected code %v", bad.Error().Code)
	}
}

func TestNilErrorIsNeverEquivalent(t *testing.T) {
	var e *Error
	if e.Is(Timeout) {
		t.Fatalf("nil error should never be equivalent to a condition")
	}
}
