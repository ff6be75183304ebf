package result

import (
	"errors"
	"strconv"
	"testing"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

func TestMapAppliesOnlyOnSuccess(t *testing.T) {
	r := Map(Ok(21), func(v int) int { return v * 2 })
	if !r.IsOk() || r.Value() != 42 {
		t.Fatalf("map ok: want=42 got=%v err=%v", r.Value(), r.Err())
	}

	calls := 0
	failed := Map(Fail[int](domainagg.Conflict("dup")), func(v int) int { calls++; return v })
	if failed.IsOk() {
		t.Fatalf("map over failure should stay failed")
	}
	if calls != 0 {
		t.Fatalf("mapper calls: want=0 got=%d", calls)
	}
	if !domainagg.IsCode(failed.Err(), domainagg.CodeConflict) {
		t.Fatalf("failure should be preserved, got=%v", failed.Err())
	}
}

func TestFlatMapShortCircuits(t *testing.T) {
	parse := func(s string) Result[int] {
		return From(strconv.Atoi(s))
	}
	if v, err := FlatMap(Ok("7"), parse).Get(); err != nil || v != 7 {
		t.Fatalf("flatmap ok: want=7 got=%d err=%v", v, err)
	}
	if r := FlatMap(Ok("x"), parse); r.IsOk() {
		t.Fatalf("flatmap should surface parse failure")
	}
}

func TestMatchSelectsBranch(t *testing.T) {
	onOk := func(v int) string { return "ok:" + strconv.Itoa(v) }
	onFail := func(err error) string { return "fail:" + err.Error() }
	if got := Match(Ok(1), onOk, onFail); got != "ok:1" {
		t.Fatalf("match ok: got=%q", got)
	}
	if got := Match(Fail[int](errors.New("x")), onOk, onFail); got != "fail:x" {
		t.Fatalf("match fail: got=%q", got)
	}
}

func TestFailWithNilIsInvariantViolation(t *testing.T) {
	r := Fail[string](nil)
	if r.IsOk() {
		t.Fatalf("Fail(nil) must not be ok")
	}
	if !domainagg.IsInvariant(r.Err(), "result.nilFailure") {
		t.Fatalf("want result.nilFailure got=%v", r.Err())
	}
}
