package ir

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFromGoToGo(t *testing.T) {
	when := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		in   any
		kind Kind
	}{
		{nil, NullKind},
		{true, BoolKind},
		{3, IntKind},
		{uint16(7), IntKind},
		{2.5, FloatKind},
		{decimal.RequireFromString("1.10"), DecimalKind},
		{"hi", StringKind},
		{when, TimeKind},
		{[]any{1, "two"}, ArrayKind},
		{map[string]any{"a": 1, "b": false}, ObjectKind},
	}
	for _, test := range tests {
		v, err := FromGo(test.in)
		if err != nil {
			t.Fatalf("FromGo(%v): %v", test.in, err)
		}
		if v.Kind != test.kind {
			t.Errorf("FromGo(%v): kind %s, want %s", test.in, v.Kind, test.kind)
		}
		back, err := FromGo(ToGo(v))
		if err != nil {
			t.Fatalf("round trip %v: %v", test.in, err)
		}
		if !Equal(v, back) {
			t.Errorf("round trip %v: %v vs %v", test.in, v, back)
		}
	}
}

func TestFromGoMapOrder(t *testing.T) {
	v, err := FromGo(map[string]any{"b": 1, "a": 2, "c": 3})
	if err != nil {
		t.Fatal(err)
	}
	if v.Fields[0] != "a" || v.Fields[1] != "b" || v.Fields[2] != "c" {
		t.Errorf("map fields not sorted: %v", v.Fields)
	}
}

func TestFromGoUnsupported(t *testing.T) {
	if _, err := FromGo(make(chan int)); err == nil {
		t.Errorf("converted a channel")
	}
	if _, err := FromGo([]any{make(chan int)}); err == nil {
		t.Errorf("converted a nested channel")
	}
}
