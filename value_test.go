package lumen

import (
	"fmt"
	"strings"
	"testing"
)

func mustPanicWith(t *testing.T, wantType string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic (%s), got none", wantType)
		}
		if got := fmt.Sprintf("%T", r); got != "*lumen."+strings.TrimPrefix(wantType, "*") {
			t.Errorf("expected %s, got %s (%v)", wantType, got, r)
		}
	}()
	fn()
}

func TestAddStringConcatenation(t *testing.T) {
	got := StringVal(1, "foo").Add(NumberVal(1, 3), 1)
	if got.Kind != VString || got.Str != "foo3" {
		t.Errorf("got %+v, want string \"foo3\"", got)
	}
}

func TestMultiplyStringRepeat(t *testing.T) {
	got := StringVal(1, "hi").Multiply(NumberVal(1, 3), 1)
	if got.Kind != VString || got.Str != "hihihi" {
		t.Errorf("got %+v, want string \"hihihi\"", got)
	}
	got = NumberVal(1, 3).Multiply(StringVal(1, "hi"), 1)
	if got.Str != "hihihi" {
		t.Errorf("multiplication should be commutative for string*number, got %+v", got)
	}
}

func TestMultiplyTwoStringsFails(t *testing.T) {
	mustPanicWith(t, "*RuntimeError", func() {
		StringVal(1, "a").Multiply(StringVal(1, "b"), 1)
	})
}

func TestArithmeticOnNullIsAbsorbing(t *testing.T) {
	got := NullVal(1).Add(NumberVal(1, 5), 1)
	if got.Kind != VNull {
		t.Errorf("null + number should be null, got %+v", got)
	}
}

func TestArithmeticResultFollowsLeftOperandType(t *testing.T) {
	got := CharVal(1, 'a').Add(NumberVal(1, 1), 1)
	if got.Kind != VCharacter || got.Char != 'a'+1 {
		t.Errorf("char+number should stay a character, got %+v", got)
	}
	got = BoolVal(1, true).Add(NumberVal(1, 1), 1)
	if got.Kind != VBoolean || got.Bool != true {
		t.Errorf("bool+number truthiness should stay boolean, got %+v", got)
	}
}

func TestDivisionByZeroFails(t *testing.T) {
	mustPanicWith(t, "*RuntimeError", func() {
		NumberVal(1, 1).Divide(NumberVal(1, 0), 1)
	})
}

func TestDivisibleByUsesRemainder(t *testing.T) {
	if !NumberVal(1, 5).DivisibleBy(NumberVal(1, 5), 1) {
		t.Error("5 %% 5 should be true")
	}
	if NumberVal(1, 5).DivisibleBy(NumberVal(1, 3), 1) {
		t.Error("5 %% 3 should be false")
	}
}

func TestGreaterStringComparesCommonPrefixCaseInsensitive(t *testing.T) {
	// A string that is a prefix of the other ties on the common prefix,
	// so it is never "greater" either way.
	if StringVal(1, "abc").Greater(StringVal(1, "ab"), 1) {
		t.Error(`"abc" > "ab" should be false: equal common prefix`)
	}
	if StringVal(1, "ab").Greater(StringVal(1, "abc"), 1) {
		t.Error(`"ab" > "abc" should be false: equal common prefix`)
	}
	if !StringVal(1, "b").Greater(StringVal(1, "A"), 1) {
		t.Error(`"b" > "A" should be true once case is folded`)
	}
	if StringVal(1, "A").Greater(StringVal(1, "b"), 1) {
		t.Error(`"A" > "b" should be false once case is folded`)
	}
}

func TestEqualStrictVsLoose(t *testing.T) {
	num := NumberVal(1, 1)
	str := StringVal(1, "1")
	if num.Equal(str, 1, true) {
		t.Error("strict equality across kinds should be false")
	}
	// loose equality compares via asString when either side is a string,
	// so "1" and 1 compare equal.
	if !str.Equal(num, 1, false) {
		t.Error(`loose equality should treat "1" and 1 as equal`)
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NumberVal(1, 0), false},
		{NumberVal(1, 1), true},
		{StringVal(1, ""), false},
		{StringVal(1, "x"), true},
		{NullVal(1), false},
		{BoolVal(1, true), true},
		{BoolVal(1, false), false},
	}
	for _, c := range cases {
		if got := c.v.truthy(); got != c.want {
			t.Errorf("truthy(%+v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestCopyIdempotence(t *testing.T) {
	v := StringVal(1, "hello")
	once := v.Copy()
	twice := v.Copy().Copy()
	if once != twice {
		t.Errorf("copy(copy(x)) should equal copy(x): %+v vs %+v", twice, once)
	}
}

func TestAsNumberInvalidStringFails(t *testing.T) {
	mustPanicWith(t, "*RuntimeError", func() {
		StringVal(1, "not a number").asNumber()
	})
}
