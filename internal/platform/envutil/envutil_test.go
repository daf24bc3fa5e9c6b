package envutil

import "testing"

func TestStr(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_STR", "  hello  ")
	if got := Str("ENVUTIL_TEST_STR", "fallback"); got != "hello" {
		t.Fatalf("Str = %q, want %q", got, "hello")
	}
	if got := Str("ENVUTIL_TEST_STR_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Str default = %q, want %q", got, "fallback")
	}
}

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "42")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 42 {
		t.Fatalf("Int = %d, want 42", got)
	}
	t.Setenv("ENVUTIL_TEST_INT_BAD", "not-a-number")
	if got := Int("ENVUTIL_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("Int bad value = %d, want default 7", got)
	}
	if got := Int("ENVUTIL_TEST_INT_MISSING", 7); got != 7 {
		t.Fatalf("Int default = %d, want 7", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"TRUE", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"0", true, false},
		{"false", true, false},
		{"no", true, false},
		{"off", true, false},
		{"  true  ", false, true},
		{"maybe", false, false},
		{"maybe", true, true},
	}
	for _, tc := range cases {
		t.Setenv("ENVUTIL_TEST_BOOL", tc.value)
		if got := Bool("ENVUTIL_TEST_BOOL", tc.def); got != tc.want {
			t.Fatalf("Bool(%q, %v) = %v, want %v", tc.value, tc.def, got, tc.want)
		}
	}
	if got := Bool("ENVUTIL_TEST_BOOL_MISSING", true); got != true {
		t.Fatalf("Bool default = %v, want true", got)
	}
}
