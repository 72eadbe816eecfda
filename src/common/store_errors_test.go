package common

import "testing"

func TestStoreErr(t *testing.T) {
	err := NewStoreErr("Channel", KeyNotFound, "abc")

	if !IsStore(err, KeyNotFound) {
		t.Fatalf("expected KeyNotFound")
	}
	if IsStore(err, Empty) {
		t.Fatalf("KeyNotFound should not match Empty")
	}
	if err.Error() != "Channel, abc, Not Found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNormalizeHex(t *testing.T) {
	for _, c := range []struct {
		in  string
		out string
	}{
		{"0XABCDEF", "abcdef"},
		{"0xabcdef", "abcdef"},
		{" ABcd ", "abcd"},
		{"", ""},
	} {
		if got := NormalizeHex(c.in); got != c.out {
			t.Errorf("NormalizeHex(%q) => %q != %q", c.in, got, c.out)
		}
	}

	if _, err := DecodeHex("zz"); err == nil {
		t.Fatalf("DecodeHex should fail on non-hex input")
	}
}
