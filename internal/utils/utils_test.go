package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogEventFormat(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	LogEvent("req-7", "chat", "query", "accepted")
	if line := buf.String(); !strings.Contains(line, "[GW:CHAT] action=query request_id=req-7 msg=accepted") {
		t.Fatalf("got %q", line)
	}

	buf.Reset()
	LogEvent("  ", "store", "load", "miss")
	if line := buf.String(); !strings.Contains(line, "request_id=- ") {
		t.Fatalf("blank request id should render as -, got %q", line)
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "Rs. 0"},
		{300, "Rs. 300"},
		{1234, "Rs. 1,234"},
		{123456, "Rs. 1,23,456"},
		{12345678, "Rs. 1,23,45,678"},
		{1234.50, "Rs. 1,234.50"},
		{-5000, "-Rs. 5,000"},
	}
	for _, tc := range cases {
		if got := FormatINR(tc.in); got != tc.want {
			t.Fatalf("FormatINR(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  buses \t to\n pune  "); got != "buses to pune" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeSpace("   "); got != "" {
		t.Fatalf("blank input should collapse to empty, got %q", got)
	}
}

func TestSplitSeatList(t *testing.T) {
	got := SplitSeatList(" w1, a2 ;b3\n, ,")
	want := []string{"W1", "A2", "B3"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMaskMobile(t *testing.T) {
	if got := MaskMobile("9999912345"); got != "******2345" {
		t.Fatalf("got %q", got)
	}
	if got := MaskMobile("123"); got != "123" {
		t.Fatalf("short numbers pass through, got %q", got)
	}
}
