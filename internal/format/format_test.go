package format

import "testing"

func TestCurrency(t *testing.T) {
	cases := map[float64]string{0: "$0.00", 2.499: "$2.50", 12.344: "$12.34", 3: "$3.00"}
	for in, want := range cases {
		if got := Currency(in); got != want {
			t.Fatalf("Currency(%v)=%q want %q", in, got, want)
		}
	}
}

func TestTokens(t *testing.T) {
	cases := map[int64]string{950: "950", 12_345: "12.3K", 4_500_000: "4.5M"}
	for in, want := range cases {
		if got := Tokens(in); got != want {
			t.Fatalf("Tokens(%d)=%q want %q", in, got, want)
		}
	}
}

func TestDuration(t *testing.T) {
	cases := map[int64]string{45: "45s", 303: "5m 3s", 3900: "1h 5m", -1: "0s"}
	for in, want := range cases {
		if got := Duration(in); got != want {
			t.Fatalf("Duration(%d)=%q want %q", in, got, want)
		}
	}
}

func TestLookupFile(t *testing.T) {
	if ft := LookupFile("reports/Q1.XLSX", false); ft.Label != "Excel" || ft.Category != "Spreadsheet" {
		t.Fatalf("unexpected type %+v", ft)
	}
	if ft := LookupFile("blob.bin", true); ft.Label != "BIN" || ft.Category != "Binary" {
		t.Fatalf("unexpected binary fallback %+v", ft)
	}
	if ft := LookupFile("Makefile", false); ft.Label != "File" || ft.Category != "Other" {
		t.Fatalf("unexpected text fallback %+v", ft)
	}
	if FileName("a/b/c.py") != "c.py" {
		t.Fatalf("unexpected file name")
	}
}

func TestStatusAllowlist(t *testing.T) {
	if s := Status("completed"); !s.Known || s.Tone != ToneSuccess {
		t.Fatalf("unexpected status %+v", s)
	}
	s := Status("archived")
	if s.Known || s.Label != "archived" || s.Tone != ToneNone {
		t.Fatalf("unknown status must pass through unstyled, got %+v", s)
	}
	for _, v := range KnownStatuses {
		if !Status(v).Known {
			t.Fatalf("%s missing from allowlist", v)
		}
	}
}
