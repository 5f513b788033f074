package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNotificationEventString(t *testing.T) {
	ev := NotificationEvent{
		RetailerName: "acme",
		OldPrice:     decimal.NewNullDecimal(decimal.RequireFromString("1199.00")),
		NewPrice:     decimal.RequireFromString("999"),
		Reason:       ThresholdMet,
	}
	want := "[THRESHOLD_MET] acme: $1199.00 -> $999.00"
	if got := ev.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	ev.OldPrice = decimal.NullDecimal{}
	ev.Reason = PriceChanged
	want = "[PRICE_CHANGED] acme: n/a -> $999.00"
	if got := ev.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMustMatchRegexp(t *testing.T) {
	r := Retailer{Name: "acme", MustMatch: `widget\s+pro`}
	re, err := r.MustMatchRegexp()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !re.MatchString("Introducing the WIDGET  Pro 2026") {
		t.Error("guard should match case-insensitively")
	}
	if re.MatchString("Widget Max") {
		t.Error("guard matched the wrong product")
	}

	r.MustMatch = ""
	re, err = r.MustMatchRegexp()
	if err != nil || re != nil {
		t.Errorf("unset guard = (%v, %v), want (nil, nil)", re, err)
	}

	r.MustMatch = "["
	if _, err := r.MustMatchRegexp(); err == nil {
		t.Error("expected a compile error")
	}
}

func TestParseRealertPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want RealertPolicy
	}{
		{"", RealertAlways},
		{"always", RealertAlways},
		{"below_only", RealertBelowOnly},
		{"bogus", RealertAlways},
	}
	for _, tc := range tests {
		if got := ParseRealertPolicy(tc.in); got != tc.want {
			t.Errorf("ParseRealertPolicy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
