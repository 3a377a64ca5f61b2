package services

import (
	"reflect"
	"testing"
)

func testRules() []ResolutionRule {
	return []ResolutionRule{
		{Prefix: "F-10/", ContextType: ContextPole, ContextValue: "11600B", Suffix: "06", FullCode: "F-10/06"},
		{Prefix: "F-10/", ContextType: ContextPole, ContextValue: "9100B", Suffix: "02", FullCode: "F-10/02"},
		{Prefix: "M1/", ContextType: ContextConductor, ContextValue: "cab_21_caa", Suffix: "4", FullCode: "M1/4"},
		{Prefix: "M1/", ContextType: ContextConductor, ContextValue: "cab_53_caa", Suffix: "1/0", FullCode: "M1/1/0"},
	}
}

func TestResolve(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name   string
		code   string
		ctx    ResolutionContext
		expect string
	}{
		{
			"concrete code passes through",
			"300100",
			ResolutionContext{PoleCode: "11600B"},
			"300100",
		},
		{
			"pole family resolves by active pole",
			"F-10/",
			ResolutionContext{PoleCode: "11600B"},
			"F-10/06",
		},
		{
			"pole family picks the matching rule",
			"F-10/",
			ResolutionContext{PoleCode: "9100B"},
			"F-10/02",
		},
		{
			"conductor family resolves by MT selection",
			"M1/",
			ResolutionContext{ConductorMT: "cab_21_caa"},
			"M1/4",
		},
		{
			"conductor family resolves by BT selection",
			"M1/",
			ResolutionContext{ConductorBT: "cab_53_caa"},
			"M1/1/0",
		},
		{
			"no context value stays partial",
			"F-10/",
			ResolutionContext{},
			"F-10/",
		},
		{
			"unknown context value stays partial",
			"F-10/",
			ResolutionContext{PoleCode: "77000B"},
			"F-10/",
		},
		{
			"unknown family stays partial",
			"ZZ/",
			ResolutionContext{PoleCode: "11600B"},
			"ZZ/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.code, tt.ctx, rules)
			if got != tt.expect {
				t.Errorf("Resolve(%q) = %q, want %q", tt.code, got, tt.expect)
			}
		})
	}
}

func TestResolveConcreteIgnoresRules(t *testing.T) {
	// A fully concrete code returns unchanged regardless of rule contents.
	rules := []ResolutionRule{
		{Prefix: "300100", ContextType: ContextPole, ContextValue: "11600B", FullCode: "SOMETHING-ELSE"},
	}
	got := Resolve("300100", ResolutionContext{PoleCode: "11600B"}, rules)
	if got != "300100" {
		t.Errorf("Resolve(concrete) = %q, want unchanged", got)
	}
}

func TestResolveSuffixFallback(t *testing.T) {
	// Without a full code the resolved code is prefix+suffix.
	rules := []ResolutionRule{
		{Prefix: "M1/", ContextType: ContextConductor, ContextValue: "cab_185_spacer", Suffix: "120"},
	}
	got := Resolve("M1/", ResolutionContext{ConductorMT: "cab_185_spacer"}, rules)
	if got != "M1/120" {
		t.Errorf("Resolve = %q, want M1/120", got)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	rules := []ResolutionRule{
		{Prefix: "F-10/", ContextType: ContextPole, ContextValue: "11600B", FullCode: "F-10/06"},
		{Prefix: "F-10/", ContextType: ContextPole, ContextValue: "11600B", FullCode: "F-10/99"},
	}
	got := Resolve("F-10/", ResolutionContext{PoleCode: "11600B"}, rules)
	if got != "F-10/06" {
		t.Errorf("Resolve = %q, want first matching rule F-10/06", got)
	}
}

func TestIsPartialCode(t *testing.T) {
	tests := []struct {
		code   string
		expect bool
	}{
		{"F-10/", true},
		{"M1/", true},
		{"300100", false},
		{"M1/4", false},
		{"M1/1/0", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPartialCode(tt.code); got != tt.expect {
			t.Errorf("IsPartialCode(%q) = %v, want %v", tt.code, got, tt.expect)
		}
	}
}

func TestUnresolvedCodes(t *testing.T) {
	rules := testRules()
	ctx := ResolutionContext{PoleCode: "11600B"}

	lines := []MaterialLine{
		{Code: "F-10/"}, // resolves
		{Code: "M1/"},   // no conductor selected, stays partial
		{Code: "ZZ/"},   // no rule, stays partial
		{Code: "M1/"},   // duplicate, reported once
		{Code: "300100"},
	}

	got := UnresolvedCodes(lines, ctx, rules)
	want := []string{"M1/", "ZZ/"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnresolvedCodes = %v, want %v", got, want)
	}
}

func TestUnresolvedCodesEmpty(t *testing.T) {
	if got := UnresolvedCodes(nil, ResolutionContext{}, nil); got != nil {
		t.Errorf("UnresolvedCodes(nil) = %v, want nil", got)
	}
}
