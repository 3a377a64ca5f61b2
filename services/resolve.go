package services

import "strings"

// PartialCodeDelimiter marks a code as contextual: codes ending in it
// name a family whose concrete member depends on the pole or conductor
// in use.
const PartialCodeDelimiter = "/"

// IsPartialCode reports whether a code still needs contextual resolution.
func IsPartialCode(code string) bool {
	return strings.HasSuffix(code, PartialCodeDelimiter) && code != ""
}

// Resolve maps a partial code to its concrete catalog code using the
// rules that match the active context. Concrete codes return unchanged.
// The first matching rule wins; a partial code no rule covers returns
// unchanged so it can surface in the manual resolution workflow.
func Resolve(code string, ctx ResolutionContext, rules []ResolutionRule) string {
	if !IsPartialCode(code) {
		return code
	}
	for _, rule := range rules {
		if rule.Prefix != code {
			continue
		}
		if !contextMatches(rule, ctx) {
			continue
		}
		if rule.FullCode != "" {
			return rule.FullCode
		}
		return rule.Prefix + rule.Suffix
	}
	return code
}

// contextMatches reports whether the active context satisfies a rule. A
// rule with an empty context value never matches.
func contextMatches(rule ResolutionRule, ctx ResolutionContext) bool {
	if rule.ContextValue == "" {
		return false
	}
	switch rule.ContextType {
	case ContextPole:
		return ctx.PoleCode == rule.ContextValue
	case ContextConductor:
		return ctx.ConductorMT == rule.ContextValue || ctx.ConductorBT == rule.ContextValue
	}
	return false
}

// UnresolvedCodes returns the distinct codes that remain partial after
// resolution, in first-seen order. These are the codes the user has to
// resolve by hand before the budget is complete.
func UnresolvedCodes(lines []MaterialLine, ctx ResolutionContext, rules []ResolutionRule) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, line := range lines {
		resolved := Resolve(line.Code, ctx, rules)
		if !IsPartialCode(resolved) || seen[resolved] {
			continue
		}
		seen[resolved] = true
		codes = append(codes, resolved)
	}
	return codes
}
