package commitment

import (
	"reflect"
	"testing"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Literal
	}{
		{name: "plain atom", label: "paid", want: Literal{Atom: "paid"}},
		{name: "atom normalizes case", label: "  Paid ", want: Literal{Atom: "paid"}},
		{name: "not prefix", label: "not paid", want: Literal{Atom: "paid", Negated: true}},
		{name: "unicode negation", label: "¬paid", want: Literal{Atom: "paid", Negated: true}},
		{name: "bang negation", label: "!paid", want: Literal{Atom: "paid", Negated: true}},
		{name: "camel case negation", label: "notPaid", want: Literal{Atom: "paid", Negated: true}},
		{name: "double negation cancels", label: "not notPaid", want: Literal{Atom: "paid"}},
		{name: "notable is not negated", label: "notable", want: Literal{Atom: "notable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLiteral(tt.label); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestLiteralConflicts(t *testing.T) {
	paid := ParseLiteral("paid")
	notPaid := ParseLiteral("notPaid")

	if !paid.Conflicts(notPaid) {
		t.Fatalf("expected paid and notPaid to conflict")
	}
	if paid.Conflicts(paid) {
		t.Fatalf("expected a literal not to conflict with itself")
	}
	if paid.Conflicts(ParseLiteral("delivered")) {
		t.Fatalf("expected distinct atoms not to conflict")
	}
	if got := paid.Negation(); got != notPaid {
		t.Fatalf("expected negation %+v, got %+v", notPaid, got)
	}
}

func TestIsRuleLabel(t *testing.T) {
	if !IsRuleLabel("a -> b") || !IsRuleLabel("a => b") {
		t.Fatalf("expected arrow labels to read as rules")
	}
	if IsRuleLabel("plain fact") {
		t.Fatalf("expected a plain label not to read as a rule")
	}
}

func TestParseRule(t *testing.T) {
	rule, ok := ParseRule("signed & delivered -> paid")
	if !ok {
		t.Fatalf("expected rule to parse")
	}
	wantAnte := []Literal{{Atom: "signed"}, {Atom: "delivered"}}
	if !reflect.DeepEqual(rule.Antecedents, wantAnte) {
		t.Fatalf("expected antecedents %v, got %v", wantAnte, rule.Antecedents)
	}
	if rule.Consequent != (Literal{Atom: "paid"}) {
		t.Fatalf("expected consequent paid, got %+v", rule.Consequent)
	}

	rule, ok = ParseRule("a, notB => c")
	if !ok {
		t.Fatalf("expected comma-separated rule to parse")
	}
	if len(rule.Antecedents) != 2 || !rule.Antecedents[1].Negated {
		t.Fatalf("expected negated second antecedent, got %v", rule.Antecedents)
	}

	if _, ok := ParseRule("no arrow here"); ok {
		t.Fatalf("expected arrowless label to fail")
	}
	if _, ok := ParseRule("a -> "); ok {
		t.Fatalf("expected empty consequent to fail")
	}
	if _, ok := ParseRule(" -> b"); ok {
		t.Fatalf("expected empty antecedents to fail")
	}
}
