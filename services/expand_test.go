package services

import (
	"reflect"
	"testing"
)

func TestExpandSelectionOrdinaryKit(t *testing.T) {
	refs, extras := ExpandSelection(KitSelection{KitCode: "13N1", Quantity: 3}, nil)

	want := []string{"13N1", "13N1", "13N1"}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("kitRefs = %v, want %v", refs, want)
	}
	if len(extras) != 0 {
		t.Errorf("extras = %v, want none", extras)
	}
}

func TestExpandSelectionZeroQuantityDefaultsToOne(t *testing.T) {
	refs, _ := ExpandSelection(KitSelection{KitCode: "13N1"}, nil)
	if len(refs) != 1 {
		t.Errorf("kitRefs = %v, want one entry", refs)
	}
}

func TestExpandSelectionTemplateWithBaseKit(t *testing.T) {
	templates := []ManualTemplate{
		{
			Name:        "N1-REFORCADA",
			BaseKitCode: "13N1",
			Extras: []TemplateExtra{
				{Code: "300342", Quantity: 2, Description: "PARAFUSO M16 X 250MM"},
			},
		},
	}

	refs, extras := ExpandSelection(KitSelection{KitCode: "N1-REFORCADA", Quantity: 2}, templates)

	if want := []string{"13N1", "13N1"}; !reflect.DeepEqual(refs, want) {
		t.Errorf("kitRefs = %v, want %v", refs, want)
	}
	if len(extras) != 1 {
		t.Fatalf("extras = %v, want one line", extras)
	}
	extra := extras[0]
	if extra.Code != "300342" || extra.Quantity != 4 {
		t.Errorf("extra = %+v, want code 300342 qty 4", extra)
	}
	if extra.Origin != "Template:N1-REFORCADA" {
		t.Errorf("origin = %q, want Template:N1-REFORCADA", extra.Origin)
	}
	if extra.Priced {
		t.Error("template extras must arrive unpriced")
	}
}

func TestExpandSelectionTemplateSelfReferentialBase(t *testing.T) {
	// Template name reused as a real kit code: the base kit is still emitted.
	templates := []ManualTemplate{
		{Name: "13N3", BaseKitCode: "13N3", Extras: []TemplateExtra{{Code: "999", Quantity: 1}}},
	}

	refs, extras := ExpandSelection(KitSelection{KitCode: "13N3", Quantity: 1}, templates)

	if want := []string{"13N3"}; !reflect.DeepEqual(refs, want) {
		t.Errorf("kitRefs = %v, want %v", refs, want)
	}
	if len(extras) != 1 {
		t.Errorf("extras = %v, want one line", extras)
	}
}

func TestExpandSelectionTemplateWithoutBaseKit(t *testing.T) {
	// Extras-only template: no kit refs, extras scaled by selection quantity.
	templates := []ManualTemplate{
		{Name: "T1", Extras: []TemplateExtra{{Code: "999", Quantity: 2}}},
	}

	refs, extras := ExpandSelection(KitSelection{KitCode: "T1", Quantity: 3}, templates)

	if len(refs) != 0 {
		t.Errorf("kitRefs = %v, want none", refs)
	}
	if len(extras) != 1 || extras[0].Quantity != 6 {
		t.Errorf("extras = %+v, want single line with quantity 6", extras)
	}
}
