package bot

import (
	"testing"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
)

func TestMatchButton(t *testing.T) {
	buttons := []Button{
		{Id: "btn_pago", Value: "pago", Label: "Quiero pagar"},
		{Id: "btn_asesor", Value: "asesor", Label: "Hablar con un asesor"},
	}

	tests := []struct {
		name   string
		input  string
		wantId string
		wantOk bool
	}{
		{name: "by id", input: "BTN_PAGO", wantId: "btn_pago", wantOk: true},
		{name: "by value", input: "asesor", wantId: "btn_asesor", wantOk: true},
		{name: "by exact label", input: "quiero pagar", wantId: "btn_pago", wantOk: true},
		{name: "input contained in label", input: "pagar", wantId: "btn_pago", wantOk: true},
		{name: "label contained in input", input: "sí, quiero pagar ya", wantId: "btn_pago", wantOk: true},
		{name: "no match", input: "otra cosa", wantOk: false},
		{name: "blank input", input: "   ", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			btn, ok := matchButton(buttons, tt.input)
			if ok != tt.wantOk {
				t.Fatalf("matchButton(%q) ok = %v, want %v", tt.input, ok, tt.wantOk)
			}
			if ok && btn.Key() != tt.wantId {
				t.Errorf("matchButton(%q) = %q, want %q", tt.input, btn.Key(), tt.wantId)
			}
		})
	}
}

func TestMatchButtonIdBeatsLabelSubstring(t *testing.T) {
	buttons := []Button{
		{Id: "no", Label: "Todavía no"},
		{Id: "si", Label: "Sí, soy yo y confirmo que no hay error"},
	}

	// "no" appears as a substring of both labels; the id rule fires first.
	btn, ok := matchButton(buttons, "no")
	if !ok || btn.Id != "no" {
		t.Errorf("matchButton(no) = (%q, %v), want id rule to win", btn.Id, ok)
	}
}

func TestNormalizeDocument(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1020304050", "1020304050"},
		{" 1.020.304.050 ", "1020304050"},
		{"1-020-304-050", "1020304050"},
		{"1,020,304,050", "1020304050"},
	}

	for _, tt := range tests {
		if got := normalizeDocument(tt.in); got != tt.want {
			t.Errorf("normalizeDocument(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDebtorVariablesDefaultsToSentinel(t *testing.T) {
	vars := debtorVariables(&entity.Debtor{
		FullName:       "Carlos Pérez",
		DocumentNumber: "1020304050",
		TotalDebt:      850000,
		Phone:          "+573001112233",
	})

	if vars["name"] != "Carlos Pérez" {
		t.Errorf("name = %v", vars["name"])
	}
	if vars["company"] != Sentinel {
		t.Errorf("absent company should be the sentinel, got %v", vars["company"])
	}
	if vars["due_date"] != Sentinel {
		t.Errorf("absent due date should be the sentinel, got %v", vars["due_date"])
	}
	if vars["total_debt"] != float64(850000) {
		t.Errorf("total_debt = %v", vars["total_debt"])
	}

	for _, key := range []string{"name", "document", "company", "total_debt", "due_date", "phone", "email"} {
		if _, ok := vars[key]; !ok {
			t.Errorf("missing fixed key %q", key)
		}
	}
}
