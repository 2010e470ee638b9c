package bot

import (
	"testing"
)

func TestInterpolate(t *testing.T) {
	vars := map[string]interface{}{
		"nombre": "Ana María",
		"saldo":  1523750.5,
		"cuotas": 3,
		"debtor": map[string]interface{}{
			"name":       "Carlos Pérez",
			"total_debt": float64(999),
			"company":    "Acme S.A.S.",
		},
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "no placeholders unchanged",
			template: "Hola, gracias por escribirnos.",
			want:     "Hola, gracias por escribirnos.",
		},
		{
			name:     "simple substitution",
			template: "Hola {{nombre}}",
			want:     "Hola Ana María",
		},
		{
			name:     "nested path",
			template: "Deudor: {{debtor.name}} ({{debtor.company}})",
			want:     "Deudor: Carlos Pérez (Acme S.A.S.)",
		},
		{
			name:     "missing key becomes sentinel",
			template: "Correo: {{correo}}",
			want:     "Correo: " + Sentinel,
		},
		{
			name:     "missing nested path becomes sentinel",
			template: "{{debtor.due_date}}",
			want:     Sentinel,
		},
		{
			name:     "integer below threshold ungrouped",
			template: "{{cuotas}} cuotas",
			want:     "3 cuotas",
		},
		{
			name:     "boundary 999 ungrouped",
			template: "{{debtor.total_debt}}",
			want:     "999",
		},
		{
			name:     "whitespace inside braces",
			template: "Hola {{ nombre }}",
			want:     "Hola Ana María",
		},
		{
			name:     "malformed placeholder untouched",
			template: "{{nombre",
			want:     "{{nombre",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.template, vars)
			if got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestInterpolateGroupsLargeNumbers(t *testing.T) {
	vars := map[string]interface{}{"monto": float64(1000)}

	got := Interpolate("{{monto}}", vars)
	if got != "1,000" {
		t.Errorf("Interpolate grouping boundary = %q, want %q", got, "1,000")
	}

	vars["monto"] = 1523750.5
	got = Interpolate("{{monto}}", vars)
	if got != "1,523,750.5" {
		t.Errorf("Interpolate large decimal = %q, want %q", got, "1,523,750.5")
	}
}

func TestInterpolateIsIdempotentAndPure(t *testing.T) {
	vars := map[string]interface{}{"nombre": "Luis", "saldo": 250000}
	template := "{{nombre}}, tu saldo es {{saldo}}."

	first := Interpolate(template, vars)
	second := Interpolate(template, vars)
	if first != second {
		t.Errorf("repeated interpolation differs: %q vs %q", first, second)
	}

	if len(vars) != 2 || vars["nombre"] != "Luis" {
		t.Errorf("variable bag mutated: %v", vars)
	}
}

func TestInterpolateNilBag(t *testing.T) {
	got := Interpolate("Hola {{nombre}}", nil)
	want := "Hola " + Sentinel
	if got != want {
		t.Errorf("Interpolate with nil bag = %q, want %q", got, want)
	}
}
