package methods

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Método Cornell":   "metodo_cornell",
		"  cornell  ":      "cornell",
		"Técnica   Pomodoro": "tecnica_pomodoro",
		"repaso__espaciado": "repaso_espaciado",
		"_cornell_":        "cornell",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q): got %q want %q", in, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Método Cornell", "ACTIVE   RECALL", "mapa mental", "cornell"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestResolve(t *testing.T) {
	// Registry key directly.
	if mt, err := Resolve("cornell"); err != nil || mt != MethodCornell {
		t.Fatalf("Resolve(cornell): mt=%s err=%v", mt, err)
	}
	// Normalized form hits the registry key.
	if mt, err := Resolve("  CORNELL  "); err != nil || mt != MethodCornell {
		t.Fatalf("Resolve(CORNELL): mt=%s err=%v", mt, err)
	}
	// Raw display name in the alias table.
	if mt, err := Resolve("Método Cornell"); err != nil || mt != MethodCornell {
		t.Fatalf("Resolve(Método Cornell): mt=%s err=%v", mt, err)
	}
	// Normalized alias.
	if mt, err := Resolve("Tecnica Pomodoro"); err != nil || mt != MethodPomodoro {
		t.Fatalf("Resolve(Tecnica Pomodoro): mt=%s err=%v", mt, err)
	}
	if _, err := Resolve("metodo inventado"); err == nil {
		t.Fatalf("Resolve(metodo inventado): expected error")
	}
}

// Resolve(x) == Resolve(Normalize(x)) whenever x is resolvable.
func TestResolveIdempotentUnderNormalization(t *testing.T) {
	inputs := []string{"Método Cornell", "cornell", "Repaso Espaciado", "Active Recall"}
	for _, in := range inputs {
		direct, err := Resolve(in)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", in, err)
		}
		viaNorm, err := Resolve(Normalize(in))
		if err != nil {
			t.Fatalf("Resolve(Normalize(%q)): %v", in, err)
		}
		if direct != viaNorm {
			t.Fatalf("Resolve(%q)=%s but Resolve(Normalize)=%s", in, direct, viaNorm)
		}
	}
}
