package methods

import "testing"

// Every status-map key must be reachable through at least one of the three
// valid-progress sets, otherwise a status label could never be derived.
func TestRegistryStatusKeysCovered(t *testing.T) {
	for mt, cfg := range registry {
		union := map[int]bool{}
		for _, v := range cfg.ValidCreationProgress {
			union[v] = true
		}
		for _, v := range cfg.ValidUpdateProgress {
			union[v] = true
		}
		for _, v := range cfg.ValidResumeProgress {
			union[v] = true
		}
		for k := range cfg.StatusMap {
			if !union[k] {
				t.Fatalf("method %s: status map key %d not in any valid-progress set", mt, k)
			}
		}
	}
}

func TestRegistryProgressBounds(t *testing.T) {
	for mt, cfg := range registry {
		all := append([]int{}, cfg.ValidCreationProgress...)
		all = append(all, cfg.ValidUpdateProgress...)
		all = append(all, cfg.ValidResumeProgress...)
		for _, v := range all {
			if v < 0 || v > 100 {
				t.Fatalf("method %s: progress value %d out of [0,100]", mt, v)
			}
		}
		if cfg.TotalSteps < 0 {
			t.Fatalf("method %s: negative TotalSteps", mt)
		}
	}
}

func TestAliasesResolveToRegisteredTypes(t *testing.T) {
	for alias, mt := range aliases {
		if _, ok := registry[mt]; !ok {
			t.Fatalf("alias %q maps to unregistered type %s", alias, mt)
		}
	}
}
