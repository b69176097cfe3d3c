package methods

// MethodType is the canonical key of a study method in the registry.
type MethodType string

const (
	MethodCornell          MethodType = "cornell"
	MethodPomodoro         MethodType = "pomodoro"
	MethodFeynman          MethodType = "feynman"
	MethodActiveRecall     MethodType = "active_recall"
	MethodSpacedRepetition MethodType = "repaso_espaciado"
	MethodMindMapping      MethodType = "mapa_mental"
)

// DefaultStatus is returned when a progress value has no entry in a method's
// status map.
const DefaultStatus = "en_progreso"

// MethodConfig is the per-method transition table: which progress values are
// accepted at creation, on update and on resume, plus the progress->status
// labels. TotalSteps and RoutePrefix feed the resume-info calculation.
type MethodConfig struct {
	ValidCreationProgress []int
	ValidUpdateProgress   []int
	ValidResumeProgress   []int
	StatusMap             map[int]string
	TotalSteps            int
	RoutePrefix           string
}

// registry is read-only after process start. Every StatusMap key must be a
// member of the union of the three valid-progress sets.
var registry = map[MethodType]MethodConfig{
	MethodCornell: {
		ValidCreationProgress: []int{20},
		ValidUpdateProgress:   []int{20, 40, 60, 80, 100},
		ValidResumeProgress:   []int{20, 40, 60, 80},
		StatusMap: map[int]string{
			20:  "En_proceso",
			40:  "Tomando_notas",
			60:  "Casi_terminando",
			80:  "Revisando",
			100: "Finalizado",
		},
		TotalSteps:  5,
		RoutePrefix: "/methods/cornell",
	},
	MethodPomodoro: {
		ValidCreationProgress: []int{25},
		ValidUpdateProgress:   []int{25, 50, 75, 100},
		ValidResumeProgress:   []int{25, 50, 75},
		StatusMap: map[int]string{
			25:  "Primer_ciclo",
			50:  "Segundo_ciclo",
			75:  "Tercer_ciclo",
			100: "Completado",
		},
		TotalSteps:  4,
		RoutePrefix: "/methods/pomodoro",
	},
	MethodFeynman: {
		ValidCreationProgress: []int{25},
		ValidUpdateProgress:   []int{25, 50, 75, 100},
		ValidResumeProgress:   []int{25, 50, 75},
		StatusMap: map[int]string{
			25:  "Eligiendo_concepto",
			50:  "Explicando",
			75:  "Simplificando",
			100: "Dominado",
		},
		TotalSteps:  4,
		RoutePrefix: "/methods/feynman",
	},
	MethodActiveRecall: {
		ValidCreationProgress: []int{10},
		ValidUpdateProgress:   []int{10, 30, 50, 70, 90, 100},
		ValidResumeProgress:   []int{10, 30, 50, 70, 90},
		StatusMap: map[int]string{
			10:  "Leyendo",
			30:  "Primer_repaso",
			50:  "Recordando",
			70:  "Segundo_repaso",
			90:  "Ultimo_repaso",
			100: "Finalizado",
		},
		TotalSteps:  6,
		RoutePrefix: "/methods/active-recall",
	},
	MethodSpacedRepetition: {
		ValidCreationProgress: []int{20},
		ValidUpdateProgress:   []int{20, 40, 60, 80, 100},
		ValidResumeProgress:   []int{20, 40, 60, 80},
		StatusMap: map[int]string{
			20:  "Primera_sesion",
			40:  "Segunda_sesion",
			60:  "Tercera_sesion",
			80:  "Cuarta_sesion",
			100: "Finalizado",
		},
		TotalSteps:  5,
		RoutePrefix: "/methods/spaced-repetition",
	},
	MethodMindMapping: {
		ValidCreationProgress: []int{50},
		ValidUpdateProgress:   []int{50, 100},
		ValidResumeProgress:   []int{50},
		StatusMap: map[int]string{
			50:  "Dibujando",
			100: "Terminado",
		},
		// No per-step breakdown; resume falls back to the generic route.
	},
}

// aliases maps free-text method names, both raw display names and their
// normalized forms, to registry keys.
var aliases = map[string]MethodType{
	"Método Cornell":     MethodCornell,
	"metodo_cornell":     MethodCornell,
	"cornell_notes":      MethodCornell,
	"Método Pomodoro":    MethodPomodoro,
	"tecnica_pomodoro":   MethodPomodoro,
	"metodo_pomodoro":    MethodPomodoro,
	"Técnica Feynman":    MethodFeynman,
	"tecnica_feynman":    MethodFeynman,
	"metodo_feynman":     MethodFeynman,
	"Active Recall":      MethodActiveRecall,
	"recuerdo_activo":    MethodActiveRecall,
	"Repaso Espaciado":   MethodSpacedRepetition,
	"spaced_repetition":  MethodSpacedRepetition,
	"repeticion_espaciada": MethodSpacedRepetition,
	"Mapa Mental":        MethodMindMapping,
	"mind_mapping":       MethodMindMapping,
	"mapa_conceptual":    MethodMindMapping,
}

// Config returns the transition table for a method type.
func Config(mt MethodType) (MethodConfig, bool) {
	cfg, ok := registry[mt]
	return cfg, ok
}

// Types returns every registered method type. Test helper, but also handy
// for seeding.
func Types() []MethodType {
	out := make([]MethodType, 0, len(registry))
	for mt := range registry {
		out = append(out, mt)
	}
	return out
}

func containsInt(vals []int, v int) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
