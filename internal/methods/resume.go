package methods

import (
	"fmt"
	"math"
)

// Resume describes where a client should drop a user back into a method run.
type Resume struct {
	CurrentStep int    `json:"current_step"`
	Route       string `json:"route"`
}

// ResumeInfo computes the current step and resume route for a method at the
// given progress. Pure function of its inputs.
func ResumeInfo(mt MethodType, progress int) Resume {
	cfg, ok := registry[mt]
	if !ok {
		return Resume{Route: genericRoute(mt, progress)}
	}

	step := 0
	if cfg.TotalSteps > 0 {
		step = int(math.Round(float64(progress) / 100 * float64(cfg.TotalSteps)))
	}

	route := genericRoute(mt, progress)
	if cfg.RoutePrefix != "" {
		route = fmt.Sprintf("%s?step=%d&progress=%d", cfg.RoutePrefix, step, progress)
	}
	return Resume{CurrentStep: step, Route: route}
}

func genericRoute(mt MethodType, progress int) string {
	return fmt.Sprintf("/methods/%s/run?progress=%d", mt, progress)
}
