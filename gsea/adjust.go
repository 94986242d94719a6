package gsea

import (
	"fmt"
	"sort"
)

// Supported multiple-testing correction methods.
const (
	AdjustBH         = "BH"
	AdjustBonferroni = "bonferroni"
)

func checkAdjustMethod(method string) error {
	switch method {
	case AdjustBH, AdjustBonferroni:
		return nil
	}

	return fmt.Errorf("gsea: unknown p-value adjustment method %q (valid: %s, %s)", method, AdjustBH, AdjustBonferroni)
}

// AdjustPValues applies the named multiple-testing correction and returns
// adjusted p-values in the input order. The input is not modified.
func AdjustPValues(p []float64, method string) ([]float64, error) {
	if err := checkAdjustMethod(method); err != nil {
		return nil, err
	}

	m := len(p)
	adjusted := make([]float64, m)

	switch method {
	case AdjustBonferroni:
		for i, v := range p {
			v *= float64(m)
			if v > 1 {
				v = 1
			}
			adjusted[i] = v
		}

	case AdjustBH:
		order := make([]int, m)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool { return p[order[i]] < p[order[j]] })

		// Walk from the least significant p-value down, enforcing
		// monotonicity of the step-up procedure.
		running := 1.0
		for i := m - 1; i >= 0; i-- {
			idx := order[i]
			v := p[idx] * float64(m) / float64(i+1)
			if v < running {
				running = v
			}
			adjusted[idx] = running
		}
	}

	return adjusted, nil
}
