package router

import (
	"fmt"
	"strings"

	"ttsd/internal/text"
	"ttsd/pkg/types"
)

// validateOptions normalizes a raw caller option map against a schema.
// Unknown keys are silently dropped; known keys are transformed and
// domain-checked; absent keys pick up the schema default or are reported as
// required. It returns either the fully normalized+defaulted map, or the
// accumulated problem strings.
func validateOptions(raw map[string]any, schema []types.Option) (map[string]any, []string) {
	keyed := make(map[string]any, len(raw))
	for k, v := range raw {
		keyed[text.Normalize(k)] = v
	}

	out := make(map[string]any, len(schema))
	var problems []string
	for _, opt := range schema {
		rawVal, present := keyed[opt.Key]
		if !present {
			if opt.Default != nil {
				out[opt.Key] = opt.Default
			} else {
				problems = append(problems, fmt.Sprintf("'%s' option is required", opt.Key))
			}
			continue
		}

		val, err := opt.Transform(rawVal)
		if err == nil && opt.Range != nil {
			var f float64
			if f, err = toFloat(val); err == nil && (f < opt.Range.Min || f > opt.Range.Max) {
				err = fmt.Errorf("outside of %g..%g", opt.Range.Min, opt.Range.Max)
			}
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid value '%v' for '%s' option (%v)", rawVal, opt.Key, err))
			continue
		}
		if len(opt.Choices) > 0 && !choiceAllowed(opt.Choices, val) {
			problems = append(problems, fmt.Sprintf("'%v' is not an option for '%s' (try %s)",
				rawVal, opt.Key, strings.Join(choiceValues(opt.Choices), ", ")))
			continue
		}
		out[opt.Key] = val
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return out, nil
}

func choiceAllowed(choices []types.Choice, val any) bool {
	s := fmt.Sprint(val)
	for _, c := range choices {
		if c.Value == s {
			return true
		}
	}
	return false
}

func choiceValues(choices []types.Choice) []string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return vals
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("not a number")
	}
}
