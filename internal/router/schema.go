package router

import (
	"fmt"
	"strings"

	"ttsd/internal/text"
	"ttsd/pkg/types"
)

// buildSchema validates a service's declared options and returns the
// normalized schema: labels get a trailing colon, and in enumerated domains
// the default value's label is annotated with "(default)". A malformed
// declaration is the engine author's bug; it surfaces as an ordinary error
// rather than taking the process down.
func buildSchema(svcID string, raw []types.Option) ([]types.Option, error) {
	schema := make([]types.Option, 0, len(raw))
	for _, opt := range raw {
		if opt.Key == "" {
			return nil, fmt.Errorf("service %s: option missing key", svcID)
		}
		if text.Normalize(opt.Key) != opt.Key {
			return nil, fmt.Errorf("service %s: option key %q is not normalized", svcID, opt.Key)
		}
		if opt.Label == "" {
			return nil, fmt.Errorf("service %s: option %s missing label", svcID, opt.Key)
		}
		hasChoices := len(opt.Choices) > 0
		switch {
		case hasChoices && opt.Range != nil:
			return nil, fmt.Errorf("service %s: option %s declares both choices and a range", svcID, opt.Key)
		case hasChoices && len(opt.Choices) < 2:
			return nil, fmt.Errorf("service %s: option %s needs at least two choices", svcID, opt.Key)
		case !hasChoices && opt.Range == nil:
			return nil, fmt.Errorf("service %s: option %s missing value domain", svcID, opt.Key)
		}
		if opt.Range != nil && opt.Range.Min > opt.Range.Max {
			return nil, fmt.Errorf("service %s: option %s has an inverted range", svcID, opt.Key)
		}
		if opt.Transform == nil {
			return nil, fmt.Errorf("service %s: option %s missing transform", svcID, opt.Key)
		}

		if !strings.HasSuffix(opt.Label, ":") {
			opt.Label += ":"
		}
		if opt.Default != nil && hasChoices {
			def := fmt.Sprint(opt.Default)
			choices := make([]types.Choice, len(opt.Choices))
			copy(choices, opt.Choices)
			for i := range choices {
				if choices[i].Value == def {
					choices[i].Label += " (default)"
				}
			}
			opt.Choices = choices
		}
		schema = append(schema, opt)
	}
	return schema, nil
}
