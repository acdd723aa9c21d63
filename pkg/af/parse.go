package af

import (
	"errors"
	"fmt"
)

// ParseFramework parses an initial file, trying the explicit format
// first and falling back to the terse one. When neither accepts the
// input, both diagnostics are reported.
func ParseFramework(input string) ([]Argument, []Attack, error) {
	args, atts, apxErr := ParseAPX(input)
	if apxErr == nil {
		return args, atts, nil
	}
	args, atts, tgfErr := ParseTGF(input)
	if tgfErr == nil {
		return args, atts, nil
	}
	return nil, nil, fmt.Errorf("initial file matches neither format: %w", errors.Join(apxErr, tgfErr))
}

// ParseUpdateLine parses one update line, trying the explicit format
// first and falling back to the terse one.
func ParseUpdateLine(line string) ([]Patch, error) {
	patches, apxmErr := ParseAPXM(line)
	if apxmErr == nil {
		return patches, nil
	}
	patches, tgfmErr := ParseTGFM(line)
	if tgfmErr == nil {
		return patches, nil
	}
	return nil, fmt.Errorf("update line matches neither format: %w", errors.Join(apxmErr, tgfmErr))
}
