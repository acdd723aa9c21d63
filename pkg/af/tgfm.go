package af

import "strings"

// ParseTGFM parses one terse update line into its patch chain. The
// leading sign selects enable or disable for the whole line; segments
// are separated by ":". A single-token segment toggles an argument, a
// "<from> <to>" segment an attack. In an enable line, attack segments
// following an argument segment are attached to that argument and
// activate in the same revision.
func ParseTGFM(line string) ([]Patch, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, parseErrorf(0, "empty update line")
	}
	var action PatchAction
	switch trimmed[0] {
	case '+':
		action = Enable
	case '-':
		action = Disable
	default:
		return nil, parseErrorf(0, "update line must start with '+' or '-'")
	}
	var patches []Patch
	lastArg := -1
	offset := 1
	for _, seg := range strings.Split(trimmed[1:], ":") {
		segOffset := offset
		offset += len(seg) + 1
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return nil, parseErrorf(segOffset, "empty update segment")
		}
		fields := strings.Fields(seg)
		switch len(fields) {
		case 1:
			if !validIdent(fields[0]) {
				return nil, parseErrorf(segOffset, "invalid argument token %q", fields[0])
			}
			if action == Enable {
				lastArg = len(patches)
				patches = append(patches, EnableArgument(fields[0]))
			} else {
				patches = append(patches, DisableArgument(fields[0]))
			}
		case 2:
			if !validIdent(fields[0]) || !validIdent(fields[1]) {
				return nil, parseErrorf(segOffset, "invalid attack segment %q", seg)
			}
			switch {
			case action == Enable && lastArg >= 0:
				patches[lastArg].With = append(patches[lastArg].With, Attack{From: fields[0], To: fields[1]})
			case action == Enable:
				patches = append(patches, EnableAttack(fields[0], fields[1]))
			default:
				patches = append(patches, DisableAttack(fields[0], fields[1]))
			}
		default:
			return nil, parseErrorf(segOffset, "invalid update segment %q", seg)
		}
	}
	return patches, nil
}
