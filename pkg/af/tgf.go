package af

import "strings"

// ParseTGF parses the terse line-oriented initial-file format: one
// argument ID per line, a "#" separator, then one "<from> <to>" pair per
// line. A trailing "?" marks an element optional.
func ParseTGF(input string) ([]Argument, []Attack, error) {
	var args []Argument
	var atts []Attack
	inAttacks := false
	offset := 0
	for _, line := range strings.Split(input, "\n") {
		lineOffset := offset
		offset += len(line) + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "#" {
			if inAttacks {
				return nil, nil, parseErrorf(lineOffset, "second separator line")
			}
			inAttacks = true
			continue
		}
		token, optional := splitOptionalMarker(line)
		if !inAttacks {
			if !validIdent(token) {
				return nil, nil, parseErrorf(lineOffset, "invalid argument line %q", line)
			}
			args = append(args, Argument{ID: token, Optional: optional})
			continue
		}
		fields := strings.Fields(token)
		if len(fields) != 2 || !validIdent(fields[0]) || !validIdent(fields[1]) {
			return nil, nil, parseErrorf(lineOffset, "invalid attack line %q", line)
		}
		atts = append(atts, Attack{From: fields[0], To: fields[1], Optional: optional})
	}
	return args, atts, nil
}

// splitOptionalMarker strips a trailing "?" from the line, tolerating a
// space before it.
func splitOptionalMarker(line string) (string, bool) {
	if strings.HasSuffix(line, "?") {
		return strings.TrimSpace(strings.TrimSuffix(line, "?")), true
	}
	return line, false
}
