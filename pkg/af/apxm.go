package af

// ParseAPXM parses one explicit update line into its patch chain:
//
//	+arg(<id>)[:att(<from>,<to>)]...
//	-arg(<id>).
//	+att(<from>,<to>).
//	-att(<from>,<to>).
//
// The leading sign selects enable or disable for the whole line;
// segments are separated by ":" and the line ends with ".". In an
// enable line, att segments following an arg segment are attached to
// that argument and activate in the same revision.
func ParseAPXM(line string) ([]Patch, error) {
	lex := newLexer(line)
	action, err := parseLineSign(lex)
	if err != nil {
		return nil, err
	}
	var patches []Patch
	lastArg := -1
	for {
		keyword, err := lex.ident()
		if err != nil {
			return nil, err
		}
		switch keyword {
		case "arg":
			id, err := parseArgParens(lex)
			if err != nil {
				return nil, err
			}
			if action == Enable {
				lastArg = len(patches)
				patches = append(patches, EnableArgument(id))
			} else {
				patches = append(patches, DisableArgument(id))
			}
		case "att":
			from, to, err := parseAttParens(lex)
			if err != nil {
				return nil, err
			}
			switch {
			case action == Enable && lastArg >= 0:
				patches[lastArg].With = append(patches[lastArg].With, Attack{From: from, To: to})
			case action == Enable:
				patches = append(patches, EnableAttack(from, to))
			default:
				patches = append(patches, DisableAttack(from, to))
			}
		default:
			return nil, parseErrorf(lex.pos, "expected arg or att, found %q", keyword)
		}
		if lex.peek(':') {
			_ = lex.expect(':')
			continue
		}
		if err := lex.expect('.'); err != nil {
			return nil, err
		}
		break
	}
	if !lex.eof() {
		return nil, parseErrorf(lex.pos, "trailing input after update line")
	}
	return patches, nil
}

func parseLineSign(lex *lexer) (PatchAction, error) {
	switch {
	case lex.peek('+'):
		_ = lex.expect('+')
		return Enable, nil
	case lex.peek('-'):
		_ = lex.expect('-')
		return Disable, nil
	default:
		return Enable, parseErrorf(lex.pos, "update line must start with '+' or '-'")
	}
}
