package af

// ParseAPX parses the explicit initial-file format:
//
//	arg(<id>).
//	att(<from>,<to>).
//	opt(arg(<id>)).
//	opt(att(<from>,<to>)).
//
// opt markers flag a previously declared element as optional; a marker
// for an undeclared element is a malformed input.
func ParseAPX(input string) ([]Argument, []Attack, error) {
	lex := newLexer(input)
	var args []Argument
	var atts []Attack
	argIdx := make(map[ArgumentID]int)
	attIdx := make(map[[2]ArgumentID]int)

	for !lex.eof() {
		keyword, err := lex.ident()
		if err != nil {
			return nil, nil, err
		}
		switch keyword {
		case "arg":
			id, err := parseArgParens(lex)
			if err != nil {
				return nil, nil, err
			}
			if err := lex.expect('.'); err != nil {
				return nil, nil, err
			}
			argIdx[id] = len(args)
			args = append(args, Argument{ID: id})
		case "att":
			from, to, err := parseAttParens(lex)
			if err != nil {
				return nil, nil, err
			}
			if err := lex.expect('.'); err != nil {
				return nil, nil, err
			}
			attIdx[[2]ArgumentID{from, to}] = len(atts)
			atts = append(atts, Attack{From: from, To: to})
		case "opt":
			if err := lex.expect('('); err != nil {
				return nil, nil, err
			}
			inner, err := lex.ident()
			if err != nil {
				return nil, nil, err
			}
			switch inner {
			case "arg":
				id, err := parseArgParens(lex)
				if err != nil {
					return nil, nil, err
				}
				i, ok := argIdx[id]
				if !ok {
					return nil, nil, parseErrorf(lex.pos, "opt marker for undeclared argument %q", id)
				}
				args[i].Optional = true
			case "att":
				from, to, err := parseAttParens(lex)
				if err != nil {
					return nil, nil, err
				}
				i, ok := attIdx[[2]ArgumentID{from, to}]
				if !ok {
					return nil, nil, parseErrorf(lex.pos, "opt marker for undeclared attack (%s,%s)", from, to)
				}
				atts[i].Optional = true
			default:
				return nil, nil, parseErrorf(lex.pos, "expected arg or att inside opt, found %q", inner)
			}
			if err := lex.expect(')'); err != nil {
				return nil, nil, err
			}
			if err := lex.expect('.'); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, parseErrorf(lex.pos, "expected arg, att or opt, found %q", keyword)
		}
	}
	return args, atts, nil
}

func parseArgParens(lex *lexer) (ArgumentID, error) {
	if err := lex.expect('('); err != nil {
		return "", err
	}
	id, err := lex.ident()
	if err != nil {
		return "", err
	}
	if err := lex.expect(')'); err != nil {
		return "", err
	}
	return id, nil
}

func parseAttParens(lex *lexer) (ArgumentID, ArgumentID, error) {
	if err := lex.expect('('); err != nil {
		return "", "", err
	}
	from, err := lex.ident()
	if err != nil {
		return "", "", err
	}
	if err := lex.expect(','); err != nil {
		return "", "", err
	}
	to, err := lex.ident()
	if err != nil {
		return "", "", err
	}
	if err := lex.expect(')'); err != nil {
		return "", "", err
	}
	return from, to, nil
}
