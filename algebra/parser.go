package algebra

// Parser parses process-algebra source into a Program.
//
// Grammar, lowest to highest precedence:
//
//	program  ::= statement*
//	statement ::= IDENT '=' parallel | parallel
//	parallel ::= choice ('|' choice)*
//	choice   ::= sequence ('+' sequence)*
//	sequence ::= atom ('.' atom)*
//	atom     ::= IDENT | STOP | '(' parallel ')'
//
// References are not resolved here; forward and self references are legal
// and left to the net builder.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
	err   error
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	if p.err != nil {
		return
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.err = err
		tok = Token{Type: TokenEOF, Pos: len(p.lexer.input)}
	}
	p.peek = tok
}

func (p *Parser) fail(expected string) error {
	if p.err != nil {
		return p.err
	}
	return &ParseError{Pos: p.cur.Pos, Got: p.cur, Expected: expected}
}

// Parse parses the input and returns the resulting Program.
func Parse(input string) (*Program, error) {
	p := NewParser(input)
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{byName: make(map[string]*Definition)}

	for p.cur.Type != TokenEOF {
		if p.cur.Type == TokenIdent && p.peek.Type == TokenEquals {
			def, err := p.parseDefinition()
			if err != nil {
				return nil, err
			}
			if prog.byName[def.Name] != nil {
				return nil, &ParseError{
					Pos:      def.Pos,
					Got:      Token{Type: TokenIdent, Literal: def.Name, Pos: def.Pos},
					Expected: "a unique process name (" + def.Name + " is already defined)",
				}
			}
			prog.Definitions = append(prog.Definitions, def)
			prog.byName[def.Name] = def
			continue
		}

		// A bare expression is the MAIN expression; last one wins.
		expr, err := p.parseParallel()
		if err != nil {
			return nil, err
		}
		prog.Main = expr
	}

	if p.err != nil {
		return nil, p.err
	}

	// Identifiers that name a process definition, including forward and
	// self references, become Ref nodes. Resolution stays name-based so
	// cyclic reference graphs never become cyclic object graphs.
	for _, def := range prog.Definitions {
		def.Body = classify(def.Body, prog.byName)
	}
	if prog.Main != nil {
		prog.Main = classify(prog.Main, prog.byName)
	}
	return prog, nil
}

func classify(e Expr, defs map[string]*Definition) Expr {
	switch n := e.(type) {
	case *Action:
		if defs[n.Name] != nil {
			return &Ref{Name: n.Name, Pos: n.Pos}
		}
		return n
	case *Sequence:
		n.Left = classify(n.Left, defs)
		n.Right = classify(n.Right, defs)
		return n
	case *Choice:
		n.Left = classify(n.Left, defs)
		n.Right = classify(n.Right, defs)
		return n
	case *Parallel:
		n.Left = classify(n.Left, defs)
		n.Right = classify(n.Right, defs)
		return n
	default:
		return e
	}
}

func (p *Parser) parseDefinition() (*Definition, error) {
	def := &Definition{Name: p.cur.Literal, Pos: p.cur.Pos}
	p.nextToken() // name
	p.nextToken() // '='
	body, err := p.parseParallel()
	if err != nil {
		return nil, err
	}
	def.Body = body
	return def, nil
}

func (p *Parser) parseParallel() (Expr, error) {
	left, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenPipe {
		p.nextToken()
		right, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		left = &Parallel{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseChoice() (Expr, error) {
	left, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenPlus {
		p.nextToken()
		right, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		left = &Choice{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseSequence() (Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenDot {
		p.nextToken()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &Sequence{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAtom() (Expr, error) {
	switch p.cur.Type {
	case TokenIdent:
		name := p.cur.Literal
		pos := p.cur.Pos
		p.nextToken()
		// An identifier is ambiguous until every definition has been
		// seen: classify() rewrites it to a Ref if the name turns out
		// to be a process.
		return &Action{Name: name, Pos: pos}, nil

	case TokenStop:
		p.nextToken()
		return &Stop{}, nil

	case TokenLParen:
		p.nextToken()
		inner, err := p.parseParallel()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != TokenRParen {
			return nil, p.fail("')'")
		}
		p.nextToken()
		return inner, nil

	default:
		return nil, p.fail("an identifier, STOP, or '('")
	}
}
