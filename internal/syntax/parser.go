package syntax

import (
	"fmt"
	"strconv"
)

// Parser is a minimal recursive-descent reader over a Lexer's token stream.
// It accepts the subset of Solidity grammar this pipeline's scenarios need
// (contracts/interfaces/libraries, inheritance, structs, enums, state
// variables, functions with the usual modifiers, and the statement/
// expression shapes named in spec §4.6/§4.5) and rejects everything else
// with a plain error — it is a stand-in for the real grammar, not a
// contender for it.
type Parser struct {
	toks []Token
	pos  int
	path string
}

// ParseFile tokenizes and parses src, returning the untyped parse tree
// described in spec §1 ("lexical parsing produces an untyped parse tree").
func ParseFile(path, src string) (*File, error) {
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p := &Parser{toks: toks, path: path}
	f := &File{Path: path, LineOffsets: LineOffsets(src)}

	for !p.atEOF() {
		switch {
		case p.atKeyword("pragma"):
			p.skipUntilSemi()
		case p.atKeyword("import"):
			p.skipUntilSemi()
		case p.atKeyword("contract") || p.atKeyword("interface") || p.atKeyword("abstract") || p.atKeyword("library"):
			cd, err := p.parseContract()
			if err != nil {
				return nil, err
			}
			f.Contracts = append(f.Contracts, *cd)
		case p.atKeyword("struct"):
			sd, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			f.Structs = append(f.Structs, *sd)
		case p.atKeyword("enum"):
			ed, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			f.Enums = append(f.Enums, *ed)
		default:
			return nil, p.errorf("unexpected top-level token %q", p.cur().Text)
		}
	}
	return f, nil
}

// --- token cursor helpers ---

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) atEOF() bool { return p.cur().Kind == TokEOF }

func (p *Parser) atKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == TokIdent && t.Text == kw
}

func (p *Parser) atPunct(s string) bool {
	t := p.cur()
	return t.Kind == TokPunct && t.Text == s
}

func (p *Parser) advance() Token {
	t := p.cur()
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return p.errorf("expected %q, got %q", s, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (Token, error) {
	if p.cur().Kind != TokIdent {
		return Token{}, p.errorf("expected identifier, got %q", p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", p.path, p.cur().Pos, fmt.Sprintf(format, args...))
}

func (p *Parser) skipUntilSemi() {
	for !p.atEOF() && !p.atPunct(";") {
		p.advance()
	}
	if p.atPunct(";") {
		p.advance()
	}
}

// --- declarations ---

func (p *Parser) parseContract() (*ContractDecl, error) {
	kind := KindContract
	if p.atKeyword("abstract") {
		p.advance()
		kind = KindAbstract
	}
	switch {
	case p.atKeyword("contract"):
		p.advance()
	case p.atKeyword("interface"):
		p.advance()
		kind = KindInterface
	case p.atKeyword("library"):
		p.advance()
		kind = KindLibrary
	default:
		return nil, p.errorf("expected contract/interface/library, got %q", p.cur().Text)
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	cd := &ContractDecl{Name: name.Text, Kind: kind, Pos: name.Pos}

	if p.atKeyword("is") {
		p.advance()
		for {
			base, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			cd.Inherit = append(cd.Inherit, base.Text)
			if p.atPunct("(") { // base constructor args, e.g. `is A(1)` — discard
				p.skipBalanced("(", ")")
			}
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}

	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") {
		if p.atEOF() {
			return nil, p.errorf("unterminated contract body")
		}
		switch {
		case p.atKeyword("struct"):
			sd, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			cd.Structs = append(cd.Structs, *sd)
		case p.atKeyword("enum"):
			ed, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			cd.Enums = append(cd.Enums, *ed)
		case p.atKeyword("function") || p.atKeyword("constructor") || p.atKeyword("fallback") || p.atKeyword("receive"):
			fd, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			cd.Functions = append(cd.Functions, *fd)
		default:
			vd, err := p.parseVarDecl()
			if err != nil {
				return nil, err
			}
			cd.Variables = append(cd.Variables, *vd)
		}
	}
	p.advance() // '}'
	return cd, nil
}

func (p *Parser) parseStruct() (*StructDecl, error) {
	p.advance() // 'struct'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	sd := &StructDecl{Name: name.Text, Pos: name.Pos}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") {
		ty, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		sd.Fields = append(sd.Fields, Param{Type: ty, Name: fname.Text, Pos: fname.Pos})
	}
	p.advance() // '}'
	return sd, nil
}

func (p *Parser) parseEnum() (*EnumDecl, error) {
	p.advance() // 'enum'
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	ed := &EnumDecl{Name: name.Text, Pos: name.Pos}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") {
		v, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ed.Variants = append(ed.Variants, v.Text)
		if p.atPunct(",") {
			p.advance()
		}
	}
	p.advance() // '}'
	return ed, nil
}

func (p *Parser) parseTypeExpr() (*TypeExpr, error) {
	t, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	te := &TypeExpr{Name: t.Text, Pos: t.Pos}
	if t.Text == "mapping" {
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		key, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("=>"); err != nil {
			return nil, err
		}
		val, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		te.Key, te.Value = key, val
		return te, nil
	}
	for p.atPunct("[") {
		p.advance()
		if p.atPunct("]") {
			te.Dims = append(te.Dims, -1)
			p.advance()
			continue
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if n.Kind != ExIntLiteral {
			return nil, p.errorf("array dimension must be an integer literal")
		}
		v, _ := strconv.ParseInt(n.Text, 10, 64)
		te.Dims = append(te.Dims, v)
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
	}
	for p.atKeyword("storage") || p.atKeyword("memory") || p.atKeyword("calldata") {
		te.Storage = p.advance().Text
	}
	return te, nil
}

func (p *Parser) parseParamList() ([]Param, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []Param
	for !p.atPunct(")") {
		ty, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		param := Param{Type: ty, Pos: ty.Pos}
		if p.cur().Kind == TokIdent && !isDeclKeyword(p.cur().Text) {
			n := p.advance()
			param.Name = n.Text
		}
		params = append(params, param)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func isDeclKeyword(s string) bool {
	switch s {
	case "public", "private", "internal", "external", "pure", "view", "payable", "virtual", "override", "returns":
		return true
	}
	return false
}

func (p *Parser) parseFunction() (*FunctionDecl, error) {
	fd := &FunctionDecl{Pos: p.cur().Pos}
	switch {
	case p.atKeyword("constructor"):
		p.advance()
		fd.Kind = "constructor"
	case p.atKeyword("fallback"):
		p.advance()
		fd.Kind = "fallback"
	case p.atKeyword("receive"):
		p.advance()
		fd.Kind = "receive"
	default:
		p.advance() // 'function'
		fd.Kind = "function"
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		fd.Name = name.Text
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	fd.Params = params

	for {
		switch {
		case p.atKeyword("public"), p.atKeyword("private"), p.atKeyword("internal"), p.atKeyword("external"):
			fd.Visibility = p.advance().Text
		case p.atKeyword("pure"), p.atKeyword("view"), p.atKeyword("payable"):
			fd.Mutability = p.advance().Text
		case p.atKeyword("virtual"):
			p.advance()
			fd.Virtual = true
		case p.atKeyword("override"):
			p.advance()
			fd.Override = true
			if p.atPunct("(") {
				p.advance()
				for !p.atPunct(")") {
					id, err := p.expectIdent()
					if err != nil {
						return nil, err
					}
					fd.OverrideOf = append(fd.OverrideOf, id.Text)
					if p.atPunct(",") {
						p.advance()
					}
				}
				p.advance() // ')'
			}
		case p.atKeyword("returns"):
			p.advance()
			rets, err := p.parseParamList()
			if err != nil {
				return nil, err
			}
			fd.Returns = rets
		default:
			goto doneMods
		}
	}
doneMods:

	if p.atPunct(";") {
		p.advance()
		return fd, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fd.Body = body
	return fd, nil
}

func (p *Parser) parseVarDecl() (*VarDecl, error) {
	ty, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	vd := &VarDecl{Type: ty, Pos: ty.Pos}
	for {
		switch {
		case p.atKeyword("public"), p.atKeyword("private"), p.atKeyword("internal"):
			vd.Visibility = p.advance().Text
		case p.atKeyword("constant"):
			p.advance()
			vd.Constant = true
		default:
			goto doneMods
		}
	}
doneMods:
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	vd.Name = name.Text
	if p.atPunct("=") {
		p.advance()
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		vd.Init = init
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return vd, nil
}

// skipBalanced consumes tokens from the current open punctuation through
// its matching close, discarding everything between (used for base
// constructor argument lists this reader does not otherwise interpret).
func (p *Parser) skipBalanced(open, close string) {
	depth := 0
	for !p.atEOF() {
		if p.atPunct(open) {
			depth++
		} else if p.atPunct(close) {
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
