package specparser

import (
	"fmt"

	"github.com/nihei9/declex/arena"
	"github.com/nihei9/declex/ast"
	"github.com/nihei9/declex/diag"
)

// IgnoreToken is the sentinel token-order-list entry representing the
// "ignore" pseudo-token.
const IgnoreToken = "!"

// Result is everything the spec parser produces: the shared augmented AST,
// the class lookup table, the token-order list, and the accepting map
// (spec.md §3's four parser-owned data structures).
type Result struct {
	Tree       *ast.Tree
	Classes    *ClassTable
	TokenOrder []string
	Accepting  map[ast.Position]string
}

// Parser is a recursive-descent parser over the grammar in spec.md §4.C,
// grounded on the teacher's grammar/lexical/parser/parser.go: routines
// raise a diagnostic by panicking with *diag.SpecError, recovered once at
// the top of Parse.
type Parser struct {
	lex  *Lexer
	path string

	tree      *ast.Tree
	classes   *ClassTable
	tokenNms  map[string]bool
	tokenOrd  []string
	accepting map[ast.Position]string

	root    arena.Position
	hasRoot bool
}

// NewParser returns a Parser over src. path is used only for diagnostics.
func NewParser(src, path string) *Parser {
	return &Parser{
		lex:       NewLexer(src),
		path:      path,
		tree:      ast.NewTree(),
		classes:   NewClassTable(),
		tokenNms:  map[string]bool{},
		accepting: map[ast.Position]string{},
		root:      arena.PositionNil,
	}
}

func (p *Parser) fail(cause error, tok Token) {
	panic(&diag.SpecError{
		Cause:  cause,
		Path:   p.path,
		Line:   tok.Line,
		Col:    tok.Col,
		Lexeme: tok.Lexeme,
	})
}

func (p *Parser) peek() Token {
	tok, err := p.lex.Peek()
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *Parser) get() Token {
	tok, err := p.lex.Get()
	if err != nil {
		panic(err)
	}
	return tok
}

// expect consumes the next token if it has kind k, returning it; otherwise
// it fails with ErrUnexpectedToken.
func (p *Parser) expect(k TokenKind) Token {
	tok := p.peek()
	if tok.Kind != k {
		p.fail(fmt.Errorf("%w: expected %s, found %s %q", ErrUnexpectedToken, k, tok.Kind, tok.Lexeme), tok)
	}
	return p.get()
}

// accept consumes the next token if it has kind k, reporting whether it
// did.
func (p *Parser) accept(k TokenKind) (Token, bool) {
	tok := p.peek()
	if tok.Kind != k {
		return Token{}, false
	}
	return p.get(), true
}

// Parse runs stmtList over the whole input and returns the finished
// Result, or the first diagnostic encountered.
func (p *Parser) Parse() (res *Result, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				panic(r)
			}
			retErr = err
		}
	}()

	p.parseStmtList()

	if !p.hasRoot {
		p.fail(ErrNoTokenDefinitions, p.peek())
	}

	// Unconditional trailing "!" per spec.md §4.C "After all statements".
	p.tokenOrd = append(p.tokenOrd, IgnoreToken)

	if p.hasRoot {
		// The outer augmenting '#' required by invariant 1. It is never
		// recorded in the accepting map: the DFA builder stops and marks a
		// state accepting the moment it sees a '#' symbol (spec.md §4.G),
		// so this leaf's own followpos entries are never consulted — it
		// exists only to keep the AST's literal shape in line with the
		// Aho-Sethi-Ullman construction, not to grant acceptance itself.
		outerHash := p.tree.NewCharacter(ast.EndMarker)
		p.root = p.tree.NewConcat(p.root, outerHash)
	}

	return &Result{
		Tree:       p.tree,
		Classes:    p.classes,
		TokenOrder: p.tokenOrd,
		Accepting:  p.accepting,
	}, nil
}

func (p *Parser) parseStmtList() {
	for {
		tok := p.peek()
		switch tok.Kind {
		case KindClass:
			p.parseClassStmt()
		case KindToken:
			p.parseTokenStmt()
		case KindIgnore:
			p.parseIgnoreStmt()
		case KindEOI:
			return
		default:
			p.fail(fmt.Errorf("%w: expected class, token, or ignore, found %q", ErrUnexpectedToken, tok.Lexeme), tok)
		}
	}
}

func (p *Parser) parseIdentifier() (string, Token) {
	tok := p.peek()
	if tok.Kind != KindCharacters {
		p.fail(fmt.Errorf("%w, found %q", ErrExpectedIdentifier, tok.Lexeme), tok)
	}
	if !isValidIdentifier(tok.Lexeme) {
		p.fail(fmt.Errorf("%w: %q", ErrInvalidIdentifier, tok.Lexeme), tok)
	}
	p.get()
	return tok.Lexeme, tok
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentCont(r) {
			return false
		}
	}
	return true
}

// parseClassStmt implements:
//
//	classStmt → 'class' IDENT ( '[' | '[^' ) cItem* (']' | '-]')
func (p *Parser) parseClassStmt() {
	p.expect(KindClass)
	name, _ := p.parseIdentifier()

	var op ClassOperator
	switch tok := p.peek(); tok.Kind {
	case KindBracketOpen:
		p.get()
		op = Include
	case KindBracketOpenNegate:
		p.get()
		op = Negate
	default:
		p.fail(fmt.Errorf("%w, found %q", ErrExpectedBracketOpen, tok.Lexeme), tok)
	}

	entry := &ClassSetEntry{Chars: map[byte]bool{}, Operator: op}
	for {
		tok := p.peek()
		switch tok.Kind {
		case KindCharacters:
			p.get()
			for _, c := range []byte(tok.Lexeme) {
				entry.Chars[c] = true
			}
		case KindCharacterRange:
			p.get()
			lo, hi := tok.Lexeme[0], tok.Lexeme[2]
			if hi < lo {
				p.fail(fmt.Errorf("%w: %q", ErrInvalidRange, tok.Lexeme), tok)
			}
			for c := lo; ; c++ {
				entry.Chars[c] = true
				if c == hi {
					break
				}
			}
		case KindBracketClose, KindDashBracketClose:
			p.get()
			p.classes.Declare(name, entry)
			return
		default:
			p.fail(fmt.Errorf("%w, found %q", ErrExpectedBracketClose, tok.Lexeme), tok)
		}
	}
}

// parseTokenStmt implements: tokenStmt → 'token' IDENT '/' regex '/'
func (p *Parser) parseTokenStmt() {
	p.expect(KindToken)
	name, nameTok := p.parseIdentifier()
	if p.tokenNms[name] {
		p.fail(fmt.Errorf("%w: %q", ErrDuplicateToken, name), nameTok)
	}
	p.tokenNms[name] = true

	p.expect(KindForwardSlash)
	body := p.parseRegex()
	p.expect(KindForwardSlash)

	p.finishTokenSubtree(body, name)
	p.tokenOrd = append(p.tokenOrd, name)
}

// parseIgnoreStmt implements: ignoreStmt → 'ignore' '/' regex '/'
func (p *Parser) parseIgnoreStmt() {
	p.expect(KindIgnore)
	p.expect(KindForwardSlash)
	body := p.parseRegex()
	p.expect(KindForwardSlash)

	p.finishTokenSubtree(body, IgnoreToken)
}

// finishTokenSubtree implements spec.md §4.C's token/ignore post-processing:
// append a fresh '#' leaf, record it in the accepting map, wrap as
// Concat(body, #), and union it onto the running root.
func (p *Parser) finishTokenSubtree(body arena.Position, tokenID string) {
	hashLeaf := p.tree.NewCharacter(ast.EndMarker)
	p.accepting[hashLeaf] = tokenID
	subtree := p.tree.NewConcat(body, hashLeaf)

	if p.hasRoot {
		p.root = p.tree.NewUnion(p.root, subtree)
	} else {
		p.root = subtree
		p.hasRoot = true
	}
}

// regex → rTerm ('|' regex)?
func (p *Parser) parseRegex() arena.Position {
	left := p.parseTerm()
	if tok := p.peek(); tok.Kind == KindPipe {
		p.get()
		if next := p.peek(); next.Kind == KindForwardSlash || next.Kind == KindParenClose || next.Kind == KindEOI {
			p.fail(ErrDanglingUnion, next)
		}
		right := p.parseRegex()
		return p.tree.NewUnion(left, right)
	}
	return left
}

// rTerm → rClosure rTerm?
func (p *Parser) parseTerm() arena.Position {
	left := p.parseClosure()
	if p.startsFactor(p.peek()) {
		right := p.parseTerm()
		return p.tree.NewConcat(left, right)
	}
	return left
}

func (p *Parser) startsFactor(tok Token) bool {
	switch tok.Kind {
	case KindCharacters, KindBracketOpen, KindParenOpen:
		return true
	default:
		return false
	}
}

// rClosure → rFactor ('*' | '+' | '?')?
func (p *Parser) parseClosure() arena.Position {
	operand := p.parseFactor()
	switch tok := p.peek(); tok.Kind {
	case KindStar:
		p.get()
		return p.tree.NewStar(operand)
	case KindPlus:
		p.get()
		return p.tree.NewPlus(operand)
	case KindQuestion:
		p.get()
		return p.tree.NewQuestion(operand)
	default:
		return operand
	}
}

// rFactor → CHAR | '[' IDENT ']' | '(' regex ')'
//
// The lexer is switched into Regex mode for exactly the single-token
// look-ahead this routine needs, then restored to Default mode before
// returning, per spec.md §4.C/§9's "acquire-on-entry, release-on-exit"
// contract.
func (p *Parser) parseFactor() arena.Position {
	p.lex.Mode = ModeRegex
	tok := p.peek()
	p.lex.Mode = ModeDefault

	switch tok.Kind {
	case KindCharacters:
		p.withRegexMode(func() { p.get() })
		if r := []rune(tok.Lexeme); len(r) == 1 && r[0] > AsciiMax {
			p.fail(fmt.Errorf("%w: %q", ErrNonASCIICharacter, tok.Lexeme), tok)
		}
		if len(tok.Lexeme) != 1 {
			p.fail(ErrMultiCharAtom, tok)
		}
		return p.tree.NewCharacter(tok.Lexeme[0])
	case KindBracketOpen:
		p.withRegexMode(func() { p.get() })
		name, nameTok := p.parseClassReference()
		if _, ok := p.classes.Lookup(name); !ok {
			p.fail(fmt.Errorf("%w: %q", ErrUndefinedClass, name), nameTok)
		}
		p.withRegexMode(func() {
			if t := p.peek(); t.Kind != KindBracketClose {
				p.fail(fmt.Errorf("%w, found %q", ErrExpectedBracketClose, t.Lexeme), t)
			}
			p.get()
		})
		return p.tree.NewClassRef(name)
	case KindParenOpen:
		p.withRegexMode(func() { p.get() })
		inner := p.parseRegex()
		p.withRegexMode(func() {
			if t := p.peek(); t.Kind != KindParenClose {
				p.fail(fmt.Errorf("%w, found %q", ErrExpectedParenClose, t.Lexeme), t)
			}
			p.get()
		})
		return inner
	default:
		p.fail(fmt.Errorf("%w: expected a regex atom, found %q", ErrUnexpectedToken, tok.Lexeme), tok)
		panic("unreachable")
	}
}

// withRegexMode scopes fn to Regex mode, guaranteeing Default mode is
// restored even when fn panics with a diagnostic.
func (p *Parser) withRegexMode(fn func()) {
	prev := p.lex.Mode
	p.lex.Mode = ModeRegex
	defer func() { p.lex.Mode = prev }()
	fn()
}

// parseClassReference reads the bare identifier of a '[' IDENT ']' class
// reference (the brackets themselves are consumed by the caller).
func (p *Parser) parseClassReference() (string, Token) {
	tok := p.peek()
	if tok.Kind != KindCharacters {
		p.fail(fmt.Errorf("%w, found %q", ErrExpectedIdentifier, tok.Lexeme), tok)
	}
	if !isValidIdentifier(tok.Lexeme) {
		p.fail(fmt.Errorf("%w: %q", ErrInvalidIdentifier, tok.Lexeme), tok)
	}
	p.get()
	return tok.Lexeme, tok
}
