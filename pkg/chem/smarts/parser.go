package smarts

import (
	"github.com/heliumchem/helium/pkg/chem"
)

// The SMARTS parser mirrors the SMILES reader's structure: one pass over the
// input with a branch stack and a ring-closure table, but atoms and bonds
// become constraint expressions instead of graph attributes.  Operator
// precedence inside brackets, low to high: ';' (and), ',' (or), '&' or
// juxtaposition (and), '!' (not).

type ringOpen struct {
	atom      int
	expr      *bondExpr // nil when no bond expression was written
	component int
	pos       int
}

type smartsParser struct {
	input     string
	pos       int
	pat       *Pattern
	prev      int
	bond      *bondExpr // pending bond expression, nil when none
	stack     []int
	rings     map[int]ringOpen
	component int
}

func parse(text string) (*Pattern, error) {
	p := &smartsParser{input: text, pat: &Pattern{}, prev: -1, rings: make(map[int]ringOpen)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.pat, nil
}

func (p *smartsParser) syntaxError(msg string, pos, length int) error {
	return chem.NewParseError(chem.SyntaxError, msg, p.input, pos, length)
}

func (p *smartsParser) semanticsError(msg string, pos, length int) error {
	return chem.NewParseError(chem.SemanticsError, msg, p.input, pos, length)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isBondStart reports whether c can begin a bond expression between atoms.
func isBondStart(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '~', '@', '/', '\\', '!':
		return true
	}
	return false
}

func (p *smartsParser) parse() error {
	if len(p.input) == 0 {
		return p.syntaxError("empty SMARTS", 0, 1)
	}

	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == ' ' || c == '\t':
			p.pos = len(p.input)

		case c == '(':
			if p.prev < 0 {
				return p.syntaxError("branch start with no preceding atom", p.pos, 1)
			}
			if p.bond != nil {
				return p.syntaxError("bond expression before branch start", p.pos, 1)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++

		case c == ')':
			if len(p.stack) == 0 {
				return p.syntaxError("unmatched branch close", p.pos, 1)
			}
			if p.bond != nil {
				return p.syntaxError("dangling bond expression before branch close", p.pos, 1)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++

		case c == '.':
			if p.bond != nil {
				return p.syntaxError("bond expression before dot", p.pos, 1)
			}
			if len(p.stack) != 0 {
				return p.syntaxError("component separator inside branch", p.pos, 1)
			}
			if p.prev < 0 {
				return p.syntaxError("component separator with no preceding atom", p.pos, 1)
			}
			p.prev = -1
			p.component++
			p.pos++

		case isDigit(c):
			if err := p.ringBond(int(c - '0')); err != nil {
				return err
			}
			p.pos++

		case c == '%':
			if p.pos+2 >= len(p.input) || !isDigit(p.input[p.pos+1]) || !isDigit(p.input[p.pos+2]) {
				return p.syntaxError("two digits expected after %", p.pos, 1)
			}
			number := int(p.input[p.pos+1]-'0')*10 + int(p.input[p.pos+2]-'0')
			if err := p.ringBond(number); err != nil {
				return err
			}
			p.pos += 3

		case isBondStart(c):
			if p.bond != nil {
				return p.syntaxError("two consecutive bond expressions", p.pos, 1)
			}
			if p.prev < 0 {
				return p.syntaxError("bond expression with no preceding atom", p.pos, 1)
			}
			expr, err := p.parseBondExpr()
			if err != nil {
				return err
			}
			p.bond = expr

		default:
			expr, err := p.parseAtom()
			if err != nil {
				return err
			}
			atom := p.pat.addAtom(expr, p.component)
			if p.prev >= 0 {
				p.pat.addBond(p.prev, atom, p.takeBond())
			}
			p.bond = nil
			p.prev = atom
		}
	}

	if p.bond != nil {
		return p.syntaxError("dangling bond expression at end of input", len(p.input)-1, 1)
	}
	if len(p.stack) != 0 {
		return p.syntaxError("unclosed branch", len(p.input)-1, 1)
	}
	for _, open := range p.rings {
		return p.semanticsError("unmatched ring bond", open.pos, 1)
	}
	if len(p.pat.atoms) == 0 {
		return p.syntaxError("no atoms in SMARTS", 0, 1)
	}
	if p.prev < 0 {
		return p.syntaxError("trailing component separator", len(p.input)-1, 1)
	}
	return nil
}

// takeBond consumes the pending bond expression, substituting the default
// single-or-aromatic bond when none was written.
func (p *smartsParser) takeBond() *bondExpr {
	b := p.bond
	p.bond = nil
	if b == nil {
		b = bondLeaf(bondDefault)
	}
	return b
}

// ringBond opens or closes the numbered ring closure on the current atom.
func (p *smartsParser) ringBond(number int) error {
	if p.prev < 0 {
		return p.syntaxError("ring bond with no preceding atom", p.pos, 1)
	}

	open, ok := p.rings[number]
	if !ok {
		p.rings[number] = ringOpen{atom: p.prev, expr: p.bond, component: p.component, pos: p.pos}
		p.bond = nil
		return nil
	}
	delete(p.rings, number)

	if open.atom == p.prev {
		return p.semanticsError("ring bond to self", p.pos, 1)
	}
	if open.component != p.component {
		return p.semanticsError("ring bond across disconnected components", p.pos, 1)
	}

	expr := p.bond
	p.bond = nil
	if expr == nil {
		expr = open.expr
	} else if open.expr != nil && !bondExprEqual(open.expr, expr) {
		return p.semanticsError("conflicting ring bond expressions", p.pos, 1)
	}
	if expr == nil {
		expr = bondLeaf(bondDefault)
	}

	p.pat.addBond(open.atom, p.prev, expr)
	return nil
}

// bondExprEqual reports structural equality of two bond expressions, used to
// accept ring closures that repeat the same bond on both ends.
func bondExprEqual(a, b *bondExpr) bool {
	if a.op != b.op || a.prim != b.prim || len(a.args) != len(b.args) {
		return false
	}
	for i := range a.args {
		if !bondExprEqual(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Atom expressions
// ─────────────────────────────────────────────────────────────────────────────

// parseAtom consumes one atom token: a shorthand symbol or a bracket
// expression.
func (p *smartsParser) parseAtom() (*atomExpr, error) {
	c := p.input[p.pos]

	if c == '[' {
		return p.parseBracket()
	}

	if p.pos+1 < len(p.input) {
		switch p.input[p.pos : p.pos+2] {
		case "Cl", "Br":
			element := chem.ElementNumber(p.input[p.pos : p.pos+2])
			p.pos += 2
			return atomLeaf(primAliphaticElement, element), nil
		}
	}

	switch c {
	case '*':
		p.pos++
		return atomLeaf(primAny, 0), nil
	case 'a':
		p.pos++
		return atomLeaf(primAromatic, 0), nil
	case 'A':
		p.pos++
		return atomLeaf(primAliphatic, 0), nil
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		return atomLeaf(primAliphaticElement, chem.ElementNumber(string(c))), nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		return atomLeaf(primAromaticElement, chem.AromaticElementNumber(string(c))), nil
	}

	return nil, p.syntaxError("unexpected character", p.pos, 1)
}

// parseBracket consumes "[expr]" and returns the compiled expression.
func (p *smartsParser) parseBracket() (*atomExpr, error) {
	start := p.pos
	p.pos++ // consume '['

	expr, err := p.parseAtomLowAnd(true)
	if err != nil {
		return nil, err
	}

	if p.pos >= len(p.input) || p.input[p.pos] != ']' {
		return nil, p.syntaxError("unclosed bracket atom", start, 1)
	}
	p.pos++
	return expr, nil
}

func (p *smartsParser) parseAtomLowAnd(first bool) (*atomExpr, error) {
	left, err := p.parseAtomOr(first)
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) && p.input[p.pos] == ';' {
		p.pos++
		right, err := p.parseAtomOr(false)
		if err != nil {
			return nil, err
		}
		left = atomAnd(left, right)
	}
	return left, nil
}

func (p *smartsParser) parseAtomOr(first bool) (*atomExpr, error) {
	left, err := p.parseAtomHighAnd(first)
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) && p.input[p.pos] == ',' {
		p.pos++
		right, err := p.parseAtomHighAnd(false)
		if err != nil {
			return nil, err
		}
		left = atomOr(left, right)
	}
	return left, nil
}

// parseAtomHighAnd handles both the explicit '&' and the implicit and of
// adjacent primitives.
func (p *smartsParser) parseAtomHighAnd(first bool) (*atomExpr, error) {
	left, err := p.parseAtomUnary(first)
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '&' {
			p.pos++
		} else if c == ']' || c == ';' || c == ',' {
			break
		}
		right, err := p.parseAtomUnary(false)
		if err != nil {
			return nil, err
		}
		left = atomAnd(left, right)
	}
	return left, nil
}

func (p *smartsParser) parseAtomUnary(first bool) (*atomExpr, error) {
	if p.pos < len(p.input) && p.input[p.pos] == '!' {
		p.pos++
		arg, err := p.parseAtomUnary(false)
		if err != nil {
			return nil, err
		}
		return atomNot(arg), nil
	}
	return p.parseAtomPrimitive(first)
}

// parseAtomPrimitive consumes one primitive inside a bracket expression.
// first is true only at the head of the expression, where 'H' reads as the
// hydrogen element ([H], [2H]) instead of a total-hydrogen count.
func (p *smartsParser) parseAtomPrimitive(first bool) (*atomExpr, error) {
	if p.pos >= len(p.input) {
		return nil, p.syntaxError("unterminated atom expression", len(p.input)-1, 1)
	}
	c := p.input[p.pos]

	switch {
	case isDigit(c):
		isotope := p.number()
		// A leading isotope keeps 'H' readable as the hydrogen element.
		if first && p.pos < len(p.input) && p.input[p.pos] == 'H' {
			p.pos++
			return atomAnd(
				atomLeaf(primIsotope, isotope),
				atomLeaf(primAliphaticElement, chem.Hydrogen),
			), nil
		}
		return atomLeaf(primIsotope, isotope), nil

	case c == '*':
		p.pos++
		return atomLeaf(primAny, 0), nil

	case c == '#':
		p.pos++
		if p.pos >= len(p.input) || !isDigit(p.input[p.pos]) {
			return nil, p.syntaxError("atomic number expected after #", p.pos, 1)
		}
		return atomLeaf(primElement, p.number()), nil

	case c == '+' || c == '-':
		return atomLeaf(primCharge, p.charge()), nil

	case c == '$':
		return p.parseRecursive()

	case c == '@':
		// Chirality is accepted and ignored, matching the SMILES reader.
		for p.pos < len(p.input) && p.input[p.pos] == '@' {
			p.pos++
		}
		return atomLeaf(primAny, 0), nil

	case c == ':':
		p.pos++
		if p.pos >= len(p.input) || !isDigit(p.input[p.pos]) {
			return nil, p.syntaxError("atom class expects a number", p.pos, 1)
		}
		p.number() // atom maps carry no matching constraint
		return atomLeaf(primAny, 0), nil

	case c == 'H' && first:
		p.pos++
		return atomLeaf(primAliphaticElement, chem.Hydrogen), nil

	case c == 'H':
		p.pos++
		return atomLeaf(primTotalH, p.optionalNumber(1)), nil

	case c == 'h':
		p.pos++
		return atomLeaf(primImplicitH, p.optionalNumber(valueAtLeastOne)), nil

	case c == 'D':
		p.pos++
		return atomLeaf(primDegree, p.optionalNumber(1)), nil

	case c == 'v':
		p.pos++
		return atomLeaf(primValence, p.optionalNumber(1)), nil

	case c == 'X':
		p.pos++
		return atomLeaf(primConnectivity, p.optionalNumber(1)), nil

	case c == 'R':
		p.pos++
		return atomLeaf(primRingMembership, p.optionalNumber(valueAtLeastOne)), nil

	case c == 'r':
		p.pos++
		return atomLeaf(primRingSize, p.optionalNumber(valueAtLeastOne)), nil

	case c == 'x':
		p.pos++
		return atomLeaf(primRingConnectivity, p.optionalNumber(valueAtLeastOne)), nil

	case c == 'a':
		if expr := p.aromaticTwoLetter(); expr != nil {
			return expr, nil
		}
		p.pos++
		return atomLeaf(primAromatic, 0), nil

	case c == 'A':
		if expr := p.elementTwoLetter(); expr != nil {
			return expr, nil
		}
		p.pos++
		return atomLeaf(primAliphatic, 0), nil

	case c >= 'A' && c <= 'Z':
		if expr := p.elementTwoLetter(); expr != nil {
			return expr, nil
		}
		element := chem.ElementNumber(string(c))
		if element == 0 {
			return nil, p.syntaxError("unknown element symbol", p.pos, 1)
		}
		p.pos++
		return atomLeaf(primAliphaticElement, element), nil

	case c >= 'b' && c <= 'z':
		if expr := p.aromaticTwoLetter(); expr != nil {
			return expr, nil
		}
		element := chem.AromaticElementNumber(string(c))
		if element == 0 {
			return nil, p.syntaxError("unknown atom primitive", p.pos, 1)
		}
		p.pos++
		return atomLeaf(primAromaticElement, element), nil
	}

	return nil, p.syntaxError("unknown atom primitive", p.pos, 1)
}

// elementTwoLetter tries a two-letter element symbol at the cursor (Cl, Se,
// As, ...).  Returns nil when the next two bytes are not one.
func (p *smartsParser) elementTwoLetter() *atomExpr {
	if p.pos+1 >= len(p.input) {
		return nil
	}
	next := p.input[p.pos+1]
	if next < 'a' || next > 'z' {
		return nil
	}
	element := chem.ElementNumber(p.input[p.pos : p.pos+2])
	if element == 0 {
		return nil
	}
	p.pos += 2
	return atomLeaf(primAliphaticElement, element)
}

// aromaticTwoLetter tries the two-letter aromatic symbols (se, as).
func (p *smartsParser) aromaticTwoLetter() *atomExpr {
	if p.pos+1 >= len(p.input) {
		return nil
	}
	element := chem.AromaticElementNumber(p.input[p.pos : p.pos+2])
	if element == 0 {
		return nil
	}
	p.pos += 2
	return atomLeaf(primAromaticElement, element)
}

// parseRecursive consumes "$(...)" and compiles the nested pattern.
func (p *smartsParser) parseRecursive() (*atomExpr, error) {
	start := p.pos
	p.pos++ // consume '$'
	if p.pos >= len(p.input) || p.input[p.pos] != '(' {
		return nil, p.syntaxError("recursive SMARTS expects (", p.pos, 1)
	}

	depth := 0
	end := -1
	for i := p.pos; i < len(p.input); i++ {
		switch p.input[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, p.syntaxError("unclosed recursive SMARTS", start, 1)
	}

	inner := p.input[p.pos+1 : end]
	sub, err := parse(inner)
	if err != nil {
		// Re-anchor the nested diagnostic onto the full input.
		if pe, ok := err.(*chem.ParseError); ok {
			return nil, chem.NewParseError(pe.Type, pe.Msg, p.input, p.pos+1+pe.Pos, pe.Length)
		}
		return nil, err
	}
	if sub.NumComponents() > 1 {
		return nil, p.semanticsError("disconnected recursive SMARTS", start, end-start+1)
	}
	sub.analyze()

	p.pos = end + 1
	return &atomExpr{op: opLeaf, prim: primRecursive, sub: sub}, nil
}

// charge consumes a run of '+' or '-' signs with an optional count,
// returning the net formal charge ("++" is +2, "-3" is -3).
func (p *smartsParser) charge() int {
	charge := 0
	for p.pos < len(p.input) && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
		sign := 1
		if p.input[p.pos] == '-' {
			sign = -1
		}
		p.pos++
		if p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			charge += sign * p.number()
		} else {
			charge += sign
		}
	}
	return charge
}

// optionalNumber consumes digits if present, otherwise returns fallback.
func (p *smartsParser) optionalNumber(fallback int) int {
	if p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		return p.number()
	}
	return fallback
}

// number consumes a run of digits.  The caller must ensure the first byte is
// a digit.
func (p *smartsParser) number() int {
	n := 0
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		n = n*10 + int(p.input[p.pos]-'0')
		p.pos++
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Bond expressions
// ─────────────────────────────────────────────────────────────────────────────

// parseBondExpr consumes a full bond expression between two atoms.
func (p *smartsParser) parseBondExpr() (*bondExpr, error) {
	left, err := p.parseBondOr()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) && p.input[p.pos] == ';' {
		p.pos++
		right, err := p.parseBondOr()
		if err != nil {
			return nil, err
		}
		left = bondAnd(left, right)
	}
	return left, nil
}

func (p *smartsParser) parseBondOr() (*bondExpr, error) {
	left, err := p.parseBondHighAnd()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) && p.input[p.pos] == ',' {
		p.pos++
		right, err := p.parseBondHighAnd()
		if err != nil {
			return nil, err
		}
		left = bondOr(left, right)
	}
	return left, nil
}

func (p *smartsParser) parseBondHighAnd() (*bondExpr, error) {
	left, err := p.parseBondUnary()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '&' {
			p.pos++
		} else if !isBondStart(c) {
			break
		}
		right, err := p.parseBondUnary()
		if err != nil {
			return nil, err
		}
		left = bondAnd(left, right)
	}
	return left, nil
}

func (p *smartsParser) parseBondUnary() (*bondExpr, error) {
	if p.pos < len(p.input) && p.input[p.pos] == '!' {
		p.pos++
		arg, err := p.parseBondUnary()
		if err != nil {
			return nil, err
		}
		return bondNot(arg), nil
	}
	return p.parseBondPrimitive()
}

func (p *smartsParser) parseBondPrimitive() (*bondExpr, error) {
	if p.pos >= len(p.input) {
		return nil, p.syntaxError("unterminated bond expression", len(p.input)-1, 1)
	}
	var prim bondPrimitive
	switch p.input[p.pos] {
	case '-', '/', '\\':
		// Directional bonds carry no stereo constraint here; both read as
		// single.
		prim = bondSingle
	case '=':
		prim = bondDouble
	case '#':
		prim = bondTriple
	case '$':
		prim = bondQuadruple
	case ':':
		prim = bondAromatic
	case '~':
		prim = bondAny
	case '@':
		prim = bondRing
	default:
		return nil, p.syntaxError("unknown bond primitive", p.pos, 1)
	}
	p.pos++
	return bondLeaf(prim), nil
}
