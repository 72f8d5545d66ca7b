// Package smiles reads and writes SMILES notation for chem.Molecule graphs.
//
// The reader covers the organic subset, aromatic lowercase atoms, bracket
// atoms with isotope, hydrogen count, charge and atom class, explicit bonds,
// branches, ring closures (including %nn), and dot-separated components.
// After parsing, implicit hydrogens are filled from the element's default
// valence.  Stereochemistry markers are accepted and ignored.
package smiles

import (
	"github.com/heliumchem/helium/pkg/chem"
)

// Reader parses SMILES strings into molecules.  It is stateless and safe for
// concurrent use; a single shared instance is fine.
type Reader struct{}

// NewReader returns a Reader.
func NewReader() *Reader { return &Reader{} }

// Read parses text into mol.  The molecule is cleared first; on error it is
// left cleared and the returned error is a *chem.ParseError.
func (r *Reader) Read(text string, mol *chem.Molecule) error {
	mol.Clear()
	p := &parser{input: text, mol: mol, prev: -1, rings: make(map[int]ringOpen)}
	if err := p.parse(); err != nil {
		mol.Clear()
		return err
	}
	fillHydrogens(mol)
	return nil
}

// Parse is a convenience wrapper that allocates the molecule.
func Parse(text string) (*chem.Molecule, error) {
	mol := &chem.Molecule{}
	if err := NewReader().Read(text, mol); err != nil {
		return nil, err
	}
	return mol, nil
}

// ringOpen records the first atom of a pending ring closure.
type ringOpen struct {
	atom int
	bond byte
	pos  int
}

type parser struct {
	input string
	pos   int
	mol   *chem.Molecule
	prev  int
	bond  byte // pending explicit bond symbol, 0 when none
	stack []int
	rings map[int]ringOpen
}

func (p *parser) syntaxError(msg string, pos, length int) error {
	return chem.NewParseError(chem.SyntaxError, msg, p.input, pos, length)
}

func (p *parser) semanticsError(msg string, pos, length int) error {
	return chem.NewParseError(chem.SemanticsError, msg, p.input, pos, length)
}

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

// bondFor builds the bond between two parsed atoms for an explicit bond
// symbol; symbol 0 means the default bond, which is aromatic when both
// endpoints are aromatic and single otherwise.
func (p *parser) bondFor(symbol byte, source, target int) chem.Bond {
	b := chem.Bond{Source: source, Target: target, Order: 1}
	switch symbol {
	case '=':
		b.Order = 2
	case '#':
		b.Order = 3
	case '$':
		b.Order = 4
	case ':':
		b.Aromatic = true
	case 0:
		if p.mol.Atom(source).Aromatic && p.mol.Atom(target).Aromatic {
			b.Aromatic = true
		}
	}
	return b
}

func (p *parser) parse() error {
	if len(p.input) == 0 {
		return p.syntaxError("empty SMILES", 0, 1)
	}

	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == ' ' || c == '\t':
			// SMILES ends at whitespace; anything after is a title field.
			p.pos = len(p.input)

		case isBondSymbol(c):
			if p.bond != 0 {
				return p.syntaxError("two consecutive bond symbols", p.pos, 1)
			}
			if p.prev < 0 {
				return p.syntaxError("bond symbol with no preceding atom", p.pos, 1)
			}
			p.bond = c
			p.pos++

		case c == '(':
			if p.prev < 0 {
				return p.syntaxError("branch start with no preceding atom", p.pos, 1)
			}
			if p.bond != 0 {
				return p.syntaxError("bond symbol before branch start", p.pos, 1)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++

		case c == ')':
			if len(p.stack) == 0 {
				return p.syntaxError("unmatched branch close", p.pos, 1)
			}
			if p.bond != 0 {
				return p.syntaxError("dangling bond symbol before branch close", p.pos, 1)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++

		case c == '.':
			if p.bond != 0 {
				return p.syntaxError("bond symbol before dot", p.pos, 1)
			}
			p.prev = -1
			p.pos++

		case c >= '0' && c <= '9':
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

		default:
			atom, err := p.parseAtom()
			if err != nil {
				return err
			}
			if p.prev >= 0 {
				p.mol.AddBond(p.bondFor(p.bond, p.prev, atom))
			}
			p.bond = 0
			p.prev = atom
		}
	}

	if p.bond != 0 {
		return p.syntaxError("dangling bond symbol at end of input", len(p.input)-1, 1)
	}
	if len(p.stack) != 0 {
		return p.syntaxError("unclosed branch", len(p.input)-1, 1)
	}
	for _, open := range p.rings {
		return p.semanticsError("unmatched ring bond", open.pos, 1)
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ringBond opens or closes the numbered ring closure on the current atom.
func (p *parser) ringBond(number int) error {
	if p.prev < 0 {
		return p.syntaxError("ring bond with no preceding atom", p.pos, 1)
	}

	open, ok := p.rings[number]
	if !ok {
		p.rings[number] = ringOpen{atom: p.prev, bond: p.bond, pos: p.pos}
		p.bond = 0
		return nil
	}
	delete(p.rings, number)

	if open.atom == p.prev {
		return p.semanticsError("ring bond to self", p.pos, 1)
	}
	if p.mol.BondBetween(open.atom, p.prev) >= 0 {
		return p.semanticsError("duplicate ring bond", p.pos, 1)
	}

	symbol := p.bond
	if symbol == 0 {
		symbol = open.bond
	} else if open.bond != 0 && open.bond != symbol {
		return p.semanticsError("conflicting ring bond orders", p.pos, 1)
	}

	p.mol.AddBond(p.bondFor(symbol, open.atom, p.prev))
	p.bond = 0
	return nil
}

// parseAtom consumes one atom token (shorthand or bracket) and returns its
// index in the molecule.
func (p *parser) parseAtom() (int, error) {
	c := p.input[p.pos]

	if c == '[' {
		return p.parseBracketAtom()
	}

	// Two-letter organic subset symbols first.
	if p.pos+1 < len(p.input) {
		switch p.input[p.pos : p.pos+2] {
		case "Cl", "Br":
			element := chem.ElementNumber(p.input[p.pos : p.pos+2])
			p.pos += 2
			return p.addShorthandAtom(element, false), nil
		}
	}

	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		return p.addShorthandAtom(chem.ElementNumber(string(c)), false), nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		return p.addShorthandAtom(chem.AromaticElementNumber(string(c)), true), nil
	}

	return 0, p.syntaxError("unexpected character", p.pos, 1)
}

// addShorthandAtom adds an organic-subset atom whose hydrogen count will be
// valence-filled after parsing (sentinel -1).
func (p *parser) addShorthandAtom(element int, aromatic bool) int {
	return p.mol.AddAtom(chem.Atom{
		Element:   element,
		Aromatic:  aromatic,
		Mass:      chem.AverageMass(element),
		Hydrogens: -1,
	})
}

// parseBracketAtom consumes "[isotope? symbol chirality? Hcount? charge? :class?]".
func (p *parser) parseBracketAtom() (int, error) {
	start := p.pos
	p.pos++ // consume '['

	isotope := -1
	if p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		isotope = p.number()
	}

	if p.pos >= len(p.input) {
		return 0, p.syntaxError("unclosed bracket atom", start, 1)
	}

	element, aromatic, err := p.bracketSymbol(start)
	if err != nil {
		return 0, err
	}

	// Chirality markers are accepted and ignored.
	for p.pos < len(p.input) && p.input[p.pos] == '@' {
		p.pos++
	}

	hydrogens := 0
	if p.pos < len(p.input) && p.input[p.pos] == 'H' {
		p.pos++
		hydrogens = 1
		if p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			hydrogens = p.number()
		}
	}

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

	if p.pos < len(p.input) && p.input[p.pos] == ':' {
		p.pos++
		if p.pos >= len(p.input) || !isDigit(p.input[p.pos]) {
			return 0, p.syntaxError("atom class expects a number", p.pos, 1)
		}
		p.number() // atom class is parsed but not stored on molecules
	}

	if p.pos >= len(p.input) || p.input[p.pos] != ']' {
		return 0, p.syntaxError("unclosed bracket atom", start, 1)
	}
	p.pos++

	mass := isotope
	if mass < 0 {
		mass = chem.AverageMass(element)
	}

	return p.mol.AddAtom(chem.Atom{
		Element:   element,
		Aromatic:  aromatic,
		Charge:    charge,
		Mass:      mass,
		Hydrogens: hydrogens,
	}), nil
}

// bracketSymbol parses the element symbol inside a bracket atom.
func (p *parser) bracketSymbol(bracketStart int) (element int, aromatic bool, err error) {
	c := p.input[p.pos]

	switch {
	case c >= 'A' && c <= 'Z':
		symbol := string(c)
		if p.pos+1 < len(p.input) {
			next := p.input[p.pos+1]
			if next >= 'a' && next <= 'z' && chem.ElementNumber(symbol+string(next)) != 0 {
				symbol += string(next)
			}
		}
		element = chem.ElementNumber(symbol)
		if element == 0 {
			return 0, false, p.syntaxError("unknown element symbol", p.pos, 1)
		}
		p.pos += len(symbol)
		return element, false, nil

	case c >= 'a' && c <= 'z':
		symbol := string(c)
		if p.pos+1 < len(p.input) {
			next := p.input[p.pos+1]
			if next >= 'a' && next <= 'z' && chem.AromaticElementNumber(symbol+string(next)) != 0 {
				symbol += string(next)
			}
		}
		element = chem.AromaticElementNumber(symbol)
		if element == 0 {
			return 0, false, p.syntaxError("element cannot be aromatic", p.pos, 1)
		}
		p.pos += len(symbol)
		return element, true, nil

	case c == '*':
		p.pos++
		return 0, false, nil
	}

	return 0, false, p.syntaxError("element symbol expected in bracket atom", bracketStart, 1)
}

// number consumes a run of digits.  The caller must ensure the first byte is
// a digit.
func (p *parser) number() int {
	n := 0
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		n = n*10 + int(p.input[p.pos]-'0')
		p.pos++
	}
	return n
}

// fillHydrogens assigns implicit hydrogen counts to shorthand atoms (those
// parsed with the -1 sentinel).  The count is the difference between the
// element's implied valence and the current bonded valence; aromatic atoms
// contribute one extra bonded valence for the delocalized system.
func fillHydrogens(mol *chem.Molecule) {
	for i := 0; i < mol.NumAtoms(); i++ {
		atom := mol.Atom(i)
		if atom.Hydrogens != -1 {
			continue
		}

		valence := mol.BondedValence(i)
		if atom.Aromatic {
			valence++
		}
		h := chem.ImpliedValence(atom.Element, valence) - valence
		if h < 0 {
			h = 0
		}
		mol.SetHydrogens(i, h)
	}
}
