package smarts

// Expression trees for compiled atom and bond constraints.  A leaf node
// carries one primitive test; interior nodes combine children with not/and/or.
// Trees are built by the compiler and never mutated afterwards, so a compiled
// Pattern is safe to share between concurrent searches.

type exprOp int

const (
	opLeaf exprOp = iota
	opNot
	opAnd
	opOr
)

type atomPrimitive int

const (
	// primAny matches every atom (*).
	primAny atomPrimitive = iota
	// primAromatic and primAliphatic test the aromaticity flag (a, A).
	primAromatic
	primAliphatic
	// primAliphaticElement and primAromaticElement test element plus
	// aromaticity (C vs c); primElement tests element alone (#n).
	primAliphaticElement
	primAromaticElement
	primElement
	// primIsotope tests the atom mass.
	primIsotope
	// primCharge tests the formal charge.
	primCharge
	// primDegree (D), primValence (v), primConnectivity (X), primTotalH (H)
	// and primImplicitH (h) test the corresponding atom counts.
	primDegree
	primValence
	primConnectivity
	primTotalH
	primImplicitH
	// primRingMembership (R), primRingSize (r) and primRingConnectivity (x)
	// consult the ring set.
	primRingMembership
	primRingSize
	primRingConnectivity
	// primRecursive anchors a nested pattern at the candidate atom ($(...)).
	primRecursive
)

// valueAtLeastOne marks a count primitive written without a number, which
// matches when the count is one or more (h, x, R without digits).
const valueAtLeastOne = -1

type atomExpr struct {
	op    exprOp
	prim  atomPrimitive // valid when op == opLeaf
	value int
	args  []*atomExpr
	sub   *Pattern // valid when prim == primRecursive
}

type bondPrimitive int

const (
	// bondAny matches every bond (~).
	bondAny bondPrimitive = iota
	// bondDefault is the unwritten bond between adjacent pattern atoms:
	// single or aromatic.
	bondDefault
	bondSingle
	bondDouble
	bondTriple
	bondQuadruple
	bondAromatic
	// bondRing matches bonds that lie on a ring (@).
	bondRing
)

type bondExpr struct {
	op   exprOp
	prim bondPrimitive
	args []*bondExpr
}

func atomLeaf(prim atomPrimitive, value int) *atomExpr {
	return &atomExpr{op: opLeaf, prim: prim, value: value}
}

func atomNot(arg *atomExpr) *atomExpr {
	return &atomExpr{op: opNot, args: []*atomExpr{arg}}
}

func atomAnd(left, right *atomExpr) *atomExpr {
	return &atomExpr{op: opAnd, args: []*atomExpr{left, right}}
}

func atomOr(left, right *atomExpr) *atomExpr {
	return &atomExpr{op: opOr, args: []*atomExpr{left, right}}
}

func bondLeaf(prim bondPrimitive) *bondExpr {
	return &bondExpr{op: opLeaf, prim: prim}
}

func bondNot(arg *bondExpr) *bondExpr {
	return &bondExpr{op: opNot, args: []*bondExpr{arg}}
}

func bondAnd(left, right *bondExpr) *bondExpr {
	return &bondExpr{op: opAnd, args: []*bondExpr{left, right}}
}

func bondOr(left, right *bondExpr) *bondExpr {
	return &bondExpr{op: opOr, args: []*bondExpr{left, right}}
}
