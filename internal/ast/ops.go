package ast

// Operator tables shared by the parser (precedence), the checker and the
// code generator (spelling). Higher precedence binds tighter.
const (
	PrecAssign     = 3
	PrecOr         = 4
	PrecAnd        = 5
	PrecBitOr      = 6
	PrecBitXor     = 7
	PrecBitAnd     = 8
	PrecEquality   = 9
	PrecComparison = 10
	PrecShift      = 11
	PrecSum        = 12
	PrecProduct    = 13
	PrecPrefix     = 14
	PrecCast       = 14
	PrecPostfix    = 15
)

// BinaryOp is an arithmetic, comparison, logical or bitwise operator.
type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpShl
	OpShr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd
	OpOr
)

var binaryOps = [...]struct {
	symbol string
	prec   int
}{
	OpMul:    {"*", PrecProduct},
	OpDiv:    {"/", PrecProduct},
	OpMod:    {"%", PrecProduct},
	OpAdd:    {"+", PrecSum},
	OpSub:    {"-", PrecSum},
	OpShl:    {"<<", PrecShift},
	OpShr:    {">>", PrecShift},
	OpLt:     {"<", PrecComparison},
	OpLe:     {"<=", PrecComparison},
	OpGt:     {">", PrecComparison},
	OpGe:     {">=", PrecComparison},
	OpEq:     {"==", PrecEquality},
	OpNe:     {"!=", PrecEquality},
	OpBitAnd: {"&", PrecBitAnd},
	OpBitXor: {"^", PrecBitXor},
	OpBitOr:  {"|", PrecBitOr},
	OpAnd:    {"&&", PrecAnd},
	OpOr:     {"||", PrecOr},
}

// String returns the operator's source spelling, which C++ shares.
func (op BinaryOp) String() string { return binaryOps[op].symbol }

// Precedence returns the binding strength of the operator.
func (op BinaryOp) Precedence() int { return binaryOps[op].prec }

// UnaryOp is a prefix or postfix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
	OpFactorial
	OpDeref
	OpAddressOf
	OpNot
	OpBitNot
	OpSizeOf
	OpAlignOf
)

var unaryOps = [...]struct {
	symbol  string
	postfix bool
}{
	OpNeg:       {"-", false},
	OpPos:       {"+", false},
	OpPreInc:    {"++", false},
	OpPreDec:    {"--", false},
	OpPostInc:   {"++", true},
	OpPostDec:   {"--", true},
	OpFactorial: {"!", true},
	OpDeref:     {"*", false},
	OpAddressOf: {"&", false},
	OpNot:       {"!", false},
	OpBitNot:    {"~", false},
	OpSizeOf:    {"sizeof", false},
	OpAlignOf:   {"alignof", false},
}

func (op UnaryOp) String() string { return unaryOps[op].symbol }

// Postfix reports whether the operator follows its operand.
func (op UnaryOp) Postfix() bool { return unaryOps[op].postfix }

// AssignOp is plain or compound assignment.
type AssignOp int

const (
	OpAssign AssignOp = iota
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpShlAssign
	OpShrAssign
	OpBitAndAssign
	OpBitXorAssign
	OpBitOrAssign
)

var assignOps = [...]string{
	OpAssign:       "=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpShlAssign:    "<<=",
	OpShrAssign:    ">>=",
	OpBitAndAssign: "&=",
	OpBitXorAssign: "^=",
	OpBitOrAssign:  "|=",
}

func (op AssignOp) String() string { return assignOps[op] }
