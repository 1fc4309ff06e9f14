package deontic

// Operator is a deontic modality: the normative stance a Formula takes
// toward its proposition. Values mirror the standard deontic-logic
// symbols so Formula.FOLString renders the textbook notation.
type Operator string

const (
	Obligation     Operator = "O"   // O(φ) — it is obligatory that φ
	Permission     Operator = "P"   // P(φ) — it is permitted that φ
	Prohibition    Operator = "F"   // F(φ) — it is forbidden that φ
	Supererogation Operator = "S"   // S(φ) — above and beyond duty
	Right          Operator = "R"   // R(φ) — φ is a right
	Liberty        Operator = "L"   // L(φ) — φ is a liberty/privilege
	Power          Operator = "POW" // POW(φ) — power to bring about φ
	Immunity       Operator = "IMM" // IMM(φ) — immunity from φ
)

// Valid reports whether o is one of the eight recognized operators.
func (o Operator) Valid() bool {
	switch o {
	case Obligation, Permission, Prohibition, Supererogation, Right, Liberty, Power, Immunity:
		return true
	default:
		return false
	}
}

// TemporalOperator is a modal operator scoping a formula in time.
type TemporalOperator string

const (
	Always     TemporalOperator = "□" // always/necessarily
	Eventually TemporalOperator = "◊" // eventually/possibly
	Next       TemporalOperator = "X" // next time point
	Until      TemporalOperator = "U" // until
	Since      TemporalOperator = "S" // since
)

// Valid reports whether t is one of the five recognized temporal operators.
func (t TemporalOperator) Valid() bool {
	switch t {
	case Always, Eventually, Next, Until, Since:
		return true
	default:
		return false
	}
}

// Quantifier binds a Formula variable over a domain.
type Quantifier string

const (
	ForAll Quantifier = "∀"
	Exists Quantifier = "∃"
)

// Valid reports whether q is ForAll or Exists.
func (q Quantifier) Valid() bool {
	return q == ForAll || q == Exists
}

// relatedOperatorPairs is the known-related set used by the RAG Store's
// operator_match scoring term: pairs that are not
// identical but still informative of a retrieval match.
var relatedOperatorPairs = map[[2]Operator]bool{
	{Obligation, Prohibition}: true,
	{Permission, Prohibition}: true,
	{Obligation, Permission}:  true,
}

// OperatorsRelated reports whether (a, b) (in either order) is one of
// the known-related operator pairs.
func OperatorsRelated(a, b Operator) bool {
	return relatedOperatorPairs[[2]Operator{a, b}] || relatedOperatorPairs[[2]Operator{b, a}]
}
