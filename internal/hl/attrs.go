package hl

// CastKind names an implicit conversion.
type CastKind string

const (
	CastLValueToRValue         CastKind = "LValueToRValue"
	CastIntegralCast           CastKind = "IntegralCast"
	CastFloatingCast           CastKind = "FloatingCast"
	CastArrayToPointerDecay    CastKind = "ArrayToPointerDecay"
	CastFunctionToPointerDecay CastKind = "FunctionToPointerDecay"
	CastNoOp                   CastKind = "NoOp"
	CastBitCast                CastKind = "BitCast"
)

// CastKindAttr carries a CastKind on hl.implicit_cast.
type CastKindAttr struct {
	Kind CastKind
}

func (a CastKindAttr) String() string { return string(a.Kind) }

// Predicate is a comparison predicate.
type Predicate string

const (
	PredEQ  Predicate = "eq"
	PredNE  Predicate = "ne"
	PredSLT Predicate = "slt"
	PredSLE Predicate = "sle"
	PredSGT Predicate = "sgt"
	PredSGE Predicate = "sge"
	PredULT Predicate = "ult"
	PredULE Predicate = "ule"
	PredUGT Predicate = "ugt"
	PredUGE Predicate = "uge"
)

// PredicateAttr carries a Predicate on hl.cmp.
type PredicateAttr struct {
	Pred Predicate
}

func (a PredicateAttr) String() string { return string(a.Pred) }
