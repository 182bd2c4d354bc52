package ast

import (
	"refu/internal/source"
	"refu/internal/types"
)

// Kind tags the variant a Node represents. Every consumer of the AST
// switches exhaustively on Kind rather than dispatching through per-kind
// node types, so a missing case is a compile-time-visible gap in the
// switch rather than a silently-unhandled interface method.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindModule
	KindImport
	KindTypeRef    // bare name reference: "i32", "Shape", a generic parameter
	KindTypeLeaf   // labeled field inside a product/sum: "radius:f32"
	KindTypeProduct
	KindTypeSum
	KindTypeImplication
	KindTypeDecl // `type NAME { ... }`
	KindFuncDecl // signature only (no body) — reserved for externs
	KindFuncImpl // full definition: signature + body
	KindParam
	KindCall
	KindIdent
	KindIntConst
	KindFloatConst
	KindStringConst
	KindBinaryOp
	KindAssign
	KindIfExpr
	KindBlock
	KindVarDecl
	KindReturn
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindImport:
		return "import"
	case KindTypeRef:
		return "type_ref"
	case KindTypeLeaf:
		return "type_leaf"
	case KindTypeProduct:
		return "type_product"
	case KindTypeSum:
		return "type_sum"
	case KindTypeImplication:
		return "type_implication"
	case KindTypeDecl:
		return "type_decl"
	case KindFuncDecl:
		return "func_decl"
	case KindFuncImpl:
		return "func_impl"
	case KindParam:
		return "param"
	case KindCall:
		return "call"
	case KindIdent:
		return "ident"
	case KindIntConst:
		return "int_const"
	case KindFloatConst:
		return "float_const"
	case KindStringConst:
		return "string_const"
	case KindBinaryOp:
		return "binary_op"
	case KindAssign:
		return "assign"
	case KindIfExpr:
		return "if_expr"
	case KindBlock:
		return "block"
	case KindVarDecl:
		return "var_decl"
	case KindReturn:
		return "return"
	default:
		return "invalid"
	}
}

// BinOp enumerates binary operators carried by a KindBinaryOp node.
type BinOp uint8

const (
	OpInvalid BinOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// IsComparison reports whether op yields a bool result.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
		return true
	default:
		return false
	}
}

// Node is a single tagged AST node. Field usage depends on Kind; see the
// per-kind comment below. Every node carries a source span, a pipeline
// State that only ever advances, and a lazily-filled ResolvedType (set by
// the analyzer, types.NoTypeID until then) — so the relation between a node
// and its type is one-directional: nothing in the types package ever
// references a Node back (spec.md §9).
//
//	Module:       Children (imports and items, in source order)
//	Import:       Name (dotted path), Bool (foreign)
//	TypeRef:      Name
//	TypeLeaf:     Name (label), Left (inner type description)
//	TypeProduct/Sum/Implication: Left, Right (operand type descriptions)
//	TypeDecl:     Name, Left (body type description), Children (generic param names encoded as TypeRef nodes)
//	FuncDecl:     Name, Children (Params), Left (return type description)
//	FuncImpl:     Name, Children (Params), Left (return type description), Right (body Block)
//	Param:        Name, Left (type description)
//	Call:         Left (callee, usually Ident), Children (arguments)
//	Ident:        Name
//	IntConst:     IntVal
//	FloatConst:   FloatVal
//	StringConst:  Name (the interned literal)
//	BinaryOp:     Op, Left, Right
//	Assign:       Left (lhs), Right (rhs)
//	IfExpr:       Left (cond), Right (then Block), Else (else Block, nested IfExpr for elif, or NoNodeID)
//	Block:        Children (statements/expressions in source order)
//	VarDecl:      Name, Left (type description or NoNodeID if inferred), Right (init expr), Bool (mutable)
//	Return:       Left (result expr or NoNodeID)
type Node struct {
	Kind  Kind
	Span  source.Span
	State State

	Name     source.StringID
	Op       BinOp
	IntVal   int64
	FloatVal float64
	Bool     bool

	Left     NodeID
	Right    NodeID
	Else     NodeID
	Children []NodeID

	ResolvedType types.TypeID
}
