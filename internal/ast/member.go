package ast

import "constlit/internal/source"

type MemberKind uint8

const (
	MemberField MemberKind = iota + 1
	MemberMethod
	MemberConstructor
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberConstructor:
		return "constructor"
	default:
		return "invalid"
	}
}

// Member is a class member. Fields use Modifier and Value; methods and
// constructors point at a FnDecl through Fn.
type Member struct {
	Kind        MemberKind
	Span        source.Span
	Name        source.StringID
	NameSpan    source.Span
	Static      bool
	Modifier    VarModifier
	Value       ExprID
	Fn          PayloadID
	Annotations []AnnotationID
}

func (i *Items) NewMember(m Member) MemberID {
	return MemberID(i.Members.Allocate(m))
}

func (i *Items) Member(id MemberID) *Member {
	return i.Members.Get(uint32(id))
}
