package ast

import "constlit/internal/source"

type ItemKind uint8

const (
	ItemVar ItemKind = iota + 1
	ItemFn
	ItemClass
)

func (k ItemKind) String() string {
	switch k {
	case ItemVar:
		return "var"
	case ItemFn:
		return "fn"
	case ItemClass:
		return "class"
	default:
		return "invalid"
	}
}

// VarModifier distinguishes `var`, `final` and `const` declarations.
type VarModifier uint8

const (
	VarPlain VarModifier = iota
	VarFinal
	VarConst
)

func (m VarModifier) String() string {
	switch m {
	case VarFinal:
		return "final"
	case VarConst:
		return "const"
	default:
		return "var"
	}
}

// Item is a top-level declaration of a library.
type Item struct {
	Kind        ItemKind
	Span        source.Span
	Name        source.StringID
	NameSpan    source.Span
	Annotations []AnnotationID
	Payload     PayloadID
}

type VarItem struct {
	Modifier VarModifier
	Value    ExprID
}

type ClassItem struct {
	Super     source.StringID
	SuperSpan source.Span
	Members   []MemberID
}

// Annotation is metadata such as `@Ensure(...)`. Arguments are evaluated in
// the scope that encloses the annotated declaration.
type Annotation struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Args     []ExprID
}

type Items struct {
	Arena       *Arena[Item]
	Vars        *Arena[VarItem]
	Classes     *Arena[ClassItem]
	Members     *Arena[Member]
	Annotations *Arena[Annotation]
}

func NewItems(capHint uint) *Items {
	return &Items{
		Arena:       NewArena[Item](capHint),
		Vars:        NewArena[VarItem](capHint),
		Classes:     NewArena[ClassItem](capHint),
		Members:     NewArena[Member](capHint),
		Annotations: NewArena[Annotation](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewVar(name source.StringID, nameSpan, span source.Span, mod VarModifier, value ExprID) ItemID {
	payload := i.Vars.Allocate(VarItem{Modifier: mod, Value: value})
	return ItemID(i.Arena.Allocate(Item{Kind: ItemVar, Span: span, Name: name, NameSpan: nameSpan, Payload: PayloadID(payload)}))
}

func (i *Items) Var(id ItemID) (*VarItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemVar {
		return nil, false
	}
	return i.Vars.Get(uint32(item.Payload)), true
}

// NewFn registers a top-level function whose declaration lives in Fns.
func (i *Items) NewFn(name source.StringID, nameSpan, span source.Span, decl PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFn, Span: span, Name: name, NameSpan: nameSpan, Payload: decl}))
}

func (i *Items) NewClass(name source.StringID, nameSpan, span source.Span, class ClassItem) ItemID {
	payload := i.Classes.Allocate(class)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemClass, Span: span, Name: name, NameSpan: nameSpan, Payload: PayloadID(payload)}))
}

func (i *Items) Class(id ItemID) (*ClassItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemClass {
		return nil, false
	}
	return i.Classes.Get(uint32(item.Payload)), true
}

func (i *Items) NewAnnotation(a Annotation) AnnotationID {
	return AnnotationID(i.Annotations.Allocate(a))
}

func (i *Items) Annotation(id AnnotationID) *Annotation {
	return i.Annotations.Get(uint32(id))
}

// Annotate attaches annotations to an item.
func (i *Items) Annotate(id ItemID, ann ...AnnotationID) {
	if item := i.Get(id); item != nil {
		item.Annotations = append(item.Annotations, ann...)
	}
}
