package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Структура AST-документа
	SynInfo             Code = 2000
	SynMalformedDoc     Code = 2001
	SynUnknownNode      Code = 2002
	SynMalformedLiteral Code = 2003
	SynDuplicateParam   Code = 2004
	SynMissingName      Code = 2005

	// Семантические
	SemaInfo                 Code = 3000
	SemaError                Code = 3001
	SemaDuplicateSymbol      Code = 3002
	SemaScopeMismatch        Code = 3003
	SemaUnresolvedSymbol     Code = 3005
	SemaUseBeforeDeclaration Code = 3006
	SemaIllegalCapture       Code = 3010
	SemaClassCycle           Code = 3011
	SemaConstNotConstant     Code = 3026

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOCacheError    Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	SynInfo:                  "Document information",
	SynMalformedDoc:          "Malformed AST document",
	SynUnknownNode:           "Unknown AST node",
	SynMalformedLiteral:      "Malformed constant function literal",
	SynDuplicateParam:        "Duplicate parameter name",
	SynMissingName:           "Declaration without a name",
	SemaInfo:                 "Semantic information",
	SemaError:                "Semantic error",
	SemaDuplicateSymbol:      "Duplicate symbol",
	SemaScopeMismatch:        "Scope stack mismatch",
	SemaUnresolvedSymbol:     "Unresolved identifier",
	SemaUseBeforeDeclaration: "Local referenced before its declaration",
	SemaIllegalCapture:       "Illegal capture in constant function literal",
	SemaClassCycle:           "Cyclic class hierarchy",
	SemaConstNotConstant:     "Constant initializer is not a constant expression",
	IOLoadFileError:          "Cannot load file",
	IODecodeError:            "Cannot decode AST document",
	IOCacheError:             "Verdict cache failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Category groups codes into the error taxonomy of the constancy validator.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryUnresolvedIdentifier
	CategoryIllegalCapture
	CategoryMalformedLiteral
)

func (c Category) String() string {
	switch c {
	case CategoryUnresolvedIdentifier:
		return "UnresolvedIdentifier"
	case CategoryIllegalCapture:
		return "IllegalCapture"
	case CategoryMalformedLiteral:
		return "MalformedLiteral"
	default:
		return "Other"
	}
}

// Category reports which taxonomy bucket the code belongs to.
func (c Code) Category() Category {
	switch c {
	case SemaUnresolvedSymbol, SemaUseBeforeDeclaration:
		return CategoryUnresolvedIdentifier
	case SemaIllegalCapture:
		return CategoryIllegalCapture
	case SynMalformedLiteral, SynDuplicateParam:
		return CategoryMalformedLiteral
	default:
		return CategoryOther
	}
}
