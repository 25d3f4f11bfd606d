package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo              Code = 1000
	LexUnrecognizedToken Code = 1001

	// Syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedEOF      Code = 2002
	SynDuplicateArgument  Code = 2003
	SynMismatchedParens   Code = 2004
	SynUnresolvedFunction Code = 2005
	SynUnresolvedVariable Code = 2006
	SynEmptyExpression    Code = 2007
	SynMixedCallStyle     Code = 2008
	SynStackImbalance     Code = 2009
	SynUnknownArgument    Code = 2010
	SynTooManyArguments   Code = 2011
	SynMissingArgument    Code = 2012

	// Semantic
	SemInfo                Code = 3000
	SemTypeMismatch        Code = 3001
	SemIndeterminateType   Code = 3002
	SemEntrypointNotFound  Code = 3003
	SemEntrypointSignature Code = 3004
	SemGuardNotBoolean     Code = 3005

	// I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexInfo:                "Lexical information",
	LexUnrecognizedToken:   "Unrecognized token",
	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynUnexpectedEOF:       "Unexpected end of input",
	SynDuplicateArgument:   "Duplicate argument name",
	SynMismatchedParens:    "Mismatched parentheses",
	SynUnresolvedFunction:  "Function not defined in scope",
	SynUnresolvedVariable:  "Variable not defined in scope",
	SynEmptyExpression:     "Empty expression",
	SynMixedCallStyle:      "Mixed named and ordered call arguments",
	SynStackImbalance:      "Expression value stack imbalance",
	SynUnknownArgument:     "Unknown argument name in call",
	SynTooManyArguments:    "Too many arguments in call",
	SynMissingArgument:     "Argument has no value",
	SemInfo:                "Semantic information",
	SemTypeMismatch:        "Type mismatch",
	SemIndeterminateType:   "Type could not be determined",
	SemEntrypointNotFound:  "Entry point not found",
	SemEntrypointSignature: "Entry point has wrong signature",
	SemGuardNotBoolean:     "Guard condition is not a Boolean",
	IOLoadFileError:        "Failed to load file",
	ObsInfo:                "Observability information",
	ObsTimings:             "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
