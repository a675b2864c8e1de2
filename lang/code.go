package lang

import (
	"strconv"
	"strings"
)

// Code identifies one kind of compile-time diagnostic.
//
// The numeric values are stable. Codes marked reserved are never produced
// but keep their numbers so that persisted codes remain comparable.
type Code int

const (
	SuccessfullyCompiled           Code = iota // successfully compiled
	FormulaNullEmpty                           // formula null or empty
	NoFormula                                  // no formula
	ForbiddenCharacter                         // forbidden character
	InvalidToken                               // invalid token
	InvalidRepeatingQuotationMarks             // invalid repeating quotation marks
	InvalidFirstToken                          // invalid first token
	InvalidLastToken                           // invalid last token
	InvalidFollowToken                         // invalid follow token
	InvalidTokenOutsideFormula                 // invalid token outside formula
	UnequalNumberOfBrackets                    // unequal number of brackets
	MissingClosingBracket                      // missing closing bracket
	MissingFunctionClosingBracket              // missing function closing bracket
	MissingIfClosingBracket                    // missing IF closing bracket
	UnequalNumberOfCurlyBrackets               // unequal number of curly brackets
	InvalidVector                              // invalid vector
	IllegalNestedVector                        // illegal nested vector
	InvalidVectorExpression                    // invalid vector expression
	InvalidFunctionArgumentCount               // invalid function argument count
	InvalidIfArgumentCount                     // invalid IF argument count
	MissingVectorArgument                      // missing vector argument
	MissingScalarArgument                      // missing scalar argument
	IllegalCustomItem                          // illegal custom item
	CustomItemsSuccessfullySet                 // custom items successfully set
	InvalidNumber                              // invalid number
	InconsistentCustomItemKind                 // inconsistent custom item kind
	Reserved26                                 // reserved
	Reserved27                                 // reserved
	Reserved28                                 // reserved
	Reserved29                                 // reserved
	Reserved30                                 // reserved
	Reserved31                                 // reserved

	numCodes
)

var codeNames = [numCodes]string{
	SuccessfullyCompiled:           "SuccessfullyCompiled",
	FormulaNullEmpty:               "FormulaNullEmpty",
	NoFormula:                      "NoFormula",
	ForbiddenCharacter:             "ForbiddenCharacter",
	InvalidToken:                   "InvalidToken",
	InvalidRepeatingQuotationMarks: "InvalidRepeatingQuotationMarks",
	InvalidFirstToken:              "InvalidFirstToken",
	InvalidLastToken:               "InvalidLastToken",
	InvalidFollowToken:             "InvalidFollowToken",
	InvalidTokenOutsideFormula:     "InvalidTokenOutsideFormula",
	UnequalNumberOfBrackets:        "UnequalNumberOfBrackets",
	MissingClosingBracket:          "MissingClosingBracket",
	MissingFunctionClosingBracket:  "MissingFunctionClosingBracket",
	MissingIfClosingBracket:        "MissingIfClosingBracket",
	UnequalNumberOfCurlyBrackets:   "UnequalNumberOfCurlyBrackets",
	InvalidVector:                  "InvalidVector",
	IllegalNestedVector:            "IllegalNestedVector",
	InvalidVectorExpression:        "InvalidVectorExpression",
	InvalidFunctionArgumentCount:   "InvalidFunctionArgumentCount",
	InvalidIfArgumentCount:         "InvalidIfArgumentCount",
	MissingVectorArgument:          "MissingVectorArgument",
	MissingScalarArgument:          "MissingScalarArgument",
	IllegalCustomItem:              "IllegalCustomItem",
	CustomItemsSuccessfullySet:     "CustomItemsSuccessfullySet",
	InvalidNumber:                  "InvalidNumber",
	InconsistentCustomItemKind:     "InconsistentCustomItemKind",
	Reserved26:                     "Reserved26",
	Reserved27:                     "Reserved27",
	Reserved28:                     "Reserved28",
	Reserved29:                     "Reserved29",
	Reserved30:                     "Reserved30",
	Reserved31:                     "Reserved31",
}

// messages is the catalog of message templates. Placeholders {0}, {1}, ...
// are replaced by the positional arguments of a [Diagnostic].
var messages = [numCodes]string{
	SuccessfullyCompiled:           "Formula successfully compiled.",
	FormulaNullEmpty:               "Formula is null or empty.",
	NoFormula:                      "No formula defined.",
	ForbiddenCharacter:             "Character '{0}' is not allowed.",
	InvalidToken:                   "Token '{0}' is invalid.",
	InvalidRepeatingQuotationMarks: "Quotation marks are repeated or unmatched at position {0}.",
	InvalidFirstToken:              "Formula cannot start with '{0}'.",
	InvalidLastToken:               "Formula cannot end with '{0}'.",
	InvalidFollowToken:             "'{1}' cannot follow '{0}'.",
	InvalidTokenOutsideFormula:     "'{0}' is not allowed outside a function call.",
	UnequalNumberOfBrackets:        "Unequal number of brackets: {0} open, {1} close.",
	MissingClosingBracket:          "Missing closing bracket.",
	MissingFunctionClosingBracket:  "Missing closing bracket of function '{0}'.",
	MissingIfClosingBracket:        "Missing closing bracket of IF.",
	UnequalNumberOfCurlyBrackets:   "Unequal number of curly brackets: {0} open, {1} close.",
	InvalidVector:                  "Vector is invalid.",
	IllegalNestedVector:            "Vectors must not be nested.",
	InvalidVectorExpression:        "Vector is not allowed here.",
	InvalidFunctionArgumentCount:   "Function '{0}' has {1} argument(s).",
	InvalidIfArgumentCount:         "IF has {0} argument(s) but requires 3.",
	MissingVectorArgument:          "Argument {0} of function '{1}' must be a vector.",
	MissingScalarArgument:          "Argument {0} of function '{1}' must be a scalar.",
	IllegalCustomItem:              "Custom item '{0}' is illegal.",
	CustomItemsSuccessfullySet:     "Custom items successfully set.",
	InvalidNumber:                  "Number '{0}' is invalid.",
	InconsistentCustomItemKind:     "Custom item '{0}' is used as both scalar and vector.",
	Reserved26:                     "(reserved)",
	Reserved27:                     "(reserved)",
	Reserved28:                     "(reserved)",
	Reserved29:                     "(reserved)",
	Reserved30:                     "(reserved)",
	Reserved31:                     "(reserved)",
}

// Codes returns every defined code in numeric order, reserved ones included.
func Codes() []Code {
	codes := make([]Code, numCodes)
	for i := range codes {
		codes[i] = Code(i)
	}

	return codes
}

// String returns the name of the code.
func (c Code) String() string {
	if c < 0 || c >= numCodes {
		return "Code(" + strconv.Itoa(int(c)) + ")"
	}

	return codeNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsSuccess reports whether c marks a successful operation rather than a
// failure.
func (c Code) IsSuccess() bool {
	return c == SuccessfullyCompiled || c == CustomItemsSuccessfullySet
}

// IsReserved reports whether c is a placeholder that is never produced.
func (c Code) IsReserved() bool {
	return c >= Reserved26 && c <= Reserved31
}

// Message returns the message template of c.
func Message(c Code) string {
	if c < 0 || c >= numCodes {
		return ""
	}

	return messages[c]
}

// Render substitutes args into the message template of c.
// Placeholders without a matching argument are left as they are.
func Render(c Code, args ...string) string {
	tmpl := Message(c)
	if len(args) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, 2*len(args))
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", arg)
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}
