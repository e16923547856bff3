package parser

import (
	"fmt"

	"github.com/sipforge/sip/internal/token"
)

// Error is a structured parser diagnostic: a phase-prefixed code, the source
// position, a human message, and an optional fix suggestion.
type Error struct {
	Code    string
	Pos     token.Pos
	Message string
	Fix     string
}

func (e *Error) Error() string {
	if e.Fix != "" {
		return fmt.Sprintf("%s %s: %s (%s)", e.Code, e.Pos, e.Message, e.Fix)
	}
	return fmt.Sprintf("%s %s: %s", e.Code, e.Pos, e.Message)
}

func (p *Parser) report(code string, fix string, format string, args ...interface{}) {
	p.errs = append(p.errs, &Error{
		Code:    code,
		Pos:     p.cur.Pos,
		Message: fmt.Sprintf(format, args...),
		Fix:     fix,
	})
}
