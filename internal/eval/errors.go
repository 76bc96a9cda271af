package eval

import (
	"fmt"

	"github.com/railmap/railmap/internal/dsl"
)

// ErrEval reports a failure while executing a statement, with the source
// position of the node that caused it.
type ErrEval struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *ErrEval) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

func errAt(file string, pos dsl.Pos, format string, args ...any) *ErrEval {
	return &ErrEval{
		File: file,
		Line: pos.Line,
		Col:  pos.Col,
		Msg:  fmt.Sprintf(format, args...),
	}
}
