// Package script parses and replays allocator operation scripts.
//
// A script has one operation per line. Blank lines are ignored and '#' starts
// a comment that runs to the end of the line:
//
//	create 100     # capacity in bytes
//	alloc 20 1     # size, owner
//	free 1         # owner
//	destroy
package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/blockalloc/alloc"
)

const (
	commentPrefix     = "#"
	scannerInitBuffer = 4 * 1024
	scannerMaxLine    = 64 * 1024
)

// Kind identifies an operation.
type Kind uint8

const (
	OpCreate Kind = iota + 1
	OpAlloc
	OpFree
	OpDestroy
)

var kindNames = map[Kind]string{
	OpCreate:  "create",
	OpAlloc:   "alloc",
	OpFree:    "free",
	OpDestroy: "destroy",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Op is one parsed script line.
type Op struct {
	Line  int         // 1-based source line
	Kind  Kind        // operation
	Size  int         // capacity for create, size for alloc
	Owner alloc.Owner // owner for alloc and free
}

func (op Op) String() string {
	switch op.Kind {
	case OpCreate:
		return fmt.Sprintf("create %d", op.Size)
	case OpAlloc:
		return fmt.Sprintf("alloc %d %d", op.Size, op.Owner)
	case OpFree:
		return fmt.Sprintf("free %d", op.Owner)
	default:
		return op.Kind.String()
	}
}

// ParseError reports a malformed script line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script: line %d: %s", e.Line, e.Msg)
}

// Parse reads a script. The input may be UTF-8, with or without a byte order
// mark, or UTF-16 with a byte order mark.
func Parse(r io.Reader) ([]Op, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, scannerInitBuffer), scannerMaxLine)

	var ops []Op
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, commentPrefix); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseFields(line, fields)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("script: read line %d: %w", line+1, err)
	}
	return ops, nil
}

func parseFields(line int, fields []string) (Op, error) {
	op := Op{Line: line}
	args := fields[1:]

	var want int
	switch strings.ToLower(fields[0]) {
	case "create":
		op.Kind, want = OpCreate, 1
	case "alloc":
		op.Kind, want = OpAlloc, 2
	case "free":
		op.Kind, want = OpFree, 1
	case "destroy":
		op.Kind, want = OpDestroy, 0
	default:
		return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown operation %q", fields[0])}
	}
	if len(args) != want {
		return Op{}, &ParseError{
			Line: line,
			Msg:  fmt.Sprintf("%s takes %d argument(s), got %d", op.Kind, want, len(args)),
		}
	}

	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s: invalid integer %q", op.Kind, arg)}
		}
		nums[i] = n
	}

	switch op.Kind {
	case OpCreate:
		op.Size = nums[0]
	case OpAlloc:
		op.Size, op.Owner = nums[0], nums[1]
	case OpFree:
		op.Owner = nums[0]
	}
	return op, nil
}
