/*
CommandParser gives command handlers a typed cursor over a command's
arguments, instead of hand-indexing cmd.Args. Every Next* method
advances the cursor and returns ErrEndOfStream once the arguments are
exhausted, matching the exact error taxonomy commands need to report
"wrong number of arguments" versus "wrong argument type" distinctly.
*/
package redkit

import "strconv"

// CommandParser walks a command's arguments (cmd.Args, i.e. everything
// after the command name) one value at a time. It walks the already
// protocol-decoded []string form rather than cmd.Raw: readCommand only
// ever accepts BulkString/SimpleString argument values (any other RESP
// type fails parsing before a handler ever sees the command), so by the
// time a handler runs, cmd.Args already carries every argument losslessly.
type CommandParser struct {
	values []string
	pos    int
}

// NewCommandParser builds a parser over cmd's arguments.
func NewCommandParser(cmd *Command) *CommandParser {
	return &CommandParser{values: cmd.Args}
}

// Remaining reports how many arguments are left unconsumed.
func (p *CommandParser) Remaining() int {
	return len(p.values) - p.pos
}

func (p *CommandParser) next() (string, error) {
	if p.pos >= len(p.values) {
		return "", ErrEndOfStream
	}
	v := p.values[p.pos]
	p.pos++
	return v, nil
}

// NextBytes returns the next argument's binary-safe bytes.
func (p *CommandParser) NextBytes() ([]byte, error) {
	v, err := p.next()
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// NextString returns the next argument as a string.
func (p *CommandParser) NextString() (string, error) {
	return p.next()
}

// NextInteger parses the next argument as a base-10 int64.
func (p *CommandParser) NextInteger() (int64, error) {
	s, err := p.NextString()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(s, 10, 64)
	if perr != nil {
		return 0, &InvalidCommandArgumentError{Argument: s}
	}
	return n, nil
}

// NextFloat parses the next argument as a float64.
func (p *CommandParser) NextFloat() (float64, error) {
	s, err := p.NextString()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return 0, &InvalidCommandArgumentError{Argument: s}
	}
	return n, nil
}
