package redkit

import "fmt"

// ErrEndOfStream is returned by CommandParser methods once the argument
// cursor has been exhausted.
var ErrEndOfStream = fmt.Errorf("end of stream")

// InvalidCommandArgumentError reports an argument that failed to parse
// as the type a command required (e.g. a non-integer INCRBY amount).
type InvalidCommandArgumentError struct {
	Command  string
	Argument string
}

func (e *InvalidCommandArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q for command %q", e.Argument, e.Command)
}

// UnknownCommandError reports a command name with no registered handler.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Command)
}

// errReply is a small helper constructing an ErrorReply RedisValue.
func errReply(format string, args ...interface{}) RedisValue {
	return RedisValue{Type: ErrorReply, Str: fmt.Sprintf(format, args...)}
}

// wrongArgsErr formats the standard "wrong number of arguments" error for
// a given command name, matching real Redis clients' expectations.
func wrongArgsErr(cmd string) RedisValue {
	return errReply("ERR wrong number of arguments for '%s' command", cmd)
}

// notIntegerErr is the canonical error for every INCR-family failure,
// whether the stored value isn't numeric or the arithmetic overflows.
func notIntegerErr() RedisValue {
	return errReply("ERR value is not an integer or out of range")
}

// notFloatErr is the canonical error for INCRBYFLOAT parse failures.
func notFloatErr() RedisValue {
	return errReply("ERR value is not a valid float")
}
