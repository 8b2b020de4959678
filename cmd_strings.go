/*
String commands: GET/SET and its relatives, INCR family, MGET/MSET/
MSETNX, APPEND/STRLEN/GETRANGE/SETRANGE, and LCS. Every handler here is
a thin RESP-shaped wrapper around Store operations; none of them hold
the store lock directly.
*/
package redkit

import (
	"strings"
	"time"
)

// maxSetRangeOffset bounds SETRANGE's offset argument, matching the
// distilled spec's 2^29 boundary.
const maxSetRangeOffset = 1<<29 - 1

func (s *Server) registerStringHandlers() {
	s.RegisterCommandFunc(string(GET), s.handleGet)
	s.RegisterCommandFunc(string(SET), s.handleSet)
	s.RegisterCommandFunc(string(SETNX), s.handleSetnx)
	s.RegisterCommandFunc(string(GETDEL), s.handleGetdel)
	s.RegisterCommandFunc(string(GETEX), s.handleGetex)
	s.RegisterCommandFunc(string(APPEND), s.handleAppend)
	s.RegisterCommandFunc(string(STRLEN), s.handleStrlen)
	s.RegisterCommandFunc(string(GETRANGE), s.handleGetrange)
	s.RegisterCommandFunc(string(SETRANGE), s.handleSetrange)
	s.RegisterCommandFunc(string(INCR), s.handleIncr)
	s.RegisterCommandFunc(string(DECR), s.handleDecr)
	s.RegisterCommandFunc(string(INCRBY), s.handleIncrby)
	s.RegisterCommandFunc(string(DECRBY), s.handleDecrby)
	s.RegisterCommandFunc(string(INCRBYFLOAT), s.handleIncrbyfloat)
	s.RegisterCommandFunc(string(MGET), s.handleMget)
	s.RegisterCommandFunc(string(MSET), s.handleMset)
	s.RegisterCommandFunc(string(MSETNX), s.handleMsetnx)
	s.RegisterCommandFunc(string(LCS), s.handleLcs)
}

func (s *Server) handleGet(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("get")
	}
	data, ok := s.Store.Get(cmd.Args[0])
	if !ok {
		return RedisValue{Type: Null}
	}
	return RedisValue{Type: BulkString, Bulk: data}
}

// hasAnyTTLOption reports whether a TTL-shaping option (EX/PX/EXAT/PXAT/
// KEEPTTL) has already been parsed, since exactly one of that group may
// appear per the "TTL options are mutually exclusive" rule.
func hasAnyTTLOption(opts SetOptions) bool {
	return opts.HasTTL || opts.HasExpiresAt || opts.KeepTTL
}

func (s *Server) handleSet(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) < 2 {
		return wrongArgsErr("set")
	}
	key, value := cmd.Args[0], cmd.Args[1]

	var opts SetOptions
	var getFlag bool

	args := cmd.Args[2:]
	for i := 0; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "NX":
			if opts.NX || opts.XX {
				return errReply("ERR syntax error")
			}
			opts.NX = true
		case "XX":
			if opts.NX || opts.XX {
				return errReply("ERR syntax error")
			}
			opts.XX = true
		case "GET":
			getFlag = true
		case "KEEPTTL":
			if hasAnyTTLOption(opts) {
				return errReply("ERR syntax error")
			}
			opts.KeepTTL = true
		case "EX", "PX", "EXAT", "PXAT":
			if hasAnyTTLOption(opts) {
				return errReply("ERR syntax error")
			}
			if i+1 >= len(args) {
				return errReply("ERR syntax error")
			}
			n, err := parseStoredInt([]byte(args[i+1]))
			if err != nil {
				return notIntegerErr()
			}
			i++
			switch strings.ToUpper(args[i-1]) {
			case "EX":
				opts.TTL, opts.HasTTL = time.Duration(n)*time.Second, true
			case "PX":
				opts.TTL, opts.HasTTL = time.Duration(n)*time.Millisecond, true
			case "EXAT":
				opts.ExpiresAt, opts.HasExpiresAt = time.Unix(n, 0), true
			case "PXAT":
				opts.ExpiresAt, opts.HasExpiresAt = time.UnixMilli(n), true
			}
		default:
			return errReply("ERR syntax error")
		}
	}

	prev, existed, applied := s.Store.SetGuarded(key, []byte(value), opts)

	if !applied {
		if getFlag && existed {
			return RedisValue{Type: BulkString, Bulk: prev}
		}
		return RedisValue{Type: Null}
	}

	if getFlag {
		if !existed {
			return RedisValue{Type: Null}
		}
		return RedisValue{Type: BulkString, Bulk: prev}
	}
	return RedisValue{Type: SimpleString, Str: "OK"}
}

func (s *Server) handleSetnx(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 2 {
		return wrongArgsErr("setnx")
	}
	_, _, applied := s.Store.SetGuarded(cmd.Args[0], []byte(cmd.Args[1]), SetOptions{NX: true})
	if !applied {
		return RedisValue{Type: Integer, Int: 0}
	}
	return RedisValue{Type: Integer, Int: 1}
}

func (s *Server) handleGetdel(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("getdel")
	}
	data, ok := s.Store.Get(cmd.Args[0])
	if !ok {
		return RedisValue{Type: Null}
	}
	s.Store.Remove(cmd.Args[0])
	return RedisValue{Type: BulkString, Bulk: data}
}

func (s *Server) handleGetex(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) < 1 {
		return wrongArgsErr("getex")
	}
	key := cmd.Args[0]
	data, ok := s.Store.Get(key)
	if !ok {
		return RedisValue{Type: Null}
	}

	optionSeen := false
	args := cmd.Args[1:]
	for i := 0; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "PERSIST":
			if optionSeen {
				return errReply("ERR syntax error")
			}
			optionSeen = true
			s.Store.RemoveTTL(key)
		case "EX", "PX", "EXAT", "PXAT":
			if optionSeen {
				return errReply("ERR syntax error")
			}
			if i+1 >= len(args) {
				return errReply("ERR syntax error")
			}
			n, err := parseStoredInt([]byte(args[i+1]))
			if err != nil {
				return notIntegerErr()
			}
			i++
			optionSeen = true
			switch strings.ToUpper(args[i-1]) {
			case "EX":
				s.Store.SetWithTTL(key, data, time.Duration(n)*time.Second)
			case "PX":
				s.Store.SetWithTTL(key, data, time.Duration(n)*time.Millisecond)
			case "EXAT":
				s.Store.SetWithExpiry(key, data, time.Unix(n, 0))
			case "PXAT":
				s.Store.SetWithExpiry(key, data, time.UnixMilli(n))
			}
		default:
			return errReply("ERR syntax error")
		}
	}

	return RedisValue{Type: BulkString, Bulk: data}
}

func (s *Server) handleAppend(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 2 {
		return wrongArgsErr("append")
	}
	suffix := []byte(cmd.Args[1])
	result := s.Store.Mutate(cmd.Args[0], false, func(existing []byte, existed bool) []byte {
		if !existed {
			return append([]byte{}, suffix...)
		}
		return append(append([]byte{}, existing...), suffix...)
	})
	return RedisValue{Type: Integer, Int: int64(len(result))}
}

func (s *Server) handleStrlen(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("strlen")
	}
	data, ok := s.Store.Get(cmd.Args[0])
	if !ok {
		return RedisValue{Type: Integer, Int: 0}
	}
	return RedisValue{Type: Integer, Int: int64(len(data))}
}

// clampRange converts Redis-style (possibly negative) start/end indices
// into Go slice bounds [lo, hi) over a slice of length n.
func clampRange(start, end int64, n int) (lo, hi int) {
	if n == 0 {
		return 0, 0
	}
	if start < 0 {
		start += int64(n)
	}
	if end < 0 {
		end += int64(n)
	}
	if start < 0 {
		start = 0
	}
	if end >= int64(n) {
		end = int64(n) - 1
	}
	if start > end || start >= int64(n) || end < 0 {
		return 0, 0
	}
	return int(start), int(end) + 1
}

func (s *Server) handleGetrange(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 3 {
		return wrongArgsErr("getrange")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("getrange")
	}
	start, err := p.NextInteger()
	if err != nil {
		return notIntegerErr()
	}
	end, err := p.NextInteger()
	if err != nil {
		return notIntegerErr()
	}

	data, ok := s.Store.Get(key)
	if !ok {
		return RedisValue{Type: BulkString, Bulk: []byte{}}
	}

	lo, hi := clampRange(start, end, len(data))
	if lo >= hi {
		return RedisValue{Type: BulkString, Bulk: []byte{}}
	}
	return RedisValue{Type: BulkString, Bulk: append([]byte{}, data[lo:hi]...)}
}

func (s *Server) handleSetrange(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 3 {
		return wrongArgsErr("setrange")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("setrange")
	}
	offset64, err := p.NextInteger()
	if err != nil {
		return notIntegerErr()
	}
	if offset64 < 0 || offset64 > maxSetRangeOffset {
		return errReply("ERR offset is out of range")
	}
	offset := int(offset64)
	patch, err := p.NextBytes()
	if err != nil {
		return wrongArgsErr("setrange")
	}

	result := s.Store.Mutate(key, false, func(existing []byte, existed bool) []byte {
		if len(patch) == 0 {
			return existing
		}
		needed := offset + len(patch)
		buf := make([]byte, needed)
		copy(buf, existing)
		// Pad any gap between the existing data and offset with 0x00,
		// not 0x20: SETRANGE never inserts spaces.
		copy(buf[offset:], patch)
		return buf
	})
	return RedisValue{Type: Integer, Int: int64(len(result))}
}

func (s *Server) handleIncr(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 1 {
		return wrongArgsErr("incr")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("incr")
	}
	return incrByReply(s.Store, key, 1)
}

func (s *Server) handleDecr(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 1 {
		return wrongArgsErr("decr")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("decr")
	}
	return incrByReply(s.Store, key, -1)
}

func (s *Server) handleIncrby(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 2 {
		return wrongArgsErr("incrby")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("incrby")
	}
	delta, err := p.NextInteger()
	if err != nil {
		return notIntegerErr()
	}
	return incrByReply(s.Store, key, delta)
}

func (s *Server) handleDecrby(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 2 {
		return wrongArgsErr("decrby")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("decrby")
	}
	delta, err := p.NextInteger()
	if err != nil {
		return notIntegerErr()
	}
	if delta == minInt64 {
		return notIntegerErr()
	}
	return incrByReply(s.Store, key, -delta)
}

const minInt64 = -1 << 63

func incrByReply(store *Store, key string, delta int64) RedisValue {
	result, ok := store.IncrBy(key, delta)
	if !ok {
		return notIntegerErr()
	}
	return RedisValue{Type: Integer, Int: result}
}

func (s *Server) handleIncrbyfloat(conn *Connection, cmd *Command) RedisValue {
	p := NewCommandParser(cmd)
	if p.Remaining() != 2 {
		return wrongArgsErr("incrbyfloat")
	}
	key, err := p.NextString()
	if err != nil {
		return wrongArgsErr("incrbyfloat")
	}
	deltaStr, err := p.NextString()
	if err != nil {
		return wrongArgsErr("incrbyfloat")
	}
	delta, perr := parseStoredFloat([]byte(deltaStr))
	if perr != nil {
		return notFloatErr()
	}
	result, ok := s.Store.IncrByFloat(key, delta)
	if !ok {
		return notFloatErr()
	}
	return RedisValue{Type: BulkString, Bulk: formatStoredFloat(result)}
}

func (s *Server) handleMget(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) == 0 {
		return wrongArgsErr("mget")
	}
	out := make([]RedisValue, len(cmd.Args))
	for i, key := range cmd.Args {
		if data, ok := s.Store.Get(key); ok {
			out[i] = RedisValue{Type: BulkString, Bulk: data}
		} else {
			out[i] = RedisValue{Type: Null}
		}
	}
	return RedisValue{Type: Array, Array: out}
}

// readPairs walks a parser's remaining arguments as key/value pairs.
func readPairs(p *CommandParser) ([]KV, error) {
	pairs := make([]KV, 0, p.Remaining()/2)
	for p.Remaining() > 0 {
		key, err := p.NextString()
		if err != nil {
			return nil, err
		}
		data, err := p.NextBytes()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, KV{Key: key, Data: data})
	}
	return pairs, nil
}

func (s *Server) handleMset(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) == 0 || len(cmd.Args)%2 != 0 {
		return wrongArgsErr("mset")
	}
	pairs, err := readPairs(NewCommandParser(cmd))
	if err != nil {
		return wrongArgsErr("mset")
	}
	for _, p := range pairs {
		s.Store.Set(p.Key, p.Data)
	}
	return RedisValue{Type: SimpleString, Str: "OK"}
}

// handleMsetnx writes every key only if none of them already exist,
// via Store.SetAllIfNoneExist, which holds the store lock across the
// whole check-then-write sequence so the operation is atomic against
// concurrent writers racing on any of the keys.
func (s *Server) handleMsetnx(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) == 0 || len(cmd.Args)%2 != 0 {
		return wrongArgsErr("msetnx")
	}
	pairs, err := readPairs(NewCommandParser(cmd))
	if err != nil {
		return wrongArgsErr("msetnx")
	}
	if s.Store.SetAllIfNoneExist(pairs) {
		return RedisValue{Type: Integer, Int: 1}
	}
	return RedisValue{Type: Integer, Int: 0}
}

func (s *Server) handleLcs(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) < 2 {
		return wrongArgsErr("lcs")
	}
	key1, key2 := cmd.Args[0], cmd.Args[1]
	wantLen := false
	for _, a := range cmd.Args[2:] {
		if strings.ToUpper(a) == "LEN" {
			wantLen = true
		}
	}

	a, _ := s.Store.Get(key1)
	b, _ := s.Store.Get(key2)

	result := longestCommonSubsequence([]rune(string(a)), []rune(string(b)))
	if wantLen {
		return RedisValue{Type: Integer, Int: int64(len([]rune(result)))}
	}
	return RedisValue{Type: BulkString, Bulk: []byte(result)}
}

// longestCommonSubsequence ports original_source's classic O(n*m) DP LCS
// implementation rune-for-rune for Unicode correctness.
func longestCommonSubsequence(a, b []rune) string {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	length := dp[n][m]
	out := make([]rune, length)
	i, j := n, m
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			length--
			out[length] = a[i-1]
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return string(out)
}
