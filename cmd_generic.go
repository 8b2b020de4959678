/*
Generic keyspace commands: DEL/EXISTS/KEYS/SCAN/TTL/PTTL/TYPE/OBJECT
ENCODING/MEMORY USAGE/DBSIZE/SELECT. These operate on the Store's key
index rather than any single value's contents.
*/
package redkit

import (
	"strconv"
	"strings"
)

func (s *Server) registerGenericHandlers() {
	s.RegisterCommandFunc(string(DEL), s.handleDel)
	s.RegisterCommandFunc(string(EXISTS), s.handleExists)
	s.RegisterCommandFunc(string(KEYS), s.handleKeys)
	s.RegisterCommandFunc(string(SCAN), s.handleScan)
	s.RegisterCommandFunc(string(TTL), s.handleTTL)
	s.RegisterCommandFunc(string(PTTL), s.handlePTTL)
	s.RegisterCommandFunc(string(TYPE), s.handleType)
	s.RegisterCommandFunc(string(OBJECT), s.handleObject)
	s.RegisterCommandFunc(string(MEMORY), s.handleMemory)
	s.RegisterCommandFunc(string(DBSIZE), s.handleDbsize)
	s.RegisterCommandFunc(string(SELECT), s.handleSelect)
}

func (s *Server) handleDel(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) == 0 {
		return wrongArgsErr("del")
	}
	var count int64
	for _, key := range cmd.Args {
		if s.Store.Remove(key) {
			count++
		}
	}
	return RedisValue{Type: Integer, Int: count}
}

func (s *Server) handleExists(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) == 0 {
		return wrongArgsErr("exists")
	}
	var count int64
	for _, key := range cmd.Args {
		if s.Store.Exists(key) {
			count++
		}
	}
	return RedisValue{Type: Integer, Int: count}
}

func (s *Server) handleKeys(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("keys")
	}
	pattern := cmd.Args[0]
	var out []RedisValue
	for _, k := range s.Store.Keys() {
		if matchGlob(pattern, k) {
			out = append(out, RedisValue{Type: BulkString, Bulk: []byte(k)})
		}
	}
	if out == nil {
		out = []RedisValue{}
	}
	return RedisValue{Type: Array, Array: out}
}

func (s *Server) handleScan(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) == 0 {
		return wrongArgsErr("scan")
	}
	cursor, err := strconv.ParseUint(cmd.Args[0], 10, 64)
	if err != nil {
		return errReply("ERR invalid cursor")
	}

	pattern := ""
	count := 10
	args := cmd.Args[1:]
	for i := 0; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "MATCH":
			if i+1 >= len(args) {
				return errReply("ERR syntax error")
			}
			i++
			pattern = args[i]
		case "COUNT":
			if i+1 >= len(args) {
				return errReply("ERR syntax error")
			}
			i++
			n, perr := strconv.Atoi(args[i])
			if perr != nil || n <= 0 {
				return errReply("ERR value is not an integer or out of range")
			}
			count = n
		default:
			return errReply("ERR syntax error")
		}
	}

	keys, next := s.Store.Scan(cursor, count)
	if pattern != "" {
		filtered := keys[:0]
		for _, k := range keys {
			if matchGlob(pattern, k) {
				filtered = append(filtered, k)
			}
		}
		keys = filtered
	}

	items := make([]RedisValue, len(keys))
	for i, k := range keys {
		items[i] = RedisValue{Type: BulkString, Bulk: []byte(k)}
	}

	return RedisValue{
		Type: Array,
		Array: []RedisValue{
			{Type: BulkString, Bulk: []byte(strconv.FormatUint(next, 10))},
			{Type: Array, Array: items},
		},
	}
}

func (s *Server) handleTTL(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("ttl")
	}
	ttl, hasTTL, ok := s.Store.GetTTL(cmd.Args[0])
	if !ok {
		return RedisValue{Type: Integer, Int: -2}
	}
	if !hasTTL {
		return RedisValue{Type: Integer, Int: -1}
	}
	seconds := int64(ttl.Seconds())
	if ttl > 0 && seconds == 0 {
		seconds = 1 // round a sub-second remainder up rather than to 0
	}
	return RedisValue{Type: Integer, Int: seconds}
}

func (s *Server) handlePTTL(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("pttl")
	}
	ttl, hasTTL, ok := s.Store.GetTTL(cmd.Args[0])
	if !ok {
		return RedisValue{Type: Integer, Int: -2}
	}
	if !hasTTL {
		return RedisValue{Type: Integer, Int: -1}
	}
	return RedisValue{Type: Integer, Int: ttl.Milliseconds()}
}

func (s *Server) handleType(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("type")
	}
	if s.Store.Exists(cmd.Args[0]) {
		return RedisValue{Type: SimpleString, Str: "string"}
	}
	return RedisValue{Type: SimpleString, Str: "none"}
}

// handleObject implements OBJECT ENCODING only: this build has exactly
// one internal string encoding, so a present key always reports "raw"
// and a missing one reports Null, with no embstr/raw size split.
func (s *Server) handleObject(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) < 2 || strings.ToUpper(cmd.Args[0]) != "ENCODING" {
		return errReply("ERR syntax error")
	}
	if !s.Store.Exists(cmd.Args[1]) {
		return RedisValue{Type: Null}
	}
	return RedisValue{Type: BulkString, Bulk: []byte("raw")}
}

func (s *Server) handleMemory(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) < 2 || strings.ToUpper(cmd.Args[0]) != "USAGE" {
		return errReply("ERR syntax error")
	}
	data, ok := s.Store.Get(cmd.Args[1])
	if !ok {
		return RedisValue{Type: Null}
	}
	// Raw value length only, no per-entry struct/map overhead accounting.
	return RedisValue{Type: Integer, Int: int64(len(data))}
}

func (s *Server) handleDbsize(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 0 {
		return wrongArgsErr("dbsize")
	}
	return RedisValue{Type: Integer, Int: int64(s.Store.Size())}
}

func (s *Server) handleSelect(conn *Connection, cmd *Command) RedisValue {
	if len(cmd.Args) != 1 {
		return wrongArgsErr("select")
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return notIntegerErr()
	}
	if n != 0 {
		return errReply("ERR DB index is out of range")
	}
	return RedisValue{Type: SimpleString, Str: "OK"}
}
