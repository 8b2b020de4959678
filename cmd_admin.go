/*
Connection and admin/introspection commands: PING/ECHO/QUIT/HELP plus the
INFO/CLIENT/CONFIG/MODULE/COMMAND surface real clients probe during
connection handshakes. Apart from INFO reading the Store's key count,
none of these touch the Store.
*/
package redkit

import (
	"strconv"
	"strings"
)

// registerConnectionHandlers wires the ambient connection commands
// carried over from the teacher's original registerDefaultHandlers.
func (s *Server) registerConnectionHandlers() {
	s.RegisterCommandFunc(string(PING), func(conn *Connection, cmd *Command) RedisValue {
		if len(cmd.Args) == 0 {
			return RedisValue{Type: SimpleString, Str: "PONG"}
		}
		if len(cmd.Args) != 1 {
			return wrongArgsErr("ping")
		}
		return RedisValue{Type: BulkString, Bulk: []byte(cmd.Args[0])}
	})

	s.RegisterCommandFunc(string(ECHO), func(conn *Connection, cmd *Command) RedisValue {
		if len(cmd.Args) != 1 {
			return wrongArgsErr("echo")
		}
		return RedisValue{Type: BulkString, Bulk: []byte(cmd.Args[0])}
	})

	s.RegisterCommandFunc(string(HELP), func(conn *Connection, cmd *Command) RedisValue {
		helpText := "RedKit Redis Server - Supported commands:\n" +
			"PING [message], ECHO message, QUIT\n" +
			"GET/SET/SETNX/GETDEL/GETEX/APPEND/STRLEN/GETRANGE/SETRANGE\n" +
			"INCR/DECR/INCRBY/DECRBY/INCRBYFLOAT/LCS\n" +
			"MGET/MSET/MSETNX/DEL/EXISTS/KEYS/SCAN/TTL/PTTL/TYPE/DBSIZE/SELECT\n" +
			"INFO/CLIENT/CONFIG/MODULE/COMMAND"
		return RedisValue{Type: BulkString, Bulk: []byte(helpText)}
	})

	s.RegisterCommandFunc(string(QUIT), func(conn *Connection, cmd *Command) RedisValue {
		if err := conn.Close(); err != nil {
			return errReply("ERR %s", err)
		}
		return RedisValue{Type: SimpleString, Str: "OK"}
	})
}

// redkitInfo is the static INFO blob, shaped after (and trimmed from)
// the original project's server-info text.
const redkitInfo = "# Server\r\n" +
	"redis_version:7.4.0\r\n" +
	"redis_mode:standalone\r\n" +
	"tcp_port:6379\r\n" +
	"\r\n" +
	"# Clients\r\n" +
	"connected_clients:1\r\n" +
	"\r\n" +
	"# Memory\r\n" +
	"maxmemory:0\r\n" +
	"maxmemory_policy:noeviction\r\n" +
	"\r\n" +
	"# Persistence\r\n" +
	"loading:0\r\n" +
	"rdb_bgsave_in_progress:0\r\n" +
	"aof_enabled:0\r\n" +
	"\r\n" +
	"# Replication\r\n" +
	"role:master\r\n" +
	"connected_slaves:0\r\n" +
	"\r\n" +
	"# Keyspace\r\n"

func (s *Server) registerAdminHandlers() {
	s.RegisterCommandFunc(string(INFO), func(conn *Connection, cmd *Command) RedisValue {
		blob := redkitInfo
		if s.Store != nil {
			n := s.Store.Size()
			if n > 0 {
				blob += "db0:keys=" + strconv.Itoa(n) + ",expires=0,avg_ttl=0\r\n"
			}
		}
		return RedisValue{Type: BulkString, Bulk: []byte(blob)}
	})

	s.RegisterCommandFunc(string(CLIENT), func(conn *Connection, cmd *Command) RedisValue {
		if len(cmd.Args) == 0 {
			return wrongArgsErr("client")
		}
		switch strings.ToUpper(cmd.Args[0]) {
		case "GETNAME":
			return RedisValue{Type: BulkString, Bulk: []byte("")}
		case "SETNAME", "SETINFO", "NO-EVICT", "NO-TOUCH":
			return RedisValue{Type: SimpleString, Str: "OK"}
		case "ID":
			return RedisValue{Type: Integer, Int: 1}
		case "INFO":
			return RedisValue{Type: BulkString, Bulk: []byte("id=1 addr=127.0.0.1:0 name= age=0 cmd=client")}
		case "LIST":
			return RedisValue{Type: BulkString, Bulk: []byte("")}
		default:
			return RedisValue{Type: SimpleString, Str: "OK"}
		}
	})

	s.RegisterCommandFunc(string(CONFIG), func(conn *Connection, cmd *Command) RedisValue {
		if len(cmd.Args) == 0 {
			return wrongArgsErr("config")
		}
		switch strings.ToUpper(cmd.Args[0]) {
		case "GET":
			if len(cmd.Args) < 2 {
				return RedisValue{Type: Array, Array: []RedisValue{}}
			}
			// No configurable parameters are actually backed; report an
			// empty (but well-formed) result for every parameter name.
			return RedisValue{Type: Array, Array: []RedisValue{}}
		case "SET":
			return RedisValue{Type: SimpleString, Str: "OK"}
		default:
			return RedisValue{Type: SimpleString, Str: "OK"}
		}
	})

	s.RegisterCommandFunc(string(MODULE), func(conn *Connection, cmd *Command) RedisValue {
		if len(cmd.Args) > 0 && strings.ToUpper(cmd.Args[0]) == "LIST" {
			return RedisValue{Type: Array, Array: []RedisValue{}}
		}
		return RedisValue{Type: SimpleString, Str: "OK"}
	})

	s.RegisterCommandFunc(string(COMMAND), func(conn *Connection, cmd *Command) RedisValue {
		if len(cmd.Args) > 0 && strings.ToUpper(cmd.Args[0]) == "DOCS" {
			arr := make([]RedisValue, 0, len(commandRoster)*2)
			for _, c := range commandRoster {
				arr = append(arr,
					RedisValue{Type: BulkString, Bulk: []byte(string(c))},
					RedisValue{Type: Array, Array: []RedisValue{}},
				)
			}
			return RedisValue{Type: Array, Array: arr}
		}
		if len(cmd.Args) > 0 && strings.ToUpper(cmd.Args[0]) == "COUNT" {
			return RedisValue{Type: Integer, Int: int64(len(commandRoster))}
		}
		arr := make([]RedisValue, 0, len(commandRoster))
		for _, c := range commandRoster {
			arr = append(arr, RedisValue{
				Type: Array,
				Array: []RedisValue{
					{Type: BulkString, Bulk: []byte(string(c))},
					{Type: Integer, Int: -1},
				},
			})
		}
		return RedisValue{Type: Array, Array: arr}
	})
}
