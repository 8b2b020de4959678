/*
Package redkit: command registry for the implemented RESP command set.

This file defines the CommandType constants for every command this build
actually implements, plus the wiring that registers their default,
Store-backed handlers. Command categories outside this build's scope
(hashes, lists, sets, sorted sets, streams, bitmaps, HyperLogLog,
geospatial, JSON, full-text search, time series, vector sets, pub/sub,
transactions, scripting, clustering) have no constants here — see
DESIGN.md for why each is out of scope.
*/
package redkit

// CommandType represents a Redis command name as a typed string constant.
type CommandType string

const (
	// Connection commands
	PING CommandType = "PING"
	ECHO CommandType = "ECHO"
	QUIT CommandType = "QUIT"
	HELP CommandType = "HELP"

	// String commands
	APPEND      CommandType = "APPEND"
	DECR        CommandType = "DECR"
	DECRBY      CommandType = "DECRBY"
	GET         CommandType = "GET"
	GETDEL      CommandType = "GETDEL"
	GETEX       CommandType = "GETEX"
	GETRANGE    CommandType = "GETRANGE"
	INCR        CommandType = "INCR"
	INCRBY      CommandType = "INCRBY"
	INCRBYFLOAT CommandType = "INCRBYFLOAT"
	LCS         CommandType = "LCS"
	MGET        CommandType = "MGET"
	MSET        CommandType = "MSET"
	MSETNX      CommandType = "MSETNX"
	SET         CommandType = "SET"
	SETNX       CommandType = "SETNX"
	SETRANGE    CommandType = "SETRANGE"
	STRLEN      CommandType = "STRLEN"

	// Generic / keyspace commands
	DBSIZE CommandType = "DBSIZE"
	DEL    CommandType = "DEL"
	EXISTS CommandType = "EXISTS"
	KEYS   CommandType = "KEYS"
	OBJECT CommandType = "OBJECT"
	PTTL   CommandType = "PTTL"
	SCAN   CommandType = "SCAN"
	SELECT CommandType = "SELECT"
	TTL    CommandType = "TTL"
	TYPE   CommandType = "TYPE"

	// Admin / introspection commands
	CLIENT  CommandType = "CLIENT"
	COMMAND CommandType = "COMMAND"
	CONFIG  CommandType = "CONFIG"
	INFO    CommandType = "INFO"
	MEMORY  CommandType = "MEMORY"
	MODULE  CommandType = "MODULE"
)

// commandRoster lists every command this server implements, used by the
// COMMAND / COMMAND DOCS introspection handlers. The original project
// generates this list via a derive macro (enum_variants); a plain slice
// literal is the idiomatic Go substitute.
var commandRoster = []CommandType{
	PING, ECHO, QUIT, HELP,
	APPEND, DECR, DECRBY, GET, GETDEL, GETEX, GETRANGE,
	INCR, INCRBY, INCRBYFLOAT, LCS, MGET, MSET, MSETNX,
	SET, SETNX, SETRANGE, STRLEN,
	DBSIZE, DEL, EXISTS, KEYS, OBJECT, PTTL, SCAN, SELECT, TTL, TYPE,
	CLIENT, COMMAND, CONFIG, INFO, MEMORY, MODULE,
}

// registerDefaultHandlers wires every implemented command to its real,
// Store-backed handler. Callers may override any of these afterwards by
// calling RegisterCommand/RegisterCommandFunc again with the same name.
func (s *Server) registerDefaultHandlers() {
	s.registerConnectionHandlers()
	s.registerStringHandlers()
	s.registerGenericHandlers()
	s.registerAdminHandlers()
}

func (s *Server) registerPingHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(PING), f)
}

func (s *Server) registerEchoHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(ECHO), f)
}

func (s *Server) registerQuitHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(QUIT), f)
}

func (s *Server) registerHelpHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(HELP), f)
}

func (s *Server) registerGetHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(GET), f)
}

func (s *Server) registerSetHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(SET), f)
}

func (s *Server) registerDelHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(DEL), f)
}

func (s *Server) registerTtlHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(TTL), f)
}

func (s *Server) registerKeysHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(KEYS), f)
}

func (s *Server) registerDbSizeHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(DBSIZE), f)
}

func (s *Server) registerInfoHandler(f func(conn *Connection, cmd *Command) RedisValue) {
	s.RegisterCommandFunc(string(INFO), f)
}
