package redkit

import (
	"testing"
	"time"
)

func newTestServerNoListen(t *testing.T) *Server {
	s := NewServer(":0")
	t.Cleanup(func() { s.Store.Close() })
	return s
}

func TestHandleSetGet(t *testing.T) {
	s := newTestServerNoListen(t)

	resp := s.handleSet(nil, &Command{Args: []string{"key", "value"}})
	if resp.Type != SimpleString || resp.Str != "OK" {
		t.Fatalf("SET = %+v", resp)
	}

	resp = s.handleGet(nil, &Command{Args: []string{"key"}})
	if resp.Type != BulkString || string(resp.Bulk) != "value" {
		t.Fatalf("GET = %+v", resp)
	}
}

func TestHandleSetNXGuardReturnsNull(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("key", []byte("existing"))

	resp := s.handleSet(nil, &Command{Args: []string{"key", "value", "NX"}})
	if resp.Type != Null {
		t.Fatalf("SET ... NX on existing key = %+v, want Null", resp)
	}

	data, _ := s.Store.Get("key")
	if string(data) != "existing" {
		t.Fatalf("NX-guarded SET should not have written: got %q", data)
	}
}

func TestHandleSetWithGetOption(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("key", []byte("old"))

	resp := s.handleSet(nil, &Command{Args: []string{"key", "new", "GET"}})
	if resp.Type != BulkString || string(resp.Bulk) != "old" {
		t.Fatalf("SET ... GET = %+v, want old value", resp)
	}
	data, _ := s.Store.Get("key")
	if string(data) != "new" {
		t.Fatalf("value after SET ... GET = %q, want new", data)
	}
}

func TestHandleIncrOnNonNumericIsCanonicalError(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("key", []byte("notanumber"))

	resp := s.handleIncr(nil, &Command{Args: []string{"key"}})
	if resp.Type != ErrorReply || resp.Str != "ERR value is not an integer or out of range" {
		t.Fatalf("INCR on non-numeric = %+v", resp)
	}
}

func TestHandleIncrDecrByRoundtrip(t *testing.T) {
	s := newTestServerNoListen(t)

	resp := s.handleIncrby(nil, &Command{Args: []string{"counter", "10"}})
	if resp.Type != Integer || resp.Int != 10 {
		t.Fatalf("INCRBY = %+v", resp)
	}
	resp = s.handleDecrby(nil, &Command{Args: []string{"counter", "4"}})
	if resp.Type != Integer || resp.Int != 6 {
		t.Fatalf("DECRBY = %+v", resp)
	}
}

func TestHandleIncrByFloatFormatting(t *testing.T) {
	s := newTestServerNoListen(t)

	resp := s.handleIncrbyfloat(nil, &Command{Args: []string{"key", "10.5"}})
	if resp.Type != BulkString || string(resp.Bulk) != "10.5" {
		t.Fatalf("INCRBYFLOAT = %+v", resp)
	}

	resp = s.handleIncrbyfloat(nil, &Command{Args: []string{"key", "-0.5"}})
	if string(resp.Bulk) != "10" {
		t.Fatalf("INCRBYFLOAT to whole number = %q, want \"10\"", resp.Bulk)
	}
}

func TestHandleGetRangeNegativeIndices(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("key", []byte("Hello World"))

	resp := s.handleGetrange(nil, &Command{Args: []string{"key", "-5", "-1"}})
	if string(resp.Bulk) != "World" {
		t.Fatalf("GETRANGE -5 -1 = %q, want \"World\"", resp.Bulk)
	}

	resp = s.handleGetrange(nil, &Command{Args: []string{"key", "0", "-1"}})
	if string(resp.Bulk) != "Hello World" {
		t.Fatalf("GETRANGE 0 -1 = %q, want full string", resp.Bulk)
	}
}

func TestHandleSetRangePadsWithNullBytes(t *testing.T) {
	s := newTestServerNoListen(t)

	resp := s.handleSetrange(nil, &Command{Args: []string{"key", "5", "hello"}})
	if resp.Type != Integer || resp.Int != 10 {
		t.Fatalf("SETRANGE = %+v", resp)
	}

	data, _ := s.Store.Get("key")
	want := append([]byte{0, 0, 0, 0, 0}, []byte("hello")...)
	if string(data) != string(want) {
		t.Fatalf("SETRANGE padding = %q, want %q", data, want)
	}
}

func TestHandleAppendPreservesCreatedAt(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("key", []byte("hello"))
	first, _ := s.Store.GetValue("key")

	resp := s.handleAppend(nil, &Command{Args: []string{"key", " world"}})
	if resp.Type != Integer || resp.Int != 11 {
		t.Fatalf("APPEND = %+v", resp)
	}

	second, _ := s.Store.GetValue("key")
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("APPEND should preserve CreatedAt")
	}
}

func TestHandleMsetnxAtomicity(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("b", []byte("existing"))

	resp := s.handleMsetnx(nil, &Command{Args: []string{"a", "1", "b", "2"}})
	if resp.Type != Integer || resp.Int != 0 {
		t.Fatalf("MSETNX with an existing key = %+v, want 0", resp)
	}
	if s.Store.Exists("a") {
		t.Fatal("MSETNX must not write any key when one already exists")
	}

	resp = s.handleMsetnx(nil, &Command{Args: []string{"c", "1", "d", "2"}})
	if resp.Type != Integer || resp.Int != 1 {
		t.Fatalf("MSETNX on fresh keys = %+v, want 1", resp)
	}
}

func TestHandleLcs(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.Set("key1", []byte("ohmytext"))
	s.Store.Set("key2", []byte("mynewtext"))

	resp := s.handleLcs(nil, &Command{Args: []string{"key1", "key2"}})
	if string(resp.Bulk) != "mytext" {
		t.Fatalf("LCS = %q, want \"mytext\"", resp.Bulk)
	}

	resp = s.handleLcs(nil, &Command{Args: []string{"key1", "key2", "LEN"}})
	if resp.Type != Integer || resp.Int != 6 {
		t.Fatalf("LCS LEN = %+v, want 6", resp)
	}
}

func TestHandleGetexPersist(t *testing.T) {
	s := newTestServerNoListen(t)
	s.Store.SetWithTTL("key", []byte("v"), time.Hour)

	resp := s.handleGetex(nil, &Command{Args: []string{"key", "PERSIST"}})
	if string(resp.Bulk) != "v" {
		t.Fatalf("GETEX = %+v", resp)
	}
	_, hasTTL, ok := s.Store.GetTTL("key")
	if !ok || hasTTL {
		t.Fatal("GETEX PERSIST should remove the TTL")
	}
}
