package sessions

import (
	"fmt"
	"sync"

	"github.com/gomodule/redigo/redis"
)

// memRedis understands the handful of commands the package issues.
type memRedis struct {
	mu      sync.Mutex
	strings map[string][]byte
	hashes  map[string]map[string][]byte
	ttls    map[string]int64
	failOn  string
}

func newMemRedis() *memRedis {
	return &memRedis{
		strings: map[string][]byte{},
		hashes:  map[string]map[string][]byte{},
		ttls:    map[string]int64{},
	}
}

func (m *memRedis) Get() redis.Conn { return &memConn{m: m} }

type memConn struct{ m *memRedis }

func toBytes(v interface{}) []byte {
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return []byte(fmt.Sprint(t))
	}
}

func (c *memConn) Do(cmd string, args ...interface{}) (interface{}, error) {
	m := c.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == cmd {
		return nil, fmt.Errorf("mock_redis_error")
	}

	key := fmt.Sprint(args[0])
	switch cmd {
	case "SET":
		m.strings[key] = toBytes(args[1])
		if len(args) == 4 {
			m.ttls[key] = args[3].(int64)
		}
		return "OK", nil
	case "GET":
		v, ok := m.strings[key]
		if !ok {
			return nil, nil
		}
		return v, nil
	case "DEL":
		delete(m.strings, key)
		return int64(1), nil
	case "HSET":
		if m.hashes[key] == nil {
			m.hashes[key] = map[string][]byte{}
		}
		m.hashes[key][fmt.Sprint(args[1])] = toBytes(args[2])
		return int64(1), nil
	case "HGET":
		v, ok := m.hashes[key][fmt.Sprint(args[1])]
		if !ok {
			return nil, nil
		}
		return v, nil
	case "HDEL":
		delete(m.hashes[key], fmt.Sprint(args[1]))
		return int64(1), nil
	case "HGETALL":
		res := []interface{}{}
		for f, v := range m.hashes[key] {
			res = append(res, []byte(f), v)
		}
		return res, nil
	}
	return nil, fmt.Errorf("memRedis: unsupported command %s", cmd)
}

func (c *memConn) Close() error { return nil }
func (c *memConn) Err() error { return nil }
func (c *memConn) Send(cmd string, args ...interface{}) error { return nil }
func (c *memConn) Flush() error { return nil }
func (c *memConn) Receive() (interface{}, error) { return nil, nil }
