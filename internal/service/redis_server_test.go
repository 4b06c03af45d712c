package service

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// memRedis speaks enough RESP for the submission guard: SET [NX], SETNX, GET,
// DEL and the compare-and-delete release script.
type memRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemRedisClient(t *testing.T) (*redis.Client, *memRedis) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &memRedis{data: map[string]string{}}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.serve(conn)
		}
	}()

	client := redis.NewClient(&redis.Options{Addr: ln.Addr().String(), MaxRetries: -1})
	t.Cleanup(func() {
		client.Close()
		ln.Close()
	})
	return client, srv
}

func (m *memRedis) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memRedis) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		if _, err := io.WriteString(conn, m.exec(args)); err != nil {
			return
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "*") {
		return nil, fmt.Errorf("unexpected line %q", line)
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimRight(header, "\r\n")[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func bulk(v string) string {
	return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
}

func (m *memRedis) exec(args []string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "SETNX":
		if _, ok := m.data[args[1]]; ok {
			return ":0\r\n"
		}
		m.data[args[1]] = args[2]
		return ":1\r\n"
	case "SET":
		nx := false
		for _, a := range args[3:] {
			if strings.EqualFold(a, "nx") {
				nx = true
			}
		}
		if _, ok := m.data[args[1]]; ok && nx {
			return "$-1\r\n"
		}
		m.data[args[1]] = args[2]
		return "+OK\r\n"
	case "GET":
		if v, ok := m.data[args[1]]; ok {
			return bulk(v)
		}
		return "$-1\r\n"
	case "DEL":
		n := 0
		for _, k := range args[1:] {
			if _, ok := m.data[k]; ok {
				delete(m.data, k)
				n++
			}
		}
		return fmt.Sprintf(":%d\r\n", n)
	case "EVALSHA":
		return "-NOSCRIPT No matching script. Please use EVAL.\r\n"
	case "EVAL":
		// EVAL script 1 key token
		if len(args) < 5 {
			return "-ERR wrong number of arguments\r\n"
		}
		if m.data[args[3]] == args[4] {
			delete(m.data, args[3])
			return ":1\r\n"
		}
		return ":0\r\n"
	}
	return "-ERR unknown command '" + args[0] + "'\r\n"
}
