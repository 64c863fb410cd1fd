// Package redisfake answers go-redis commands from an in-memory map through a
// client hook, so cache and token code can be tested without a server. Only
// the string commands the repo uses are supported; expirations are recorded
// but never enforced.
package redisfake

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Server struct {
	mu   sync.Mutex
	data map[string]string

	// BeforeCommand, when set, runs before each command is applied. It may
	// call back into the Server (Incr, Set) to simulate a concurrent client.
	BeforeCommand func(name string, args []any)
}

// New returns a client whose commands are served by the returned Server.
func New() (*redis.Client, *Server) {
	s := &Server{data: map[string]string{}}
	rdb := redis.NewClient(&redis.Options{Addr: "redisfake:0"})
	rdb.AddHook(s)
	return rdb, s
}

// Keys returns a snapshot of the stored keys and values.
func (s *Server) Keys() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

func (s *Server) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Server) Set(key, val string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = val
}

// Incr bumps an integer key the way INCR does and returns the new value.
func (s *Server) Incr(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _ := strconv.ParseInt(s.data[key], 10, 64)
	n++
	s.data[key] = strconv.FormatInt(n, 10)
	return n
}

func (s *Server) DialHook(next redis.DialHook) redis.DialHook { return next }

func (s *Server) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		s.apply(cmd)
		return cmd.Err()
	}
}

func (s *Server) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			s.apply(cmd)
		}
		return nil
	}
}

func (s *Server) apply(cmd redis.Cmder) {
	name, args := cmd.Name(), cmd.Args()
	if s.BeforeCommand != nil {
		s.BeforeCommand(name, args)
	}

	switch name {
	case "ping":
		setStatus(cmd, "PONG")
	case "multi", "exec":
		setStatus(cmd, "OK")
	case "get", "getdel":
		v, ok := s.lookup(str(args[1]), name == "getdel")
		if !ok {
			cmd.SetErr(redis.Nil)
			return
		}
		cmd.(*redis.StringCmd).SetVal(v)
	case "set":
		s.Set(str(args[1]), str(args[2]))
		setStatus(cmd, "OK")
	case "setex":
		s.Set(str(args[1]), str(args[3]))
		setStatus(cmd, "OK")
	case "incr":
		cmd.(*redis.IntCmd).SetVal(s.Incr(str(args[1])))
	case "del":
		var n int64
		for _, k := range args[1:] {
			if s.del(str(k)) {
				n++
			}
		}
		cmd.(*redis.IntCmd).SetVal(n)
	case "expire":
		_, ok := s.Get(str(args[1]))
		cmd.(*redis.BoolCmd).SetVal(ok)
	default:
		cmd.SetErr(fmt.Errorf("redisfake: unsupported command %q", name))
	}
}

func (s *Server) lookup(key string, remove bool) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if ok && remove {
		delete(s.data, key)
	}
	return v, ok
}

func (s *Server) del(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

func setStatus(cmd redis.Cmder, v string) {
	if c, ok := cmd.(*redis.StatusCmd); ok {
		c.SetVal(v)
	}
}

func str(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
