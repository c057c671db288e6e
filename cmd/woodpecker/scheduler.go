package main

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// taskMsg carries a scheduled continuation into the update loop.
type taskMsg func()

// programScheduler runs continuations as messages of a bubbletea program, so
// they execute on the same goroutine as Update.
type programScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *programScheduler) attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *programScheduler) After(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(taskMsg(f))
		}
	})
}

func (s *programScheduler) Now() time.Time { return time.Now() }
