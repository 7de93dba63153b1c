package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("sess-1")
	assert.False(t, ok)

	s.Set("sess-1", "Diseases")
	category, ok := s.Get("sess-1")
	assert.True(t, ok)
	assert.Equal(t, "Diseases", category)
}

func TestLastWriterWins(t *testing.T) {
	s := NewStore()
	s.Set("sess-1", "Diseases")
	s.Set("sess-1", "Climate")

	category, _ := s.Get("sess-1")
	assert.Equal(t, "Climate", category)
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentSessionsDoNotCorrupt(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%d", n)
			s.Set(id, fmt.Sprintf("cat-%d", n))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	for i := 0; i < 50; i++ {
		category, ok := s.Get(fmt.Sprintf("sess-%d", i))
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("cat-%d", i), category)
	}
}
