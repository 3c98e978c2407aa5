package tickpool_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tp "github.com/Andrej220/go-utils/tickpool"
)

func TestLocal_ReusedPerWorker(t *testing.T) {
	s := newTestScheduler(t, 1, tp.Options{})

	var created atomic.Int32
	buffers := tp.NewLocal(func() []int {
		created.Add(1)
		return make([]int, 0, 16)
	})

	lens := make(chan int, 3)
	for i := range 3 {
		s.Submit(func(w *tp.Worker) {
			buf := buffers.Get(w)
			*buf = append(*buf, i)
			lens <- len(*buf)
		})
	}

	var got []int
	tickUntil(t, s, 2*time.Second, func() bool {
		for {
			select {
			case n := <-lens:
				got = append(got, n)
			default:
				return len(got) == 3
			}
		}
	})

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, 1, buffers.Len())
}

func TestLocal_SeparateValuesPerWorker(t *testing.T) {
	s := newTestScheduler(t, 2, tp.Options{})

	counters := tp.NewLocal[int](nil)
	release := make(chan struct{})
	var started atomic.Int32
	ptrs := make(chan *int, 2)

	for range 2 {
		s.Submit(func(w *tp.Worker) {
			p := counters.Get(w)
			*p = w.ID() + 1
			started.Add(1)
			<-release
			ptrs <- p
		})
	}
	tickUntil(t, s, 2*time.Second, func() bool { return started.Load() == 2 })
	close(release)

	a, b := <-ptrs, <-ptrs
	require.NotSame(t, a, b)
	assert.ElementsMatch(t, []int{1, 2}, []int{*a, *b})
	assert.Equal(t, 2, counters.Len())
}
