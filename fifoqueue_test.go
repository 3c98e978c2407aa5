package tickpool

import (
	"testing"
)

func payloadOf(t *task) string { return t.name }

func pushAll(q *fifoQueue, names ...string) {
	for _, n := range names {
		q.Push(newTask(func(*Worker) {}, n))
	}
}

func popAll(t *testing.T, q *fifoQueue) []string {
	t.Helper()
	var out []string
	for {
		tk, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, payloadOf(tk))
	}
}

func TestFifoGrow_NoWrap(t *testing.T) {
	capacity := 4
	q := newFifoQueue(capacity)

	pushAll(q, "1", "2", "3", "4")
	if q.size != capacity {
		t.Fatalf("expected size=4, got %d", q.size)
	}

	pushAll(q, "5")
	if q.capacity <= capacity {
		t.Fatalf("grow() didn't increase capacity, got %d", q.capacity)
	}
	if q.Len() != 5 {
		t.Fatalf("after grow: expected size=5, got %d", q.Len())
	}

	got := popAll(t, q)
	want := []string{"1", "2", "3", "4", "5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FIFO order broken: expected %v, got %v", want, got)
		}
	}
}

func TestFifoGrow_WithWrap(t *testing.T) {
	q := newFifoQueue(4)

	pushAll(q, "1", "2", "3")
	if tk, _ := q.Pop(); tk.name != "1" {
		t.Fatalf("expected to pop 1, got %s", tk.name)
	}

	// head=1, tail wraps to 1 after two more pushes
	pushAll(q, "4", "5")
	if q.head != 1 || q.tail != 1 || q.size != 4 {
		t.Fatalf("unexpected ring state head=%d tail=%d size=%d", q.head, q.tail, q.size)
	}

	pushAll(q, "6")
	got := popAll(t, q)
	want := []string{"2", "3", "4", "5", "6"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FIFO order broken after wrap: expected %v, got %v", want, got)
		}
	}
}

func TestFifoPushFront(t *testing.T) {
	q := newFifoQueue(2)

	pushAll(q, "a", "b")
	q.PushFront(newTask(func(*Worker) {}, "p1")) // forces grow with head at 0
	q.PushFront(newTask(func(*Worker) {}, "p2"))
	pushAll(q, "c")

	got := popAll(t, q)
	want := []string{"p2", "p1", "a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFifoClosed(t *testing.T) {
	q := newFifoQueue(4)
	pushAll(q, "a", "b")

	q.Close()

	if q.Len() != 0 {
		t.Fatalf("expected closed queue to be empty, got %d", q.Len())
	}
	if q.Push(newTask(func(*Worker) {}, "c")) {
		t.Fatal("push accepted after close")
	}
	if q.PushFront(newTask(func(*Worker) {}, "d")) {
		t.Fatal("push front accepted after close")
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop returned a task after close")
	}
}

func TestFifoDefaultCapacity(t *testing.T) {
	q := newFifoQueue(0)
	if q.capacity != initialFifoCapacity {
		t.Fatalf("capacity = %d; want %d", q.capacity, initialFifoCapacity)
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on empty queue returned a task")
	}
}
