//go:build linux

package shm

import (
	"context"
	"errors"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testName(t *testing.T) string {
	t.Helper()
	return "test-" + uuid.NewString()
}

func TestSegmentCreateAttachDestroy(t *testing.T) {
	name := testName(t)

	a, err := Open(name, Create, 64)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !a.Created() {
		t.Error("creator handle reports Created() == false")
	}
	if a.Size() != 64 {
		t.Errorf("size = %d, want 64", a.Size())
	}
	a.Word32(0).Store(0xdeadbeef)

	b, err := Open(name, CreateOrAttach, 64)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if b.Created() {
		t.Error("attaching handle reports Created() == true")
	}
	if got := b.Word32(0).Load(); got != 0xdeadbeef {
		t.Errorf("shared word = %#x, want 0xdeadbeef", got)
	}
	if got := b.AttachCount(); got != 2 {
		t.Errorf("attach count = %d, want 2", got)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close first handle: %v", err)
	}
	if got := b.AttachCount(); got != 1 {
		t.Errorf("attach count after close = %d, want 1", got)
	}
	if _, err := os.Stat(segmentPath(name)); err != nil {
		t.Errorf("segment file gone while a handle remains: %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("close last handle: %v", err)
	}
	if _, err := os.Stat(segmentPath(name)); !os.IsNotExist(err) {
		t.Errorf("segment file survives last close: %v", err)
	}
	if _, err := os.Stat(lockPath(name)); !os.IsNotExist(err) {
		t.Errorf("lock file survives last close: %v", err)
	}
}

func TestSegmentCloseIdempotent(t *testing.T) {
	s, err := Open(testName(t), Create, 32)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestAttachOnlyMissingChannel(t *testing.T) {
	_, err := Open(testName(t), AttachOnly, 0)
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("err = %v, want ErrChannelNotFound", err)
	}
}

func TestAttachSizeMismatch(t *testing.T) {
	name := testName(t)
	a, err := Open(name, Create, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := Open(name, CreateOrAttach, 128); !errors.Is(err, ErrChannelSizeMismatch) {
		t.Errorf("err = %v, want ErrChannelSizeMismatch", err)
	}
}

func TestAttachRejectsForeignFile(t *testing.T) {
	name := testName(t)
	if err := os.WriteFile(segmentPath(name), make([]byte, 64), 0o600); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(segmentPath(name))
	defer os.Remove(lockPath(name))

	if _, err := Open(name, AttachOnly, 0); !errors.Is(err, ErrBadSegment) {
		t.Errorf("err = %v, want ErrBadSegment", err)
	}
}

func TestInvalidNames(t *testing.T) {
	for _, name := range []string{"", "a/b"} {
		if _, err := Open(name, Create, 16); err == nil {
			t.Errorf("Open(%q) succeeded", name)
		}
	}
}

func TestListIncludesLiveChannels(t *testing.T) {
	name := testName(t)
	s, err := Open(name, Create, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	names, err := List()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(names, name) {
		t.Errorf("List() = %v, missing %q", names, name)
	}
}

func TestInspectChannelDoesNotExtendLifetime(t *testing.T) {
	name := testName(t)
	s, err := Open(name, Create, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Word32(0).Store(42)

	v, err := InspectChannel(name)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	if got := v.AttachCount(); got != 1 {
		t.Errorf("attach count with view open = %d, want 1", got)
	}
	if got := v.Word32(0); got != 42 {
		t.Errorf("view word = %d, want 42", got)
	}
}

func TestMutexMutualExclusion(t *testing.T) {
	var word atomic.Uint32
	mu := NewMutex(&word)

	const goroutines = 8
	const iters = 500
	counter := 0

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				mu.Lock()
				counter++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iters {
		t.Errorf("counter = %d, want %d", counter, goroutines*iters)
	}
}

func TestWaitWordReturnsOnChange(t *testing.T) {
	var word atomic.Uint32

	done := make(chan error, 1)
	go func() {
		done <- WaitWord(context.Background(), &word, 0)
	}()

	time.Sleep(10 * time.Millisecond)
	word.Store(1)
	WakeAll(&word)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitWord: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitWord did not return after wake")
	}
}

func TestWaitWordHonorsCancel(t *testing.T) {
	var word atomic.Uint32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WaitWord(ctx, &word, 0)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitWord did not return after cancel")
	}
}

func TestWaitWordImmediateWhenChanged(t *testing.T) {
	var word atomic.Uint32
	word.Store(7)
	if err := WaitWord(context.Background(), &word, 0); err != nil {
		t.Errorf("WaitWord with stale expectation: %v", err)
	}
}
