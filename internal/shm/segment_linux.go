//go:build linux

package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

// Mode selects segment open behavior.
type Mode int

const (
	// Create allocates a new segment, or attaches when a compatible
	// segment already exists under the name.
	Create Mode = iota
	// CreateOrAttach attaches when the segment exists, creates otherwise.
	CreateOrAttach
	// AttachOnly fails with ErrChannelNotFound when no segment exists.
	AttachOnly
)

var (
	// ErrChannelNotFound reports an AttachOnly open of a nonexistent channel.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrChannelSizeMismatch reports a size disagreement with an existing channel.
	ErrChannelSizeMismatch = errors.New("channel size mismatch")
	// ErrBadSegment reports a mapping that is not a shmpipe segment or
	// carries an unsupported layout version.
	ErrBadSegment = errors.New("not a shmpipe segment")
)

const (
	segMagic   = 0x53485031 // "SHP1"
	segVersion = 1

	// HeaderBytes is the size of the segment prefix owned by this
	// package. Caller offsets are relative to the end of the prefix.
	HeaderBytes = 16

	offMagic    = 0
	offVersion  = 4
	offRefCount = 8

	namePrefix = "shmpipe."
	lockSuffix = ".lock"
)

var shmDir = "/dev/shm"

// Segment is one attached process's view of a named shared memory region.
type Segment struct {
	name string
	path string
	data []byte
	lock *flock.Flock

	created bool
	closed  bool
}

func segmentPath(name string) string { return filepath.Join(shmDir, namePrefix+name) }
func lockPath(name string) string    { return segmentPath(name) + lockSuffix }

func validateName(name string) error {
	if name == "" {
		return errors.New("channel name must not be empty")
	}
	if strings.ContainsAny(name, "/\x00") || len(name) > 200 {
		return fmt.Errorf("invalid channel name %q", name)
	}
	return nil
}

// Open creates or attaches the named segment. size is the caller-visible
// region in bytes, excluding the segment prefix; AttachOnly callers may
// pass 0 to accept whatever size the creator chose. The returned segment
// holds one reference; Close releases it and the last release destroys
// the OS object.
func Open(name string, mode Mode, size int) (*Segment, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if size < 0 || (mode != AttachOnly && size == 0) {
		return nil, fmt.Errorf("invalid segment size %d", size)
	}

	lock := flock.New(lockPath(name))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock channel %q: %w", name, err)
	}
	defer func() { _ = lock.Unlock() }()

	path := segmentPath(name)
	total := HeaderBytes + size

	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	switch {
	case err == nil:
		defer f.Close()
		return attach(name, path, f, size)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("open channel %q: %w", name, err)
	case mode == AttachOnly:
		return nil, fmt.Errorf("channel %q: %w", name, ErrChannelNotFound)
	}

	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create channel %q: %w", name, err)
	}
	defer f.Close()

	if err := f.Truncate(int64(total)); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("size channel %q: %w", name, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("map channel %q: %w", name, err)
	}

	s := &Segment{name: name, path: path, data: data, lock: flock.New(lockPath(name)), created: true}
	s.prefixWord(offMagic).Store(segMagic)
	s.prefixWord(offVersion).Store(segVersion)
	s.prefixWord(offRefCount).Store(1)
	return s, nil
}

// attach maps an existing segment file, verifying identity and size.
// Caller holds the channel lock.
func attach(name, path string, f *os.File, size int) (*Segment, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat channel %q: %w", name, err)
	}
	total := int(fi.Size())
	if total < HeaderBytes {
		return nil, fmt.Errorf("channel %q: %w", name, ErrBadSegment)
	}
	if size > 0 && total != HeaderBytes+size {
		return nil, fmt.Errorf("channel %q holds %d bytes, want %d: %w",
			name, total-HeaderBytes, size, ErrChannelSizeMismatch)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map channel %q: %w", name, err)
	}

	s := &Segment{name: name, path: path, data: data, lock: flock.New(lockPath(name))}
	if s.prefixWord(offMagic).Load() != segMagic || s.prefixWord(offVersion).Load() != segVersion {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("channel %q: %w", name, ErrBadSegment)
	}
	s.prefixWord(offRefCount).Add(1)
	return s, nil
}

// Close drops this handle's reference. The last reference unmaps and
// removes the OS object so the name can be reused. Close is idempotent.
func (s *Segment) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock channel %q: %w", s.name, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	last := s.prefixWord(offRefCount).Add(^uint32(0)) == 0
	err := unix.Munmap(s.data)
	s.data = nil
	if last {
		if rmErr := os.Remove(s.path); rmErr != nil && err == nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
		_ = os.Remove(lockPath(s.name))
	}
	if err != nil {
		return fmt.Errorf("close channel %q: %w", s.name, err)
	}
	return nil
}

// Name returns the channel name the segment was opened under.
func (s *Segment) Name() string { return s.name }

// Created reports whether this handle allocated the segment.
func (s *Segment) Created() bool { return s.created }

// AttachCount returns the current number of attached handles.
func (s *Segment) AttachCount() uint32 { return s.prefixWord(offRefCount).Load() }

// Size returns the caller-visible region size in bytes.
func (s *Segment) Size() int { return len(s.data) - HeaderBytes }

// Bytes returns n caller-region bytes starting at off.
func (s *Segment) Bytes(off, n int) []byte {
	return s.data[HeaderBytes+off : HeaderBytes+off+n]
}

// Word32 returns the caller-region word at off as an atomic. off must be
// 4-byte aligned.
func (s *Segment) Word32(off int) *atomic.Uint32 {
	return (*atomic.Uint32)(unsafe.Pointer(&s.data[HeaderBytes+off]))
}

// Word64 returns the caller-region word at off as an atomic. off must be
// 8-byte aligned.
func (s *Segment) Word64(off int) *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Pointer(&s.data[HeaderBytes+off]))
}

func (s *Segment) prefixWord(off int) *atomic.Uint32 {
	return (*atomic.Uint32)(unsafe.Pointer(&s.data[off]))
}

// List returns the names of all live channels on this machine, sorted.
func List() ([]string, error) {
	entries, err := os.ReadDir(shmDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", shmDir, err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !strings.HasPrefix(n, namePrefix) || strings.HasSuffix(n, lockSuffix) {
			continue
		}
		names = append(names, strings.TrimPrefix(n, namePrefix))
	}
	sort.Strings(names)
	return names, nil
}

// View is a read-only mapping of a segment used for inspection. Unlike a
// Segment handle it does not register in the attach count, so observing a
// channel never extends its lifetime.
type View struct {
	data []byte
}

// InspectChannel maps the named channel read-only.
func InspectChannel(name string) (*View, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(segmentPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("channel %q: %w", name, ErrChannelNotFound)
		}
		return nil, fmt.Errorf("open channel %q: %w", name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat channel %q: %w", name, err)
	}
	if fi.Size() < HeaderBytes {
		return nil, fmt.Errorf("channel %q: %w", name, ErrBadSegment)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map channel %q: %w", name, err)
	}
	v := &View{data: data}
	if v.word32(offMagic).Load() != segMagic {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("channel %q: %w", name, ErrBadSegment)
	}
	return v, nil
}

// Close unmaps the view.
func (v *View) Close() error {
	if v.data == nil {
		return nil
	}
	err := unix.Munmap(v.data)
	v.data = nil
	return err
}

// AttachCount returns the number of handles attached to the channel.
func (v *View) AttachCount() uint32 { return v.word32(offRefCount).Load() }

// Word32 returns the caller-region word at off.
func (v *View) Word32(off int) uint32 {
	return v.word32(HeaderBytes + off).Load()
}

// Word64 returns the caller-region word at off.
func (v *View) Word64(off int) uint64 {
	return (*atomic.Uint64)(unsafe.Pointer(&v.data[HeaderBytes+off])).Load()
}

func (v *View) word32(off int) *atomic.Uint32 {
	return (*atomic.Uint32)(unsafe.Pointer(&v.data[off]))
}
