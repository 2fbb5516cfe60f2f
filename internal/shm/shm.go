// Package shm maps the POSIX shared memory segments that back a Modbus
// server's register arrays. Segments are created and sized by the server
// process; this package only attaches to them.
package shm

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// shmDir is where the C library places POSIX shared memory objects on Linux.
const shmDir = "/dev/shm"

// MaxRegisters is the largest valid register count per array (16 bit
// addressing).
const MaxRegisters = 0x10000

// Segment is one mapped shared memory object.
type Segment struct {
	name string
	fd   int
	data []byte
}

// Open attaches to an existing shared memory object. path is the full path
// of the backing file; a missing or empty object is an error, the segment
// is never created or resized here.
func Open(path string) (*Segment, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open shared memory '%s': %w", path, err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stat shared memory '%s': %w", path, err)
	}
	if st.Size == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("shared memory '%s' is empty", path)
	}

	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap shared memory '%s': %w", path, err)
	}

	return &Segment{name: path, fd: fd, data: data}, nil
}

func (s *Segment) Name() string { return s.name }
func (s *Segment) Size() int    { return len(s.data) }
func (s *Segment) Data() []byte { return s.data }

// Lock acquires the advisory writer lock on the segment. It blocks until
// other writers holding the lock release it.
func (s *Segment) Lock() error {
	if err := unix.Flock(s.fd, unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock shared memory '%s': %w", s.name, err)
	}
	return nil
}

// Unlock releases the advisory writer lock.
func (s *Segment) Unlock() error {
	if err := unix.Flock(s.fd, unix.LOCK_UN); err != nil {
		return fmt.Errorf("unlock shared memory '%s': %w", s.name, err)
	}
	return nil
}

// Close unmaps the segment and closes its descriptor, which also drops any
// held lock.
func (s *Segment) Close() error {
	var errs []error
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			errs = append(errs, fmt.Errorf("munmap '%s': %w", s.name, err))
		}
		s.data = nil
	}
	if s.fd >= 0 {
		if err := unix.Close(s.fd); err != nil {
			errs = append(errs, fmt.Errorf("close '%s': %w", s.name, err))
		}
		s.fd = -1
	}
	return errors.Join(errs...)
}

// Group holds the four register arrays of one Modbus shared memory set:
// <prefix>DO, <prefix>DI (1 byte per register) and <prefix>AO, <prefix>AI
// (2 bytes per register).
type Group struct {
	DO, DI, AO, AI *Segment
}

// OpenGroup attaches to the four segments of the given name prefix under
// /dev/shm and validates their sizes.
func OpenGroup(prefix string) (*Group, error) {
	return OpenGroupDir(shmDir, prefix)
}

// OpenGroupDir is OpenGroup with an explicit directory, for systems where
// the shared memory objects live somewhere other than /dev/shm.
func OpenGroupDir(dir, prefix string) (*Group, error) {
	g := &Group{}

	open := func(suffix string) (*Segment, error) {
		return Open(filepath.Join(dir, prefix+suffix))
	}

	var err error
	if g.DO, err = open("DO"); err == nil {
		if g.DI, err = open("DI"); err == nil {
			if g.AO, err = open("AO"); err == nil {
				g.AI, err = open("AI")
			}
		}
	}
	if err != nil {
		g.Close()
		return nil, err
	}

	if err := g.validate(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func (g *Group) validate() error {
	for _, s := range []*Segment{g.DO, g.DI} {
		if s.Size() > MaxRegisters {
			return fmt.Errorf("shared memory '%s' is too large to be a valid modbus register array", s.Name())
		}
	}
	for _, s := range []*Segment{g.AO, g.AI} {
		if s.Size()%2 != 0 {
			return fmt.Errorf("the size of shared memory '%s' is odd, not a valid modbus register array", s.Name())
		}
		if s.Size()/2 > MaxRegisters {
			return fmt.Errorf("shared memory '%s' is too large to be a valid modbus register array", s.Name())
		}
	}
	return nil
}

// Registers returns the register counts of the four arrays in do, di, ao,
// ai order.
func (g *Group) Registers() (do, di, ao, ai int) {
	return g.DO.Size(), g.DI.Size(), g.AO.Size() / 2, g.AI.Size() / 2
}

// Lock takes the writer lock on all four segments.
func (g *Group) Lock() error {
	for _, s := range []*Segment{g.DO, g.DI, g.AO, g.AI} {
		if err := s.Lock(); err != nil {
			return err
		}
	}
	return nil
}

// Unlock releases the writer lock on all four segments.
func (g *Group) Unlock() error {
	var errs []error
	for _, s := range []*Segment{g.DO, g.DI, g.AO, g.AI} {
		if s != nil {
			if err := s.Unlock(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases all mapped segments. Safe on a partially opened group.
func (g *Group) Close() error {
	var errs []error
	for _, s := range []*Segment{g.DO, g.DI, g.AO, g.AI} {
		if s != nil {
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
