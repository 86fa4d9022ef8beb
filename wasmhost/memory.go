package wasmhost

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/rbuf/errors"
)

// Memory is the slice of guest linear memory the host functions need.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// GuestMemory adapts wazero memory to Memory with structured bounds errors.
type GuestMemory struct {
	mem api.Memory
}

// NewGuestMemory wraps mem. A nil mem fails every access.
func NewGuestMemory(mem api.Memory) *GuestMemory {
	return &GuestMemory{mem: mem}
}

// Read returns a view of guest memory; it is only valid until the guest runs again.
func (m *GuestMemory) Read(offset uint32, length uint32) ([]byte, error) {
	if m.mem == nil {
		return nil, errors.OutOfBounds(errors.PhaseHost, offset, length)
	}
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseHost, offset, length)
	}
	return data, nil
}

func (m *GuestMemory) Write(offset uint32, data []byte) error {
	if m.mem == nil || !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseHost, offset, uint32(len(data)))
	}
	return nil
}
