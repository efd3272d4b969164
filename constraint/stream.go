package constraint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/springjoint/common"
)

var ErrShortMessage = errors.New("constraint: message too short")

// SaveFlags and LoadFlags are host flags passed through every Save/Load.
type SaveFlags uint32
type LoadFlags uint32

const (
	SaveNone            SaveFlags = 0
	SaveLevelTransition SaveFlags = 1 << 0
)

const (
	LoadNone            LoadFlags = 0
	LoadLevelTransition LoadFlags = 1 << 0
	LoadRestoreGame     LoadFlags = 1 << 1
)

// MessageWriter writes ordered primitives.
type MessageWriter interface {
	WriteUint32(v uint32)
	WriteFloat64(v float64)
	WriteBool(v bool)
	WriteString(v string)
	WriteVec3(v common.Vec3)
	WriteRigidTransform(v common.RigidTransform)
}

// MessageReader reads primitives in the order they were written. After the
// first failure every read returns a zero value and Err reports the failure.
type MessageReader interface {
	ReadUint32() uint32
	ReadFloat64() float64
	ReadBool() bool
	ReadString() string
	ReadVec3() common.Vec3
	ReadRigidTransform() common.RigidTransform
	Err() error
}

// Message is a little-endian in-memory stream implementing both interfaces.
type Message struct {
	buf []byte
	off int
	err error
}

func NewMessage() *Message {
	return &Message{}
}

// NewMessageFrom wraps data for reading.
func NewMessageFrom(data []byte) *Message {
	return &Message{buf: data}
}

func (m *Message) Bytes() []byte {
	return m.buf
}

// Remaining reports how many unread bytes are left.
func (m *Message) Remaining() int {
	return len(m.buf) - m.off
}

func (m *Message) Err() error {
	return m.err
}

func (m *Message) WriteUint32(v uint32) {
	m.buf = binary.LittleEndian.AppendUint32(m.buf, v)
}

func (m *Message) WriteFloat64(v float64) {
	m.buf = binary.LittleEndian.AppendUint64(m.buf, math.Float64bits(v))
}

func (m *Message) WriteBool(v bool) {
	if v {
		m.buf = append(m.buf, 1)
		return
	}
	m.buf = append(m.buf, 0)
}

func (m *Message) WriteString(v string) {
	m.WriteUint32(uint32(len(v)))
	m.buf = append(m.buf, v...)
}

func (m *Message) WriteVec3(v common.Vec3) {
	m.WriteFloat64(v.X)
	m.WriteFloat64(v.Y)
	m.WriteFloat64(v.Z)
}

func (m *Message) WriteRigidTransform(v common.RigidTransform) {
	m.WriteVec3(v.Position)
	m.WriteFloat64(v.Rotation.W)
	m.WriteFloat64(v.Rotation.X)
	m.WriteFloat64(v.Rotation.Y)
	m.WriteFloat64(v.Rotation.Z)
}

func (m *Message) take(n int) []byte {
	if m.err != nil {
		return nil
	}
	if n < 0 || m.Remaining() < n {
		m.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortMessage, n, m.off, m.Remaining())
		return nil
	}
	b := m.buf[m.off : m.off+n]
	m.off += n
	return b
}

func (m *Message) ReadUint32() uint32 {
	b := m.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (m *Message) ReadFloat64() float64 {
	b := m.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (m *Message) ReadBool() bool {
	b := m.take(1)
	return b != nil && b[0] != 0
}

// ReadString reads a length-prefixed string. A length longer than the rest
// of the message is a short read, so anything WriteString produced reads back.
func (m *Message) ReadString() string {
	n := m.ReadUint32()
	if m.err != nil {
		return ""
	}
	if uint64(n) > uint64(m.Remaining()) {
		m.err = fmt.Errorf("%w: string of %d bytes at offset %d, have %d", ErrShortMessage, n, m.off, m.Remaining())
		return ""
	}
	return string(m.take(int(n)))
}

func (m *Message) ReadVec3() common.Vec3 {
	return common.Vec3{X: m.ReadFloat64(), Y: m.ReadFloat64(), Z: m.ReadFloat64()}
}

func (m *Message) ReadRigidTransform() common.RigidTransform {
	pos := m.ReadVec3()
	rot := common.Quat{W: m.ReadFloat64(), X: m.ReadFloat64(), Y: m.ReadFloat64(), Z: m.ReadFloat64()}
	return common.RigidTransform{Position: pos, Rotation: rot}
}

// WriteBytes writes a length-prefixed blob.
func (m *Message) WriteBytes(v []byte) {
	m.WriteUint32(uint32(len(v)))
	m.buf = append(m.buf, v...)
}

// ReadBytes reads a blob written by WriteBytes. The result aliases the
// message buffer.
func (m *Message) ReadBytes() []byte {
	n := m.ReadUint32()
	if m.err != nil {
		return nil
	}
	return m.take(int(n))
}
