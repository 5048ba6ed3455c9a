// Package ipc implements the command dispatcher and wire framing the
// spec's control surface uses (§4.G, §6.2): an ASCII request parsed into
// a typed command, dispatched against the engine's exported operations,
// and a fixed-size binary response record written back to the client.
package ipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Status is the response status tag (§6.2).
type Status uint32

const (
	StatusSuccess Status = iota
	StatusErrorConnection
	StatusErrorInvalidCommand
	StatusErrorTimeout
	StatusErrorPermission
)

// lengthFieldSize is the width of the explicit payload-length field that
// precedes the message bytes.
const lengthFieldSize = 4

// MessageSize is the maximum payload capacity of a response record: 8 KiB
// minus the status tag and the length field.
const MessageSize = 8188 - lengthFieldSize

// ResponseSize is the total wire size of one response record.
const ResponseSize = 4 + lengthFieldSize + MessageSize

// Response is a fixed-size binary record: a status tag, an explicit
// payload length, then up to MessageSize bytes of message. The length
// field is load-bearing — Message may itself be a binary frame
// (EncodeWindowFrame/EncodeWorkspaceFrame) containing embedded zero
// bytes, so the record boundary cannot be inferred by trimming trailing
// zero padding. Messages longer than MessageSize are truncated — callers
// must design commands whose response fits (§4.G).
type Response struct {
	Status  Status
	Message string
}

// Encode writes r as the fixed ResponseSize-byte wire record.
func (r Response) Encode() []byte {
	buf := make([]byte, ResponseSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.Status))
	n := copy(buf[4+lengthFieldSize:], r.Message) // truncation is intentional per §4.G
	binary.LittleEndian.PutUint32(buf[4:4+lengthFieldSize], uint32(n))
	return buf
}

// DecodeResponse parses a ResponseSize-byte wire record.
func DecodeResponse(buf []byte) (Response, error) {
	if len(buf) != ResponseSize {
		return Response{}, fmt.Errorf("ipc: short response record: got %d want %d", len(buf), ResponseSize)
	}
	status := Status(binary.LittleEndian.Uint32(buf[0:4]))
	n := binary.LittleEndian.Uint32(buf[4 : 4+lengthFieldSize])
	if n > MessageSize {
		return Response{}, fmt.Errorf("ipc: response length %d exceeds capacity %d", n, MessageSize)
	}
	msg := buf[4+lengthFieldSize : 4+lengthFieldSize+n]
	return Response{Status: status, Message: string(msg)}, nil
}

// WindowRecord is the fixed-size binary representation of one
// WindowInfo entry inside a query-windows frame.
type WindowRecord struct {
	ID          uint64
	Workspace   int32
	X, Y        int32
	W, H        uint32
	IsMaximized uint8
	IsMinimized uint8
	DockHidden  uint8
	_           [1]byte
}

const windowRecordSize = 8 + 4 + 4 + 4 + 4 + 4 + 1 + 1 + 1 + 1

// WorkspaceRecord is the fixed-size binary representation of one
// WorkspaceInfo entry inside a query-workspaces frame.
type WorkspaceRecord struct {
	ID             int32
	WindowCount    uint32
	MaxWindows     uint32
	AvailableSpace int32
	IsLocked       uint8
	HasMaximized   uint8
	_              [2]byte
}

const workspaceRecordSize = 4 + 4 + 4 + 4 + 1 + 1 + 2

// EncodeWindowFrame builds a query-windows response payload: count:u32,
// capacity:u32, then count fixed-size WindowRecords (§4.G).
func EncodeWindowFrame(records []WindowRecord, capacity uint32) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(records)))
	binary.Write(buf, binary.LittleEndian, capacity)
	for _, r := range records {
		binary.Write(buf, binary.LittleEndian, r)
	}
	return buf.Bytes()
}

// EncodeWorkspaceFrame builds a query-workspaces response payload:
// count:u32, capacity:u32, active_workspace:i32, then count
// WorkspaceRecords.
func EncodeWorkspaceFrame(records []WorkspaceRecord, capacity uint32, active int32) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(records)))
	binary.Write(buf, binary.LittleEndian, capacity)
	binary.Write(buf, binary.LittleEndian, active)
	for _, r := range records {
		binary.Write(buf, binary.LittleEndian, r)
	}
	return buf.Bytes()
}
