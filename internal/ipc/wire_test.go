package ipc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/ipc"
)

func TestResponseEncodeDecodeRoundTrip(t *testing.T) {
	resp := ipc.Response{Status: ipc.StatusSuccess, Message: "Moved window 1 to workspace 2"}

	buf := resp.Encode()
	assert.Len(t, buf, ipc.ResponseSize)

	decoded, err := ipc.DecodeResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, resp.Status, decoded.Status)
	assert.Equal(t, resp.Message, decoded.Message)
}

func TestResponseEncodeTruncatesOversizedMessage(t *testing.T) {
	huge := make([]byte, ipc.MessageSize*2)
	for i := range huge {
		huge[i] = 'x'
	}
	resp := ipc.Response{Status: ipc.StatusSuccess, Message: string(huge)}

	buf := resp.Encode()
	assert.Len(t, buf, ipc.ResponseSize)
}

func TestDecodeResponseRejectsWrongSize(t *testing.T) {
	_, err := ipc.DecodeResponse([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestResponseRoundTripsBinaryFrameWithTrailingZeros(t *testing.T) {
	records := []ipc.WindowRecord{
		{ID: 1, Workspace: 1, X: 0, Y: 0, W: 500, H: 800},
	}
	frame := ipc.EncodeWindowFrame(records, 10)
	require.NotEmpty(t, frame)
	require.Equal(t, byte(0), frame[len(frame)-1], "record must end in zero bytes for this test to be meaningful")

	resp := ipc.Response{Status: ipc.StatusSuccess, Message: string(frame)}
	buf := resp.Encode()

	decoded, err := ipc.DecodeResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, frame, []byte(decoded.Message))
}

func TestEncodeWindowFrameHeaderFields(t *testing.T) {
	records := []ipc.WindowRecord{
		{ID: 1, Workspace: 1, X: 0, Y: 0, W: 500, H: 800},
		{ID: 2, Workspace: 1, X: 500, Y: 0, W: 500, H: 800},
	}

	buf := ipc.EncodeWindowFrame(records, 10)
	assert.NotEmpty(t, buf)
	// count:u32 + capacity:u32 precede the records.
	assert.Equal(t, byte(2), buf[0])
	assert.Equal(t, byte(10), buf[4])
}

func TestEncodeWorkspaceFrameHeaderFields(t *testing.T) {
	records := []ipc.WorkspaceRecord{
		{ID: 1, WindowCount: 2, MaxWindows: 3, AvailableSpace: 1},
	}

	buf := ipc.EncodeWorkspaceFrame(records, 32, 1)
	assert.NotEmpty(t, buf)
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(32), buf[4])
}
