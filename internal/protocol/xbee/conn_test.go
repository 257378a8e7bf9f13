package xbee

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeWriter struct {
	frames [][]byte
	err    error
}

func (w *fakeWriter) Write(b []byte) error {
	if w.err != nil {
		return w.err
	}
	w.frames = append(w.frames, append([]byte(nil), b...))
	return nil
}

func TestConn_SendCommands(t *testing.T) {
	w := &fakeWriter{}
	sent := map[FrameType]int{}
	c := NewConn(w, WithLogger(zaptest.NewLogger(t)), WithSentHook(func(ft FrameType, n int) { sent[ft] += n }))

	id, err := c.SendAT("CH", nil)
	require.NoError(t, err)
	assert.Equal(t, byte(1), id)

	id, err = c.TransmitText(dest64, HexAddress("FFFE"), "Hello World")
	require.NoError(t, err)
	assert.Equal(t, byte(2), id)

	id, err = c.TransmitData(dest64, Unknown16, []byte{0x01}, WithRadius(1))
	require.NoError(t, err)
	assert.Equal(t, byte(3), id)

	id, err = c.SendRemoteAT(dest64, Unknown16, "D0", []byte{0x04})
	require.NoError(t, err)
	assert.Equal(t, byte(4), id)

	id, err = c.CreateSourceRoute(dest64, Unknown16, []Address{HexAddress("1234"), HexAddress("5678")})
	require.NoError(t, err)
	assert.Equal(t, byte(5), id)

	require.Len(t, w.frames, 5)
	assert.Equal(t, []byte{0x7E, 0x00, 0x04, 0x08, 0x01, 0x43, 0x48, 0x6B}, w.frames[0])
	types := []FrameType{TypeATCommand, TypeTransmitRequest, TypeTransmitRequest, TypeRemoteATCommand, TypeCreateSourceRoute}
	for i, f := range w.frames {
		assert.Equal(t, byte(types[i]), f[3])
		assert.Equal(t, byte(i+1), f[4])
		assert.NoError(t, VerifyChecksum(f[3:]))
	}
	assert.Equal(t, 8, sent[TypeATCommand])
	assert.Len(t, sent, 4)
}

func TestConn_EncodeErrorIsSynchronous(t *testing.T) {
	w := &fakeWriter{}
	c := NewConn(w)

	_, err := c.TransmitData(HexAddress("FF13A20040A6299D00"), Unknown16, nil)
	assert.ErrorIs(t, err, ErrAddressTooLong)
	_, err = c.SendAT("CHANNEL", nil)
	assert.ErrorIs(t, err, ErrInvalidCommand)
	assert.Empty(t, w.frames)

	// 失败的命令不消耗帧 ID
	id, err := c.SendAT("CH", nil)
	require.NoError(t, err)
	assert.Equal(t, byte(1), id)
}

func TestConn_WriteError(t *testing.T) {
	boom := errors.New("link down")
	c := NewConn(&fakeWriter{err: boom})
	id, err := c.SendAT("ID", nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, byte(1), id)

	_, err = NewConn(nil).SendAT("ID", nil)
	assert.Error(t, err)
}

func TestConn_ProcessBytes(t *testing.T) {
	var drops []DropReason
	c := NewConn(&fakeWriter{}, WithLogger(zaptest.NewLogger(t)), WithDropHook(func(r DropReason, _ []byte) { drops = append(drops, r) }))

	var got []Record
	var order []string
	c.OnData(func(r Record) { got = append(got, r); order = append(order, "first") })
	c.OnData(func(Record) { order = append(order, "second") })

	var handled int
	c.Handle(TypeModemStatus, func(Record) error { handled++; return nil })

	bad := makeFrame(helloContent...)
	bad[len(bad)-1]++
	stream := append(makeFrame(0x8A, 0x06), bad...)
	stream = append(stream, makeFrame(0xC0, 0x01)...)

	require.NoError(t, c.ProcessBytes(stream[:7]))
	require.NoError(t, c.ProcessBytes(stream[7:]))

	require.Len(t, got, 2)
	assert.Equal(t, "Coordinator started", got[0].(*ModemStatus).Status.Name)
	assert.Equal(t, FrameType(0xC0), got[1].FrameType())
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
	assert.Equal(t, 1, handled)
	assert.Equal(t, []DropReason{DropChecksum}, drops)
	assert.Equal(t, Stats{Frames: 2, Dropped: 1}, c.Stats())
}

func TestConn_HandlerErrorsDoNotStopDelivery(t *testing.T) {
	c := NewConn(&fakeWriter{})
	boom := errors.New("boom")
	c.Handle(TypeModemStatus, func(Record) error { return boom })

	var n int
	c.OnData(func(Record) { n++ })
	err := c.ProcessBytes(append(makeFrame(0x8A, 0x00), makeFrame(0x8A, 0x01)...))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, n)
}

func TestConn_Options(t *testing.T) {
	names := DefaultStatusNames()
	names.Merge(&StatusNames{Command: map[byte]string{9: "Busy"}})
	c := NewConn(&fakeWriter{}, WithStatusNames(names), WithMaxFrameLen(8))

	var got []Record
	c.OnData(func(r Record) { got = append(got, r) })
	require.NoError(t, c.ProcessBytes(makeFrame(0x88, 0x01, 'I', 'D', 0x09)))
	require.NoError(t, c.ProcessBytes(makeFrame(helloContent...)))

	require.Len(t, got, 1)
	assert.Equal(t, "Busy", got[0].(*ATResponse).Status.Name)
	assert.Equal(t, uint64(1), c.Stats().Dropped)
}

func TestConn_Sniff(t *testing.T) {
	c := NewConn(nil)
	assert.True(t, c.Sniff([]byte{0x7E, 0x00}))
	assert.False(t, c.Sniff([]byte{0x44, 0x4E}))
	assert.False(t, c.Sniff(nil))
	assert.NotEmpty(t, c.ID())
}
