package netplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []any{
		ConnectRequest{Mode: ModePlayer, RequestedPlayerID: NoPlayer, Nickname: "alice", Password: "secret"},
		ConnectResponse{Result: ConnectSuccess, PlayerID: 1},
		ResetComplete{Cookie: 42},
		ResumeSession{},
		PlayerJoined{PlayerID: 1},
		DropPlayer{Reason: DropConnectionLost, PlayerID: 1},
		ResetRequest{Reason: ResetRequestConnectionLost, CausingPlayerID: 1},
		CloseSession{Reason: CloseTimeout},
		ChatMessage{Text: "gg"},
	}

	for _, want := range cases {
		raw, err := Encode(want)
		require.NoError(t, err)

		_, got, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncodeDecodeReset(t *testing.T) {
	want := Reset{
		Cookie:     7,
		NumPlayers: 2,
		StateData:  []byte{1, 2, 3, 4, 5},
	}
	want.Players[0] = PlayerEntry{ControllerPort: 0, Nickname: "host"}
	want.Players[1] = PlayerEntry{ControllerPort: 1, Nickname: "joiner"}

	raw, err := Encode(want)
	require.NoError(t, err)

	typ, decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, MsgReset, typ)
	assert.Equal(t, want, decoded)
}

func TestDecodeRejectsUndersizedHeader(t *testing.T) {
	_, _, err := Decode([]byte{1, 2})
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestDecodeRejectsDeclaredSizeBeyondBuffer(t *testing.T) {
	raw, err := Encode(ResetComplete{Cookie: 1})
	require.NoError(t, err)
	raw = raw[:len(raw)-1] // truncate past the declared size

	_, _, err = Decode(raw)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestDecodeRejectsShortFixedBody(t *testing.T) {
	raw, err := Encode(ResetComplete{Cookie: 1})
	require.NoError(t, err)
	// Shrink the declared size below ResetComplete's fixed 4-byte body
	// while keeping it self-consistent with the buffer length.
	raw[2], raw[3] = headerSize, 0

	_, _, err = Decode(raw[:headerSize])
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestGetNicknameStopsAtNUL(t *testing.T) {
	buf := make([]byte, NicknameSize)
	copy(buf, "bob")
	assert.Equal(t, "bob", getNickname(buf))
}
