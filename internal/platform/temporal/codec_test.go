package temporal

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/converter"
)

type submission struct {
	ProductID string
	Token     string
}

func testKey(b byte) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{b}, 32))
}

func TestDataConverter_SealsPayloadsAndRoundTrips(t *testing.T) {
	dc, err := Settings{PayloadKey: testKey(7)}.DataConverter()
	require.NoError(t, err)
	in := submission{ProductID: "p1", Token: "shopper-bearer-token"}

	payloads, err := dc.ToPayloads(in)
	require.NoError(t, err)
	require.Len(t, payloads.GetPayloads(), 1)
	sealed := payloads.GetPayloads()[0]
	assert.Equal(t, MetadataEncodingEncrypted, string(sealed.GetMetadata()[converter.MetadataEncoding]))
	assert.NotContains(t, string(sealed.GetData()), "shopper-bearer-token")

	var out submission
	require.NoError(t, dc.FromPayloads(payloads, &out))
	assert.Equal(t, in, out)
}

func TestDataConverter_OtherKeyCannotOpen(t *testing.T) {
	sealer, err := Settings{PayloadKey: testKey(7)}.DataConverter()
	require.NoError(t, err)
	other, err := Settings{PayloadKey: testKey(9)}.DataConverter()
	require.NoError(t, err)

	payloads, err := sealer.ToPayloads(submission{Token: "secret"})
	require.NoError(t, err)

	var out submission
	assert.Error(t, other.FromPayloads(payloads, &out))
}

func TestPayloadCodec_PassesPlainPayloadsThrough(t *testing.T) {
	codec, err := NewPayloadCodec("k1", bytes.Repeat([]byte{1}, 16))
	require.NoError(t, err)
	plain, err := converter.GetDefaultDataConverter().ToPayload("hello")
	require.NoError(t, err)

	decoded, err := codec.Decode([]*commonpb.Payload{plain})

	require.NoError(t, err)
	assert.Same(t, plain, decoded[0])
}

func TestPayloadCodec_RejectsUnknownKeyID(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	sealer, err := NewPayloadCodec("k1", key)
	require.NoError(t, err)
	opener, err := NewPayloadCodec("k2", key)
	require.NoError(t, err)
	plain, err := converter.GetDefaultDataConverter().ToPayload("hello")
	require.NoError(t, err)
	sealed, err := sealer.Encode([]*commonpb.Payload{plain})
	require.NoError(t, err)

	_, err = opener.Decode(sealed)

	assert.ErrorIs(t, err, ErrUnknownPayloadKey)
}

func TestSettings_PayloadKeyRequired(t *testing.T) {
	_, err := Dial(Settings{}, nil, "test")
	assert.ErrorIs(t, err, ErrMissingPayloadKey)

	_, err = Settings{PayloadKey: "not base64!"}.DataConverter()
	assert.Error(t, err)

	_, err = Settings{PayloadKey: base64.StdEncoding.EncodeToString([]byte("short"))}.DataConverter()
	assert.Error(t, err)

	_, err = Dial(Settings{Disabled: true}, nil, "test")
	assert.ErrorIs(t, err, ErrDisabled)
}
