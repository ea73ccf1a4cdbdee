package temporal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/converter"
	"google.golang.org/protobuf/proto"
)

const (
	// MetadataEncodingEncrypted marks payloads sealed by PayloadCodec.
	MetadataEncodingEncrypted = "binary/encrypted"
	// MetadataEncryptionKeyID names the key a payload was sealed with.
	MetadataEncryptionKeyID = "encryption-key-id"
)

var (
	// ErrMissingPayloadKey is returned by Dial when no payload key is configured.
	ErrMissingPayloadKey = errors.New("temporal payload key not configured via TEMPORAL_PAYLOAD_KEY")
	// ErrUnknownPayloadKey is returned when a payload was sealed with another key.
	ErrUnknownPayloadKey = errors.New("payload sealed with unknown key")
)

var _ converter.PayloadCodec = (*PayloadCodec)(nil)

// PayloadCodec seals every payload with AES-GCM before it leaves the process,
// so workflow and activity inputs are stored encrypted in Temporal history.
type PayloadCodec struct {
	keyID string
	aead  cipher.AEAD
}

// NewPayloadCodec builds a codec from a 16, 24 or 32 byte AES key.
func NewPayloadCodec(keyID string, key []byte) (*PayloadCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("payload key: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("payload key: %w", err)
	}
	return &PayloadCodec{keyID: keyID, aead: aead}, nil
}

// Encode seals each payload, metadata included.
func (c *PayloadCodec) Encode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	out := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		plain, err := proto.Marshal(p)
		if err != nil {
			return payloads, err
		}
		nonce := make([]byte, c.aead.NonceSize())
		if _, err := rand.Read(nonce); err != nil {
			return payloads, err
		}
		out[i] = &commonpb.Payload{
			Metadata: map[string][]byte{
				converter.MetadataEncoding: []byte(MetadataEncodingEncrypted),
				MetadataEncryptionKeyID:    []byte(c.keyID),
			},
			Data: c.aead.Seal(nonce, nonce, plain, []byte(c.keyID)),
		}
	}
	return out, nil
}

// Decode opens payloads sealed by Encode and passes any others through.
func (c *PayloadCodec) Decode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	out := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		if string(p.GetMetadata()[converter.MetadataEncoding]) != MetadataEncodingEncrypted {
			out[i] = p
			continue
		}
		if keyID := string(p.GetMetadata()[MetadataEncryptionKeyID]); keyID != c.keyID {
			return payloads, fmt.Errorf("%w: %q", ErrUnknownPayloadKey, keyID)
		}
		data := p.GetData()
		size := c.aead.NonceSize()
		if len(data) < size {
			return payloads, errors.New("sealed payload too short")
		}
		plain, err := c.aead.Open(nil, data[:size], data[size:], []byte(c.keyID))
		if err != nil {
			return payloads, fmt.Errorf("open payload: %w", err)
		}
		decoded := &commonpb.Payload{}
		if err := proto.Unmarshal(plain, decoded); err != nil {
			return payloads, err
		}
		out[i] = decoded
	}
	return out, nil
}

// DataConverter wraps the default converter with the payload codec
// configured in settings.
func (s Settings) DataConverter() (converter.DataConverter, error) {
	if s.PayloadKey == "" {
		return nil, ErrMissingPayloadKey
	}
	key, err := base64.StdEncoding.DecodeString(s.PayloadKey)
	if err != nil {
		return nil, fmt.Errorf("decode TEMPORAL_PAYLOAD_KEY: %w", err)
	}
	codec, err := NewPayloadCodec(s.payloadKeyID(), key)
	if err != nil {
		return nil, err
	}
	return converter.NewCodecDataConverter(converter.GetDefaultDataConverter(), codec), nil
}

func (s Settings) payloadKeyID() string {
	if s.PayloadKeyID == "" {
		return "default"
	}
	return s.PayloadKeyID
}
