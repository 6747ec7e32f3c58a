package runcap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interleavedChunks() []Chunk {
	return []Chunk{
		{Stream: Stdout, Data: []byte("a")},
		{Stream: Stderr, Data: []byte("1")},
		{Stream: Stdout, Data: []byte("b")},
		{Stream: Stderr, Data: []byte("2")},
	}
}

func TestResponse_Output(t *testing.T) {
	r := &Response[string]{Chunks: interleavedChunks()}
	assert.Equal(t, []byte("ab"), r.Output(Stdout))
	assert.Equal(t, []byte("12"), r.Output(Stderr))
}

func TestResponse_CombinedOutput(t *testing.T) {
	r := &Response[string]{Chunks: interleavedChunks()}
	assert.Equal(t, []byte("a1b2"), r.CombinedOutput())
}

func TestResponse_Empty(t *testing.T) {
	r := &Response[string]{}
	assert.Empty(t, r.Output(Stdout))
	assert.Empty(t, r.CombinedOutput())
	assert.NoError(t, r.ReadErr())
}

func TestResponse_ReadErr(t *testing.T) {
	cause := errors.New("pipe burst")
	r := &Response[string]{Chunks: []Chunk{
		{Stream: Stdout, Data: []byte("partial")},
		{Stream: Stdout, Err: cause},
	}}
	assert.ErrorIs(t, r.ReadErr(), cause)
	assert.Equal(t, []byte("partial"), r.Output(Stdout), "data before the error is retained")
}

func TestRawParser(t *testing.T) {
	got, err := RawParser(0, CaptureAll, interleavedChunks())
	require.NoError(t, err)
	assert.Equal(t, []byte("a1b2"), got)
}

func TestRawParser_BinarySafe(t *testing.T) {
	chunks := []Chunk{{Stream: Stdout, Data: []byte{0x00, 0xff, 0xfe}}}
	got, err := RawParser(0, CaptureAll, chunks)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0xfe}, got)
}

func TestTextParser(t *testing.T) {
	got, err := TextParser(0, CaptureAll, []Chunk{
		{Stream: Stdout, Data: []byte("héllo ")},
		{Stream: Stdout, Data: []byte("wörld")},
	})
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", got)
}

func TestJSONParser(t *testing.T) {
	type report struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	parser := JSONParser[report]()
	got, err := parser(0, CaptureAll, []Chunk{
		{Stream: Stdout, Data: []byte(`{"name":"build",`)},
		{Stream: Stdout, Data: []byte(`"count":3}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, report{Name: "build", Count: 3}, got)
}

func TestJSONParser_Malformed(t *testing.T) {
	parser := JSONParser[map[string]any]()
	_, err := parser(0, CaptureAll, []Chunk{
		{Stream: Stdout, Data: []byte("not json")},
	})
	assert.Error(t, err)
}

func TestTextParser_InvalidUTF8(t *testing.T) {
	_, err := TextParser(0, CaptureAll, []Chunk{
		{Stream: Stdout, Data: []byte{0xff, 0xfe}},
	})
	assert.Error(t, err)
}
