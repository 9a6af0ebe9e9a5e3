package llmclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"

	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Embeddings groups the embedding endpoints.
type Embeddings struct {
	adapter internal.Adapter
}

type EmbeddingRequest struct {
	Model          string         `json:"model,omitempty"`
	Input          []string       `json:"input"`
	EncodingFormat EncodingFormat `json:"encoding_format,omitzero"`
	Dimensions     *int           `json:"dimensions,omitempty"`
	User           string         `json:"user,omitempty"`

	// Extra holds top-level fields not modeled here, merged into the body as-is.
	Extra map[string]any `json:"-"`
}

func (r EmbeddingRequest) extraFields() map[string]any {
	return r.Extra
}

type EmbeddingResponse struct {
	Object string      `json:"object,omitempty"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  *Usage      `json:"usage,omitempty"`
}

type Embedding struct {
	Object    string `json:"object,omitempty"`
	Index     int    `json:"index"`
	Embedding Vector `json:"embedding"`
}

// Vector is an embedding vector. It is decoded from either an array of
// numbers, or the base64 representation of little-endian float32 values
// returned with EncodingFormatBase64.
type Vector []float32

func (v *Vector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		var values []float32

		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}

		*v = values

		return nil
	}

	var encoded string

	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return errors.Wrap(err, "invalid base64 embedding")
	}
	if len(raw)%4 != 0 {
		return errors.Newf("base64 embedding has %d bytes, not a multiple of 4", len(raw))
	}

	values := make(Vector, len(raw)/4)

	for idx := range values {
		values[idx] = math.Float32frombits(binary.LittleEndian.Uint32(raw[idx*4:]))
	}

	*v = values

	return nil
}

// Vectors returns the embedding vectors, ordered by input index.
func (r EmbeddingResponse) Vectors() [][]float32 {
	vectors := make([][]float32, len(r.Data))

	for _, embedding := range r.Data {
		if embedding.Index >= 0 && embedding.Index < len(vectors) {
			vectors[embedding.Index] = embedding.Embedding
		}
	}

	return vectors
}

// Create generates embeddings for the request's inputs.
//
// Example usage:
//
//	resp, err := llm.Embeddings.Create(ctx, llmclient.EmbeddingRequest{
//		Model: "text-embedding-3-small",
//		Input: []string{"first text", "second text"},
//	})
func (e *Embeddings) Create(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	return call[EmbeddingResponse](ctx, e.adapter, http.MethodPost, req, "embeddings")
}

// Embed is a shortcut to embed a single text.
func (e *Embeddings) Embed(ctx context.Context, model, input string) (Vector, error) {
	resp, err := e.Create(ctx, EmbeddingRequest{Model: model, Input: []string{input}})
	if err != nil {
		return nil, err
	}

	embedding, ok := lo.Find(resp.Data, func(e Embedding) bool { return e.Index == 0 })
	if !ok {
		return nil, errors.New("response did not contain any embedding")
	}

	return embedding.Embedding, nil
}
