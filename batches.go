package llmclient

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/simonfrey/jsonl"
)

// BatchItem is one request of a batch input file.
type BatchItem struct {
	CustomId string
	segments []string
	body     any
}

// batchLine is the JSONL representation of a BatchItem.
type batchLine struct {
	CustomId string          `json:"custom_id"`
	Method   string          `json:"method"`
	Url      string          `json:"url"`
	Body     json.RawMessage `json:"body"`
}

func ChatCompletionBatchItem(customId string, req ChatCompletionRequest) BatchItem {
	req.Stream = false
	req.StreamOptions = nil

	return BatchItem{CustomId: customId, segments: []string{"chat", "completions"}, body: req}
}

func EmbeddingBatchItem(customId string, req EmbeddingRequest) BatchItem {
	return BatchItem{CustomId: customId, segments: []string{"embeddings"}, body: req}
}

// WriteBatchInput writes requests as a JSONL batch input file, one request per
// line, encoded with the client's serialization policy.
//
// Every item must have a unique, non-empty custom ID, used to match the
// results with their requests.
func (llm *Client) WriteBatchInput(w io.Writer, items ...BatchItem) error {
	seen := make(map[string]struct{}, len(items))
	out := jsonl.NewWriter(w)

	for _, item := range items {
		if item.CustomId == "" {
			return errors.New("all requests in a batch must have an ID")
		}
		if _, ok := seen[item.CustomId]; ok {
			return errors.Newf("duplicate batch request ID '%s'", item.CustomId)
		}

		seen[item.CustomId] = struct{}{}

		body, err := llm.serializer.Marshal(item.body)
		if err != nil {
			return errors.Wrapf(err, "could not encode batch request '%s'", item.CustomId)
		}

		line := batchLine{
			CustomId: item.CustomId,
			Method:   http.MethodPost,
			Url:      llm.path(item.segments...),
			Body:     body,
		}

		if err := out.Write(line); err != nil {
			return errors.Wrapf(err, "could not write batch request '%s'", item.CustomId)
		}
	}

	return nil
}
