package llmclient

import (
	"bufio"
	"bytes"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// ChatCompletionChunk is one server-sent event of a streamed completion.
type ChatCompletionChunk struct {
	Id      string        `json:"id"`
	Object  string        `json:"object,omitempty"`
	Created int64         `json:"created,omitempty"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

type ChunkChoice struct {
	Index        int          `json:"index"`
	Delta        ChatMessage  `json:"delta"`
	FinishReason FinishReason `json:"finish_reason,omitzero"`
}

// ChatCompletionStream iterates over the chunks of a streamed completion.
//
//	for stream.Next() {
//		fmt.Print(stream.Current().Choices[0].Delta.Content)
//	}
//	if err := stream.Err(); err != nil {
//		return err
//	}
type ChatCompletionStream struct {
	body       io.ReadCloser
	url        string
	status     int
	scanner    *bufio.Scanner
	serializer Serializer

	current ChatCompletionChunk
	err     error
	done    bool
}

func newChatCompletionStream(resp *http.Response, url string, serializer Serializer) *ChatCompletionStream {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &ChatCompletionStream{
		body:       resp.Body,
		url:        url,
		status:     resp.StatusCode,
		scanner:    scanner,
		serializer: serializer,
	}
}

// Next advances to the next chunk. It returns false at the end of the stream
// or on error, in which case Err returns it.
func (s *ChatCompletionStream) Next() bool {
	if s.done {
		return false
	}

	for s.scanner.Scan() {
		line := s.scanner.Bytes()

		data, ok := bytes.CutPrefix(line, []byte("data:"))
		if !ok {
			continue
		}

		data = bytes.TrimSpace(data)

		if bytes.Equal(data, []byte("[DONE]")) {
			s.done = true
			return false
		}

		if gjson.GetBytes(data, "error").Exists() {
			s.fail(newApiError(s.status, bytes.Clone(data)))
			return false
		}

		var chunk ChatCompletionChunk

		if err := s.serializer.Unmarshal(data, &chunk); err != nil {
			s.fail(&DecodeError{StatusCode: s.status, Body: bytes.Clone(data), Err: err})
			return false
		}

		s.current = chunk

		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.fail(&TransportError{Method: http.MethodPost, Url: s.url, Err: err})
	}

	s.done = true

	return false
}

func (s *ChatCompletionStream) fail(err error) {
	s.err = err
	s.done = true
}

// Current returns the chunk read by the last call to Next.
func (s *ChatCompletionStream) Current() ChatCompletionChunk {
	return s.current
}

func (s *ChatCompletionStream) Err() error {
	return s.err
}

func (s *ChatCompletionStream) Close() error {
	s.done = true

	return s.body.Close()
}
