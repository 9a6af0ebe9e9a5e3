package llmclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
)

// Models groups the read-only model endpoints.
type Models struct {
	adapter internal.Adapter
}

type Model struct {
	Id      string `json:"id"`
	Object  string `json:"object,omitempty"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

type ModelList struct {
	Object string  `json:"object,omitempty"`
	Data   []Model `json:"data"`
}

func (m Model) CreatedAt() time.Time {
	return time.Unix(m.Created, 0).UTC()
}

// List lists the models available to the credential.
func (m *Models) List(ctx context.Context) (*ModelList, error) {
	return call[ModelList](ctx, m.adapter, http.MethodGet, nil, "models")
}

// Get retrieves a single model by its identifier.
func (m *Models) Get(ctx context.Context, id string) (*Model, error) {
	if id == "" {
		return nil, errors.New("model identifier cannot be empty")
	}

	return call[Model](ctx, m.adapter, http.MethodGet, nil, "models", url.PathEscape(id))
}
