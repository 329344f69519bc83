package llm

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed fixtures
var fixtureFS embed.FS

// FixtureModel is reported as the model of every fixture response.
const FixtureModel = "fixture"

// FixtureProvider answers from canned files so the application runs
// without vendor credentials. A request with a schema gets
// fixtures/<schema name>.json; free text gets fixtures/chat.txt.
type FixtureProvider struct {
	mu    sync.Mutex
	calls int
}

// NewFixtureProvider creates a FixtureProvider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{}
}

func (f *FixtureProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	name := "chat.txt"
	if req.Schema != nil {
		name = req.Schema.Name + ".json"
	}
	data, err := fs.ReadFile(fixtureFS, "fixtures/"+name)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("no fixture for %q", name)}
	}

	content := json.RawMessage(data)
	if req.Schema == nil {
		content = json.RawMessage(strings.TrimSpace(string(data)))
	}
	words := len(strings.Fields(renderRequest(req)))
	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  words,
			OutputTokens: len(strings.Fields(string(data))),
			TotalTokens:  words + len(strings.Fields(string(data))),
		},
		Model:      FixtureModel,
		StopReason: "end",
	}, nil
}

func (f *FixtureProvider) ModelID() string {
	return FixtureModel
}

// CallCount returns the number of Generate calls made.
func (f *FixtureProvider) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
