package api

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"adminconsole/internal/transport"
)

type recordedCall struct {
	method string
	path   string
	query  url.Values
	body   json.RawMessage
}

// fakeDoer answers "METHOD /path" with canned JSON or an error.
type fakeDoer struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []recordedCall
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeDoer) Do(_ context.Context, method, path string, req transport.Request, out any) error {
	var body json.RawMessage
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return err
		}
		body = b
	}
	key := method + " " + path

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{method: method, path: path, query: req.Params.Values(), body: body})
	err := f.errs[key]
	raw, ok := f.responses[key]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if ok && out != nil {
		return json.Unmarshal([]byte(raw), out)
	}
	return nil
}

func (f *fakeDoer) callsTo(path string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.path == path {
			out = append(out, c)
		}
	}
	return out
}
