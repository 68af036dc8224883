package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vendora/internal/domain"
	"vendora/internal/port"
)

type fakeObject struct {
	data        []byte
	contentType string
}

// FakeObjectClient is an in-memory port.ObjectClient for tests. Failure
// hooks, when set, run before the real operation and short-circuit on
// non-nil error.
type FakeObjectClient struct {
	mu      sync.Mutex
	objects map[string]fakeObject

	PutErr    func(key string) error
	GetErr    func(key string) error
	HeadErr   func(key string) error
	DeleteErr func(key string) error
	ListErr   func(prefix string) error
	PingErr   func() error

	PutCalls    int
	HeadCalls   int
	DeleteCalls int
	PingCalls   int
}

// NewFakeObjectClient creates an empty in-memory client.
func NewFakeObjectClient() *FakeObjectClient {
	return &FakeObjectClient{objects: make(map[string]fakeObject)}
}

// Seed stores an object directly, bypassing hooks and counters.
func (f *FakeObjectClient) Seed(key string, data []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{data: data, contentType: contentType}
}

// Keys returns every stored key, sorted.
func (f *FakeObjectClient) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is stored.
func (f *FakeObjectClient) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *FakeObjectClient) Put(ctx context.Context, input port.PutObjectInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PutCalls++
	if f.PutErr != nil {
		if err := f.PutErr(input.Key); err != nil {
			return err
		}
	}
	data := make([]byte, len(input.Body))
	copy(data, input.Body)
	f.objects[input.Key] = fakeObject{data: data, contentType: input.ContentType}
	return nil
}

func (f *FakeObjectClient) Get(ctx context.Context, key string) ([]byte, *port.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		if err := f.GetErr(key); err != nil {
			return nil, nil, err
		}
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, nil, domain.ErrObjectNotFound
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, &port.ObjectInfo{
		Key:         key,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}, nil
}

func (f *FakeObjectClient) Head(ctx context.Context, key string) (*port.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HeadCalls++
	if f.HeadErr != nil {
		if err := f.HeadErr(key); err != nil {
			return nil, err
		}
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return &port.ObjectInfo{
		Key:         key,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}, nil
}

func (f *FakeObjectClient) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		if err := f.DeleteErr(key); err != nil {
			return err
		}
	}
	delete(f.objects, key)
	return nil
}

func (f *FakeObjectClient) List(ctx context.Context, prefix string, recursive bool) (*port.ObjectList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		if err := f.ListErr(prefix); err != nil {
			return nil, err
		}
	}

	out := &port.ObjectList{}
	prefixSet := make(map[string]struct{})
	for key := range f.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if recursive {
			out.Keys = append(out.Keys, key)
			continue
		}
		rest := key[len(prefix):]
		if i := strings.Index(rest, "/"); i >= 0 {
			prefixSet[prefix+rest[:i+1]] = struct{}{}
		} else {
			out.Keys = append(out.Keys, key)
		}
	}
	for p := range prefixSet {
		out.CommonPrefixes = append(out.CommonPrefixes, p)
	}
	sort.Strings(out.Keys)
	sort.Strings(out.CommonPrefixes)
	return out, nil
}

func (f *FakeObjectClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PingCalls++
	if f.PingErr != nil {
		return f.PingErr()
	}
	return nil
}
