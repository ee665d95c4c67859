package storage

import (
	"context"
	"io"
	"io/ioutil"
	"sync"

	"github.com/pkg/errors"
)

// FakeObjectStore keeps uploaded objects in memory for tests.
type FakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewFakeObjectStore() *FakeObjectStore {
	return &FakeObjectStore{objects: map[string][]byte{}}
}

func (f *FakeObjectStore) Upload(ctx context.Context, bucket, path string, body io.Reader) (string, error) {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.objects[bucket+"/"+path] = data
	f.mu.Unlock()
	return "https://fake.storage/" + bucket + "/" + path, nil
}

func (f *FakeObjectStore) Delete(ctx context.Context, bucket, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[bucket+"/"+path]; !ok {
		return errors.Errorf("object %s/%s not found", bucket, path)
	}
	delete(f.objects, bucket+"/"+path)
	return nil
}

// Object returns an uploaded object's content for assertions.
func (f *FakeObjectStore) Object(bucket, path string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+path]
	return data, ok
}
