package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/techstore/internal"
)

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.True(t, IsNotFound(err), "missing key should be not found, got %v", err)

	require.NoError(t, s.Put(ctx, "cart", []byte(`[1]`)))
	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	require.NoError(t, s.Put(ctx, "cart", []byte(`[2]`)))
	got, err = s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(got))

	require.NoError(t, s.Put(ctx, "sessions/abc/cart", []byte(`[]`)))
	got, err = s.Get(ctx, "sessions/abc/cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Get(ctx, "cart")
	assert.True(t, IsNotFound(err))

	assert.NoError(t, s.Delete(ctx, "cart"), "delete is idempotent")
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", v))
	v[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	assert.ErrorIs(t, NewMemoryStore().Put(context.Background(), "", nil), ErrEmptyKey)
}

func TestLocalStore(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, s)
}

func TestLocalStore_KeysCannotEscapeBase(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStore(base)
	require.NoError(t, err)

	p, err := s.path("../../etc/passwd")
	require.NoError(t, err)
	assert.Contains(t, p, base)

	_, err = s.path("  ")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestNamespaced(t *testing.T) {
	backing := NewMemoryStore()
	a := WithNamespace(backing, "sessions/a")
	b := WithNamespace(backing, "sessions/b/")
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, KeyCart, []byte(`"a"`)))
	require.NoError(t, b.Put(ctx, KeyCart, []byte(`"b"`)))

	got, err := a.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(got))

	raw, err := backing.Get(ctx, "sessions/b/cart")
	require.NoError(t, err)
	assert.Equal(t, `"b"`, string(raw))

	require.NoError(t, a.Delete(ctx, KeyCart))
	_, err = b.Get(ctx, KeyCart)
	assert.NoError(t, err)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var v []int
	found, err := GetJSON(ctx, s, "nums", &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	require.NoError(t, PutJSON(ctx, s, "nums", []int{1, 2}))
	found, err = GetJSON(ctx, s, "nums", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{1, 2}, v)

	require.NoError(t, s.Put(ctx, "broken", []byte(`{`)))
	_, err = GetJSON(ctx, s, "broken", &v)
	assert.Error(t, err)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Put(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Delete(context.Context, string) error        { return f.err }

func TestGetJSON_PropagatesBackendErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	var v []int
	_, err := GetJSON(context.Background(), failingStore{err: boom}, "k", &v)
	assert.ErrorIs(t, err, boom)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrKeyNotFound("x")))
	assert.False(t, IsNotFound(ErrEmptyKey))
	assert.False(t, IsNotFound(errors.New("x")))
	assert.False(t, IsNotFound(nil))
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, internal.StorageConfig{Provider: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(ctx, internal.StorageConfig{Provider: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = NewStore(ctx, internal.StorageConfig{Provider: "s3"})
	assert.ErrorIs(t, err, ErrS3CredentialsRequired)

	_, err = NewStore(ctx, internal.StorageConfig{Provider: "ftp"})
	assert.Error(t, err)
}

// fakeS3 is an in-memory stand-in for the S3 client.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string][]byte)} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(v))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "shop", "/techstore/")
	storeContract(t, s)

	require.NoError(t, s.Put(context.Background(), KeyOrders, []byte(`[]`)))
	_, ok := fake.objects["shop/techstore/orders.json"]
	assert.True(t, ok, "objects are stored under the prefix with a .json suffix")
}

func TestS3Store_PutFailure(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("throttled")
	s := newS3Store(fake, "shop", "")

	err := s.Put(context.Background(), "k", []byte(`1`))
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, fake.putErr)
}
