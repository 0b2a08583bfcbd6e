package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	rterrors "github.com/matzehuels/raytone/pkg/errors"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	ids := []string{NewID(), NewID(), NewID()}
	for i, id := range ids {
		if err := s.Put(ctx, id, []byte{byte(i)}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	if err := s.Put(ctx, ids[0], []byte("replaced")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, ok, err := s.Get(ctx, ids[0])
	if err != nil || !ok || string(data) != "replaced" {
		t.Errorf("Get() = %q, %v, %v", data, ok, err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := slices.Clone(ids)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	if err := s.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, ids[1]); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, ids[1]); ok {
		t.Error("deleted id still present")
	}

	if err := s.Put(ctx, "", nil); !rterrors.Is(err, rterrors.ErrCodeInvalidInput) {
		t.Errorf("Put(empty id) error = %v", err)
	}
}

func TestFileStoreDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())
	id := NewID()
	if err := s.Put(ctx, id, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path(id), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := s.Get(ctx, id); ok || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", ok, err)
	}
	if _, err := os.Stat(s.path(id)); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileStorePathLayout(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	p := s.path("abc")
	hash := Hash([]byte("abc"))
	if want := filepath.Join(s.Dir(), hash[:2], hash[2:]+".json"); p != want {
		t.Errorf("path() = %s, want %s", p, want)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	if err := s.Put(ctx, "id", []byte("x")); err != nil {
		t.Errorf("Put() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "id"); ok {
		t.Error("NullStore should not store data")
	}
	if ids, _ := s.List(ctx); len(ids) != 0 {
		t.Errorf("List() = %v", ids)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"file", Options{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"default is file", Options{Dir: t.TempDir()}, false},
		{"none", Options{Backend: BackendNone}, false},
		{"file without dir", Options{Backend: BackendFile}, true},
		{"unknown", Options{Backend: "s3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Error("NewID() repeated")
	}
	if err := rterrors.ValidateSnapshotID(a); err != nil {
		t.Errorf("NewID() = %q is not a valid id: %v", a, err)
	}
}

func TestRedisKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	s := newRedisStore(client, "")
	if got := s.Key("abc"); got != "raytone:snapshot:abc" {
		t.Errorf("Key() = %q", got)
	}
	tests := []struct {
		key    string
		wantID string
		wantOK bool
	}{
		{"raytone:snapshot:abc", "abc", true},
		{"raytone:snapshot:", "", false},
		{"other:abc", "", false},
	}
	for _, tt := range tests {
		id, ok := s.ID(tt.key)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ID(%q) = %q, %v; want %q, %v", tt.key, id, ok, tt.wantID, tt.wantOK)
		}
	}

	scoped := newRedisStore(client, "team:")
	if got := scoped.Key("abc"); got != "team:abc" {
		t.Errorf("scoped Key() = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("flaky"))
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryable: err = %v, calls = %d", err, calls)
	}

	calls = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("permanent: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(permanent)
	})
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d", err, calls)
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	if !IsRetryable(transient(context.DeadlineExceeded)) {
		t.Error("deadline not transient")
	}
	if IsRetryable(transient(permanent)) {
		t.Error("plain error marked transient")
	}
}

type hookRecorder struct {
	hits, misses, puts, bytes int
}

func (h *hookRecorder) OnStoreHit(context.Context, string)  { h.hits++ }
func (h *hookRecorder) OnStoreMiss(context.Context, string) { h.misses++ }
func (h *hookRecorder) OnStorePut(_ context.Context, _ string, n int) {
	h.puts++
	h.bytes += n
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	fs, _ := NewFileStore(t.TempDir())
	hooks := &hookRecorder{}
	s := Instrument(fs, BackendFile, hooks)

	id := NewID()
	_ = s.Put(ctx, id, []byte("four"))
	_, _, _ = s.Get(ctx, id)
	_, _, _ = s.Get(ctx, NewID())
	if hooks.hits != 1 || hooks.misses != 1 || hooks.puts != 1 || hooks.bytes != 4 {
		t.Errorf("hooks = %+v", hooks)
	}
	if ids, _ := s.List(ctx); len(ids) != 1 {
		t.Errorf("List() through wrapper = %v", ids)
	}
	if Instrument(fs, BackendFile, nil) != Store(fs) {
		t.Error("Instrument(nil hooks) wrapped the store")
	}
}
