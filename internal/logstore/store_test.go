package logstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/terraincognita07/lunalog/internal/services"
)

func entry(t *testing.T, id string, start string, end string) models.PeriodLog {
	t.Helper()
	startDay, err := services.ParseDay(start, time.UTC)
	require.NoError(t, err)
	endDay, err := services.ParseDay(end, time.UTC)
	require.NoError(t, err)
	return models.PeriodLog{ID: id, StartDate: startDay, EndDate: endDay, Flow: models.FlowNone}
}

func ids(logs []models.PeriodLog) []string {
	out := make([]string, 0, len(logs))
	for _, log := range logs {
		out = append(out, log.ID)
	}
	return out
}

func TestAddKeepsStartDateOrder(t *testing.T) {
	t.Parallel()

	store := New(NewMemoryKV(), nil)
	require.Empty(t, store.Load())

	_, err := store.Add(entry(t, "may", "2024-05-13", "2024-05-17"))
	require.NoError(t, err)
	_, err = store.Add(entry(t, "march", "2024-03-18", "2024-03-22"))
	require.NoError(t, err)
	_, err = store.Add(entry(t, "april-a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)
	logs, err := store.Add(entry(t, "april-b", "2024-04-15", "2024-04-16"))
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"march", "april-a", "april-b", "may"}, ids(logs)); diff != "" {
		t.Fatalf("ascending order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"may", "april-a", "april-b", "march"}, ids(store.Sorted(services.SortDescending))); diff != "" {
		t.Fatalf("descending order mismatch (-want +got):\n%s", diff)
	}
	for _, order := range []services.SortOrder{services.SortAscending, services.SortDescending} {
		if diff := cmp.Diff(ids(store.Sorted(order)), ids(store.Sorted(order))); diff != "" {
			t.Fatalf("%s order changed between calls (-first +second):\n%s", order, diff)
		}
	}
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	backend := NewMemoryKV()
	first := New(backend, nil)
	_, err := first.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)
	_, err = first.Add(entry(t, "b", "2024-03-18", "2024-03-22"))
	require.NoError(t, err)

	reloaded := New(backend, nil).Load()
	require.Equal(t, []string{"b", "a"}, ids(reloaded))
	require.Equal(t, "2024-04-15", services.FormatDay(reloaded[1].StartDate))
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	store := New(NewMemoryKV(), nil)
	_, err := store.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)

	logs, err := store.Delete("missing")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(logs))

	logs, err = store.Delete("a")
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestCorruptPayloadLoadsEmpty(t *testing.T) {
	t.Parallel()

	backend := NewMemoryKV()
	require.NoError(t, backend.Set(DefaultKey, []byte("{not json")))

	store := New(backend, nil)
	require.Empty(t, store.Load())

	logs, err := store.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestWriteFailureKeepsStateAndFlushRetries(t *testing.T) {
	t.Parallel()

	backend := NewMemoryKV()
	store := New(backend, nil)
	backend.SetErr(errors.New("quota exceeded"))

	logs, err := store.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.Equal(t, []string{"a"}, ids(logs))
	require.Equal(t, []string{"a"}, ids(store.Load()))

	require.ErrorIs(t, store.Flush(), ErrStorageUnavailable)

	backend.SetErr(nil)
	require.NoError(t, store.Flush())
	require.Equal(t, []string{"a"}, ids(New(backend, nil).Load()))
	require.NoError(t, store.Flush())
}

type failingReadKV struct {
	*MemoryKV
	readFailures int
}

func (kv *failingReadKV) Get(key string) ([]byte, bool, error) {
	if kv.readFailures > 0 {
		kv.readFailures--
		return nil, false, errors.New("disk busy")
	}
	return kv.MemoryKV.Get(key)
}

func TestReadFailureDoesNotOverwriteHistory(t *testing.T) {
	t.Parallel()

	backend := &failingReadKV{MemoryKV: NewMemoryKV()}
	seed := New(backend, nil)
	_, err := seed.Add(entry(t, "march", "2024-03-18", "2024-03-22"))
	require.NoError(t, err)
	_, err = seed.Add(entry(t, "april", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)

	backend.readFailures = 1
	store := New(backend, nil)
	logs, err := store.Add(entry(t, "may", "2024-05-13", "2024-05-17"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.Empty(t, logs)
	require.Equal(t, []string{"march", "april"}, ids(New(backend, nil).Load()))

	logs, err = store.Add(entry(t, "may", "2024-05-13", "2024-05-17"))
	require.NoError(t, err)
	require.Equal(t, []string{"march", "april", "may"}, ids(logs))
	require.Equal(t, []string{"march", "april", "may"}, ids(New(backend, nil).Load()))
}

func TestReadFailureBlocksDeleteAndRetriesLoad(t *testing.T) {
	t.Parallel()

	backend := &failingReadKV{MemoryKV: NewMemoryKV()}
	_, err := New(backend, nil).Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)

	backend.readFailures = 2
	store := New(backend, nil)
	require.Empty(t, store.Load())
	_, err = store.Delete("a")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	require.Equal(t, []string{"a"}, ids(store.Load()))
}

func TestOverlapRejectPolicy(t *testing.T) {
	t.Parallel()

	store := New(NewMemoryKV(), nil, WithOverlapPolicy(services.OverlapReject), WithKey("custom"))
	_, err := store.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)

	logs, err := store.Add(entry(t, "b", "2024-04-18", "2024-04-22"))
	require.ErrorIs(t, err, services.ErrPeriodOverlap)
	require.Equal(t, []string{"a"}, ids(logs))

	allowing := New(NewMemoryKV(), nil)
	_, err = allowing.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)
	_, err = allowing.Add(entry(t, "b", "2024-04-18", "2024-04-22"))
	require.NoError(t, err)
}

func TestFileKVRoundTrip(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	_, found, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	require.False(t, found)

	store := New(kv, nil)
	_, err = store.Add(entry(t, "a", "2024-04-15", "2024-04-19"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, DefaultKey+".json"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"id":"a"`)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)

	require.Equal(t, []string{"a"}, ids(New(kv, nil).Load()))

	_, err = NewFileKV("  ")
	require.Error(t, err)
}
