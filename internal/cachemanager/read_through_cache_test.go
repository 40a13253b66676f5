package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCacheManager[K Key, V any] struct {
	mock.Mock
}

func (m *mockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCacheManager[K, V]) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCacheManager[K, V]) Len() int {
	return m.Called().Int(0)
}

func lineAt(lines []string) func(context.Context, int) (string, error) {
	return func(_ context.Context, idx int) (string, error) {
		if idx < 0 || idx >= len(lines) {
			return "", errors.New("no such entry")
		}
		return lines[idx], nil
	}
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	m := &mockCacheManager[int, string]{}
	rtc := NewReadThroughCache[int, string, int](m, lineAt([]string{"ls"}), true)

	got, err := rtc.Get(context.Background(), 0, 0, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "ls", got)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	m := &mockCacheManager[int, string]{}
	m.On("Get", mock.Anything, 0).Return("cached", true)

	rtc := NewReadThroughCache[int, string, int](m, lineAt([]string{"ls"}), false)

	got, err := rtc.Get(context.Background(), 0, 0, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_Get_MissLoadsAndStores(t *testing.T) {
	m := &mockCacheManager[int, string]{}
	m.On("Get", mock.Anything, 1).Return("", false)
	m.On("Set", mock.Anything, 1, "pwd", time.Minute).Return()

	rtc := NewReadThroughCache[int, string, int](m, lineAt([]string{"ls", "pwd"}), false)

	got, err := rtc.Get(context.Background(), 1, 1, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "pwd", got)
	m.AssertExpectations(t)
}

func TestReadThroughCache_Get_ErrorIsNotCached(t *testing.T) {
	m := &mockCacheManager[int, string]{}
	m.On("Get", mock.Anything, 5).Return("", false)

	rtc := NewReadThroughCache[int, string, int](m, lineAt(nil), false)

	_, err := rtc.Get(context.Background(), 5, 5, time.Minute)
	require.Error(t, err)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	m := &mockCacheManager[int, string]{}
	m.On("GetWithRefresh", mock.Anything, 0, time.Hour).Return("", false).Once()
	m.On("Set", mock.Anything, 0, "ls", time.Hour).Return()

	rtc := NewReadThroughCache[int, string, int](m, lineAt([]string{"ls"}), false)

	got, err := rtc.GetWithRefresh(context.Background(), 0, 0, time.Hour)
	require.NoError(t, err)
	require.Equal(t, "ls", got)
	m.AssertExpectations(t)
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	calls := 0
	load := func(ctx context.Context, idx int) (string, error) {
		calls++
		return lineAt([]string{"a", "b"})(ctx, idx)
	}
	cache := NewInMemoryCacheManager[int, string]("history", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache[int, string, int](cache, load, false)

	for range 3 {
		got, err := rtc.Get(context.Background(), 1, 1, time.Minute)
		require.NoError(t, err)
		require.Equal(t, "b", got)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, rtc.Invalidate(context.Background()))
	_, err := rtc.Get(context.Background(), 1, 1, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
