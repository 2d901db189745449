package fallback

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecil-the-coder/fallback-kit/internal/testutil"
	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	strategy, err := New("chain", nil)
	require.NoError(t, err)

	config := strategy.Config()
	assert.Equal(t, ModeSequential, config.Mode)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, []RetryCategory{RetryAll}, config.RetryOn)
}

func TestNew_InvalidConfigRejected(t *testing.T) {
	_, err := New("chain", &Config{Mode: "random", MaxRetries: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid fallback config")
}

func TestAddProvider_RejectsNil(t *testing.T) {
	strategy, err := New("chain", nil)
	require.NoError(t, err)

	err = strategy.AddProvider(nil)
	require.Error(t, err)
	assert.Empty(t, strategy.ProviderNames())
}

func TestAddProvider_Appends(t *testing.T) {
	strategy, err := New("chain", nil)
	require.NoError(t, err)

	require.NoError(t, strategy.AddProvider(testutil.NewMockProvider("a")))
	require.NoError(t, strategy.AddProvider(testutil.NewMockProvider("b")))

	assert.Equal(t, []string{"a", "b"}, strategy.ProviderNames())
}

func TestRemoveProvider(t *testing.T) {
	strategy, err := New("chain", nil)
	require.NoError(t, err)
	strategy.SetProviders([]types.Provider{
		testutil.NewMockProvider("a"),
		testutil.NewMockProvider("b"),
	})

	assert.True(t, strategy.RemoveProvider("a"))
	assert.Equal(t, []string{"b"}, strategy.ProviderNames())
	assert.False(t, strategy.RemoveProvider("missing"))
}

func TestSetProviders_ResetsRoundRobinCursor(t *testing.T) {
	config := DefaultConfig()
	config.Mode = ModeRoundRobin
	a := testutil.NewMockProvider("a")
	b := testutil.NewMockProvider("b")
	strategy := newStrategy(t, config, a, b)

	// Advance the cursor past the first provider.
	_ = strategy.Execute(context.Background(), nil, types.GenerateOptions{})
	_ = strategy.Execute(context.Background(), nil, types.GenerateOptions{})

	strategy.SetProviders([]types.Provider{a, b})
	result := strategy.Execute(context.Background(), nil, types.GenerateOptions{})
	require.NotEmpty(t, result.Attempts)
	assert.Equal(t, "a", result.Attempts[0].ProviderName)
}

func TestAvailableProviders_LiveCheck(t *testing.T) {
	up := testutil.NewMockProvider("up")
	down := testutil.NewMockProvider("down").WithAvailable(false)
	strategy := newStrategy(t, nil, up, down)

	assert.Equal(t, []string{"up"}, strategy.AvailableProviders())
	assert.Equal(t, []string{"up", "down"}, strategy.ProviderNames())

	down.WithAvailable(true)
	assert.Equal(t, []string{"up", "down"}, strategy.AvailableProviders())
}

func TestOrderFor_RoundRobinRotation(t *testing.T) {
	config := DefaultConfig()
	config.Mode = ModeRoundRobin
	strategy := newStrategy(t, config,
		testutil.NewMockProvider("a"),
		testutil.NewMockProvider("b"),
		testutil.NewMockProvider("c"),
	)

	first := strategy.orderFor()
	second := strategy.orderFor()

	require.Len(t, first, 3)
	assert.Equal(t, "a", first[0].Name())
	assert.Equal(t, "b", second[0].Name())
	assert.Equal(t, "c", second[1].Name())
	assert.Equal(t, "a", second[2].Name())
}

func TestOrderFor_AdvancesEvenIfSequenceUnconsumed(t *testing.T) {
	config := DefaultConfig()
	config.Mode = ModeRoundRobin
	strategy := newStrategy(t, config,
		testutil.NewMockProvider("a"),
		testutil.NewMockProvider("b"),
	)

	// Computing the order is what advances the cursor; nothing is invoked.
	_ = strategy.orderFor()
	order := strategy.orderFor()
	assert.Equal(t, "b", order[0].Name())
}

func TestOrderFor_ConcurrentCallsObserveDistinctOffsets(t *testing.T) {
	config := DefaultConfig()
	config.Mode = ModeRoundRobin
	providers := []types.Provider{
		testutil.NewMockProvider("a"),
		testutil.NewMockProvider("b"),
		testutil.NewMockProvider("c"),
	}
	strategy := newStrategy(t, config, providers...)

	const calls = 99
	var wg sync.WaitGroup
	counts := make(chan string, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts <- strategy.orderFor()[0].Name()
		}()
	}
	wg.Wait()
	close(counts)

	seen := map[string]int{}
	for name := range counts {
		seen[name]++
	}
	// The atomic cursor hands out each offset exactly calls/len times.
	assert.Equal(t, 33, seen["a"])
	assert.Equal(t, 33, seen["b"])
	assert.Equal(t, 33, seen["c"])
}

func TestConfigAccessorReturnsCopy(t *testing.T) {
	strategy, err := New("chain", nil)
	require.NoError(t, err)

	config := strategy.Config()
	config.MaxRetries = 99
	config.RetryOn[0] = RetryTimeout

	fresh := strategy.Config()
	assert.Equal(t, 3, fresh.MaxRetries)
	assert.Equal(t, RetryAll, fresh.RetryOn[0])
}
