package widget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-finder/headless"
	"trivia-finder/models"
	"trivia-finder/utils"
	"trivia-finder/widget"
)

type managerRig struct {
	manager  *widget.Manager
	page     *headless.Page
	host     *headless.Host
	provider *headless.Provider
	loader   *stubLoader
	sleeps   int
}

func newManagerRig(t *testing.T, providerLoaded bool, mounts ...widget.MountPoint) *managerRig {
	t.Helper()
	r := &managerRig{
		page:     headless.NewPage(mounts...),
		host:     headless.NewHost(),
		provider: headless.NewProvider(640, 480, providerLoaded),
		loader:   newStubLoader(),
	}
	r.manager = widget.NewManager(nil, r.page, r.host, r.provider, r.loader, testSettings,
		widget.ManagerConfig{
			DiscoveryMaxAttempts: 50,
			DiscoveryInterval:    100 * time.Millisecond,
			MaxConcurrency:       2,
		}, utils.Discard())
	r.manager.SetSleep(func(context.Context, time.Duration) error {
		r.sleeps++
		return nil
	})
	return r
}

func TestDiscoverBindsEachMountOnce(t *testing.T) {
	r := newManagerRig(t, false, headless.FullMount("a", "a.csv"))

	added, err := r.manager.Discover()
	require.NoError(t, err)
	assert.Len(t, added, 1)

	added, err = r.manager.Discover()
	require.NoError(t, err)
	assert.Empty(t, added)

	r.page.Add(headless.FullMount("b", "b.csv"))
	added, err = r.manager.Discover()
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "b", added[0].Mount().Key)

	assert.Equal(t, 2, r.manager.Registry().Len())
	assert.Len(t, r.host.Mounts(), 2)
	assert.True(t, r.manager.Registry().IsBound("a"))
}

func TestMountsQueueUntilProviderReady(t *testing.T) {
	r := newManagerRig(t, false, headless.FullMount("a", "a.csv"))
	r.loader.data["a.csv"] = pubs()

	require.NoError(t, r.manager.Boot(context.Background()))
	ins := r.manager.Instances()
	require.Len(t, ins, 1)
	assert.Equal(t, widget.Uninitialized, ins[0].State())
	assert.False(t, r.manager.Registry().Ready())
	assert.Equal(t, 0, r.loader.Calls())

	require.NoError(t, r.manager.ProviderReady(context.Background()))
	assert.True(t, r.manager.Registry().Ready())
	assert.Equal(t, widget.Rendered, ins[0].State())
	assert.Equal(t, 1, r.loader.Calls())

	require.NoError(t, r.manager.ProviderReady(context.Background()))
	assert.Equal(t, 1, r.loader.Calls(), "instances start once")
	assert.Equal(t, 0, r.sleeps)
}

func TestBootStartsImmediatelyWhenProviderLoaded(t *testing.T) {
	r := newManagerRig(t, true, headless.FullMount("a", "a.csv"))
	r.loader.data["a.csv"] = pubs()

	require.NoError(t, r.manager.Boot(context.Background()))
	assert.True(t, r.manager.Registry().Ready())
	assert.Equal(t, widget.Rendered, r.manager.Instances()[0].State())
}

func TestDiscoveryRetryExhaustedIsSilent(t *testing.T) {
	r := newManagerRig(t, false)

	err := r.manager.ProviderReady(context.Background())
	require.NoError(t, err)
	assert.True(t, r.manager.Exhausted())
	assert.Equal(t, 49, r.sleeps)
	assert.Equal(t, 0, r.manager.Registry().Len())
}

func TestDiscoveryRetryFindsLateMount(t *testing.T) {
	r := newManagerRig(t, false)
	r.loader.data["late.csv"] = pubs()
	r.manager.SetSleep(func(context.Context, time.Duration) error {
		r.sleeps++
		if r.sleeps == 3 {
			r.page.Add(headless.FullMount("late", "late.csv"))
		}
		return nil
	})

	require.NoError(t, r.manager.ProviderReady(context.Background()))
	assert.False(t, r.manager.Exhausted())
	assert.Equal(t, 3, r.sleeps)
	require.Len(t, r.manager.Instances(), 1)
	assert.Equal(t, widget.Rendered, r.manager.Instances()[0].State())
}

func TestDiscoveryRetryStopsOnCancel(t *testing.T) {
	r := newManagerRig(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	r.manager.SetSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	err := r.manager.ProviderReady(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, r.manager.Exhausted())
}

func TestSiblingInstancesAreIndependent(t *testing.T) {
	r := newManagerRig(t, true,
		headless.FullMount("a", "a.csv"),
		headless.FullMount("b", "b.csv"),
	)
	r.loader.data["a.csv"] = pubs()
	r.loader.data["b.csv"] = []*models.Venue{
		venue(0, "Hall X", "Monday", "East", -37.70, 145.10),
		venue(1, "Hall Y", "Friday", "West", -37.90, 144.80),
	}
	require.NoError(t, r.manager.Boot(context.Background()))

	a, b := r.host.Mount("a"), r.host.Mount("b")
	mapA := r.provider.Map(a.Point.MapContainer)
	mapB := r.provider.Map(b.Point.MapContainer)

	require.True(t, a.Day.Choose("Monday"))
	require.True(t, a.List.Click(2))

	assert.Equal(t, []int{0, 2}, a.List.IDs())
	assert.Equal(t, []int{0, 1}, b.List.IDs())
	assert.Equal(t, []int{2}, a.List.Highlighted())
	assert.Empty(t, b.List.Highlighted())
	assert.Equal(t, "All", b.Day.Selected())
	assert.Len(t, mapA.Markers(), 2)
	assert.Len(t, mapB.Markers(), 2)
	assert.Nil(t, mapB.OpenPopup())

	require.True(t, b.List.Click(1))
	assert.Equal(t, []int{2}, a.List.Highlighted())
	assert.Equal(t, []int{1}, b.List.Highlighted())
}

func TestSequentialStartupFollowsDiscoveryOrder(t *testing.T) {
	page := headless.NewPage(
		headless.FullMount("c", "c.csv"),
		headless.FullMount("a", "a.csv"),
		headless.FullMount("b", "b.csv"),
	)
	loader := newStubLoader()
	m := widget.NewManager(nil, page, headless.NewHost(), headless.NewProvider(640, 480, true), loader, testSettings,
		widget.ManagerConfig{DiscoveryMaxAttempts: 50, DiscoveryInterval: time.Millisecond, MaxConcurrency: 1},
		utils.Discard())

	require.NoError(t, m.Boot(context.Background()))
	assert.Equal(t, []string{"c.csv", "a.csv", "b.csv"}, loader.Order())
	for _, in := range m.Instances() {
		assert.Equal(t, widget.Rendered, in.State())
	}
}

func TestSiblingFailureIsLocal(t *testing.T) {
	r := newManagerRig(t, true,
		headless.FullMount("good", "good.csv"),
		headless.FullMount("bad", "bad.csv"),
	)
	r.loader.data["good.csv"] = pubs()
	r.loader.errs["bad.csv"] = errors.New("connection refused")

	require.NoError(t, r.manager.Boot(context.Background()))

	good, bad := r.manager.Instances()[0], r.manager.Instances()[1]
	assert.Equal(t, widget.Rendered, good.State())
	assert.NoError(t, good.Err())
	assert.Equal(t, widget.SpatialViewReady, bad.State())
	assert.True(t, widget.IsLoadError(bad.Err()))
	assert.False(t, r.host.Mount("good").Status.Visible())
	assert.Contains(t, r.host.Mount("bad").Status.Markup(), "Failed to load CSV")
}

func TestRegistryReadyFlagSetOnce(t *testing.T) {
	reg := widget.NewRegistry()
	assert.False(t, reg.Ready())
	assert.True(t, reg.MarkReady())
	assert.False(t, reg.MarkReady())
	assert.True(t, reg.Ready())

	assert.True(t, reg.Claim("x"))
	assert.False(t, reg.Claim("x"))
	assert.True(t, reg.Claim("a"))
	assert.Equal(t, []string{"a", "x"}, reg.BoundKeys())
}
