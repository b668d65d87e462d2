package preset_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/preset"
	"github.com/teknova-erp/resource-api/internal/query"
	"go.uber.org/zap"
)

func newPresetStore() (*preset.Store, persistence.Backend) {
	backend := persistence.NewMemoryBackend()
	return preset.NewStore(backend, zap.NewNop()), backend
}

func sampleParams() query.Params {
	return query.Params{
		Search:    "erp",
		SortField: "name",
		SortDesc:  true,
		Year:      2025,
		Month:     3,
	}.WithFacet("type", []string{"SoftwareDeveloper", "SupportPersonnel"}).
		WithFacet("workplace", []string{"Ankara"})
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	presets, _ := newPresetStore()
	ctx := context.Background()

	saved, err := presets.Save(ctx, "march devs", sampleParams())
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)
	assert.Equal(t, "march devs", saved.Name)

	loaded, err := presets.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, sampleParams(), loaded)
}

func TestSaveRejectsEmptyName(t *testing.T) {
	presets, _ := newPresetStore()

	_, err := presets.Save(context.Background(), "   ", sampleParams())
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSaveAllowsDuplicateNames(t *testing.T) {
	presets, _ := newPresetStore()
	ctx := context.Background()

	first, err := presets.Save(ctx, "march devs", sampleParams())
	require.NoError(t, err)
	second, err := presets.Save(ctx, "march devs", query.Params{Search: "other"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Both remain addressable; names do not collide.
	all, err := presets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLoadMissingPresetIsNotFound(t *testing.T) {
	presets, _ := newPresetStore()

	_, err := presets.Load(context.Background(), 12)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestLoadCorruptBlob(t *testing.T) {
	presets, backend := newPresetStore()
	ctx := context.Background()

	saved, err := presets.Save(ctx, "ok", sampleParams())
	require.NoError(t, err)

	// Damage the stored blob behind the store's back.
	_, err = backend.Replace(ctx, domain.KindFilterPreset, saved.ID,
		[]byte(`{"id":1,"name":"ok","filterData":"{not json"}`))
	require.NoError(t, err)

	_, err = presets.Load(ctx, saved.ID)
	require.Error(t, err)

	var cp *domain.CorruptPresetError
	require.ErrorAs(t, err, &cp)
	assert.Equal(t, saved.ID, cp.ID)
	assert.False(t, domain.IsNotFound(err))
}

func TestLoadRejectsUnknownBlobVersion(t *testing.T) {
	presets, backend := newPresetStore()
	ctx := context.Background()

	saved, err := presets.Save(ctx, "future", sampleParams())
	require.NoError(t, err)

	_, err = backend.Replace(ctx, domain.KindFilterPreset, saved.ID,
		[]byte(`{"id":1,"name":"future","filterData":"{\"version\":99,\"params\":{}}"}`))
	require.NoError(t, err)

	_, err = presets.Load(ctx, saved.ID)
	var cp *domain.CorruptPresetError
	require.ErrorAs(t, err, &cp)
}

func TestDeletePreset(t *testing.T) {
	presets, _ := newPresetStore()
	ctx := context.Background()

	saved, err := presets.Save(ctx, "temp", sampleParams())
	require.NoError(t, err)

	_, err = presets.Delete(ctx, saved.ID)
	require.NoError(t, err)

	_, err = presets.Load(ctx, saved.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestListKeepsInsertionOrder(t *testing.T) {
	presets, _ := newPresetStore()
	ctx := context.Background()

	_, err := presets.Save(ctx, "first", query.Params{})
	require.NoError(t, err)
	_, err = presets.Save(ctx, "second", query.Params{})
	require.NoError(t, err)

	all, err := presets.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Name)
	assert.Equal(t, "second", all[1].Name)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	blob, err := preset.Encode(sampleParams())
	require.NoError(t, err)

	decoded, err := preset.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, sampleParams(), decoded)
}
