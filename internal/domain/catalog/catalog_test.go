package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/catalog"
)

func TestDefaultsFor_TodasLasCategoriasSonValidas(t *testing.T) {
	for _, tech := range []string{catalog.TechHDAnalog, catalog.TechIP} {
		for _, c := range catalog.Categories {
			spec, err := catalog.DefaultsFor(c, catalog.DefaultsContext{Technology: tech, Channels: 8})
			require.NoError(t, err, "categoría %s", c)
			assert.Equal(t, c, spec.Category())
			assert.NoError(t, spec.Validate(), "los valores sugeridos de %s (%s) deben validar", c, tech)
		}
	}
}

func TestDefaultsFor_DependeDelKit(t *testing.T) {
	spec, err := catalog.DefaultsFor(catalog.CategoryCable, catalog.DefaultsContext{Technology: catalog.TechIP})
	require.NoError(t, err)
	assert.Equal(t, "cat6", spec.(catalog.CableSpec).CableType)

	spec, err = catalog.DefaultsFor(catalog.CategoryNVR, catalog.DefaultsContext{Channels: 16})
	require.NoError(t, err)
	nvr := spec.(catalog.NVRSpec)
	assert.Equal(t, 16, nvr.Channels)
	assert.Equal(t, 2, nvr.HDDSlots)

	// canales no estándar caen al valor base de 4
	spec, err = catalog.DefaultsFor(catalog.CategoryDVR, catalog.DefaultsContext{Channels: 6})
	require.NoError(t, err)
	assert.Equal(t, 4, spec.(catalog.DVRSpec).Channels)
}

func TestDecode_CategoriaDesconocida(t *testing.T) {
	_, err := catalog.Decode("drone", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = catalog.ParseCategory("Drone")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := catalog.ParseCategory(" NVR ")
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryNVR, c)
}

func TestDecode_FichaMalFormada(t *testing.T) {
	_, err := catalog.Decode(catalog.CategoryDVR, json.RawMessage(`{"channels":"ocho"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyDefaults_ConservaLoCapturado(t *testing.T) {
	raw := json.RawMessage(`{"resolution":"5MP","form":"bullet"}`)
	spec, err := catalog.Decode(catalog.CategoryCamera, raw)
	require.NoError(t, err)

	defs, err := catalog.DefaultsFor(catalog.CategoryCamera, catalog.DefaultsContext{})
	require.NoError(t, err)

	merged, err := catalog.ApplyDefaults(spec, defs)
	require.NoError(t, err)
	cam := merged.(catalog.CameraSpec)
	assert.Equal(t, "5MP", cam.Resolution)
	assert.Equal(t, "bullet", cam.Form)
	assert.Equal(t, catalog.TechHDAnalog, cam.Technology)
	assert.Equal(t, 3.6, cam.LensMM)
	require.NoError(t, merged.Validate())
}

func TestApplyDefaults_CategoriasDistintas(t *testing.T) {
	defs, err := catalog.DefaultsFor(catalog.CategoryDVR, catalog.DefaultsContext{})
	require.NoError(t, err)
	_, err = catalog.ApplyDefaults(catalog.CameraSpec{}, defs)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_Reglas(t *testing.T) {
	assert.ErrorIs(t, catalog.CameraSpec{Technology: catalog.TechHDAnalog, Resolution: "2MP", Form: "dome", LensMM: 3.6, PoE: true}.Validate(),
		domain.ErrInvalidInput, "PoE en cámara analógica")
	assert.ErrorIs(t, catalog.NVRSpec{Channels: 8, PoEPorts: 16, HDDSlots: 1, BandwidthMbps: 80}.Validate(),
		domain.ErrInvalidInput, "más puertos PoE que canales")
	assert.ErrorIs(t, catalog.CableSpec{CableType: "coaxial", LengthM: 0, Conductor: "copper"}.Validate(),
		domain.ErrInvalidInput)
	assert.NoError(t, catalog.HardDiskSpec{CapacityTB: 2, Interface: "SATA"}.Validate())
}

func TestEncode_RoundTripPorCategoria(t *testing.T) {
	spec := catalog.PowerSupplySpec{Kind: "smps", OutputVolts: 12, OutputAmps: 10, Channels: 9}
	raw, err := catalog.Encode(spec)
	require.NoError(t, err)
	back, err := catalog.Decode(catalog.CategoryPowerSupply, raw)
	require.NoError(t, err)
	assert.Equal(t, spec, back)
}
