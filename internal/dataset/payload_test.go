package dataset

import (
	"encoding/json"
	"strings"
	"testing"

	"catalog-api/internal/dto"
	"catalog-api/internal/service"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRequest(t *testing.T, body []byte) dto.ItemRequest {
	t.Helper()
	var req dto.ItemRequest
	require.NoError(t, json.Unmarshal(body, &req))
	return req
}

func firstItem(t *testing.T) Item {
	t.Helper()
	for it := range Items(smallOptions()) {
		return it
	}
	t.Fatal("no items generated")
	return Item{}
}

func TestPadText(t *testing.T) {
	assert.Empty(t, padText("", 0))
	assert.Empty(t, padText("", -4))
	assert.Len(t, padText("", 3000), 3000)

	text := padText(descriptionPrefix, 100)
	assert.Len(t, text, 100)
	assert.True(t, strings.HasPrefix(text, "Autogenerated description. lorem"))
}

func TestSmallPayload_HitsTarget(t *testing.T) {
	for it := range Items(smallOptions()) {
		body, err := SmallPayload(it, SmallPayloadBytes)
		require.NoError(t, err)
		assert.Len(t, body, SmallPayloadBytes)

		req := decodeRequest(t, body)
		assert.Equal(t, it.SKU, req.SKU)
		assert.True(t, strings.HasPrefix(req.Name, it.Name))
		assert.Len(t, req.Name, maxName)
	}
}

func TestSmallPayload_NameOnly(t *testing.T) {
	it := firstItem(t)
	base, err := json.Marshal(it.Request())
	require.NoError(t, err)

	body, err := SmallPayload(it, len(base)+10)
	require.NoError(t, err)
	assert.Len(t, body, len(base)+10)

	req := decodeRequest(t, body)
	assert.Len(t, req.Name, len(it.Name)+10)
	assert.Nil(t, req.Description)
}

func TestSmallPayload_TargetBelowBase(t *testing.T) {
	it := firstItem(t)
	req := decodeRequest(t, must(SmallPayload(it, 10)))
	assert.Equal(t, it.Name, req.Name)
}

func TestLargePayload_HitsTarget(t *testing.T) {
	for it := range Items(smallOptions()) {
		body, err := LargePayload(it, 3*1024)
		require.NoError(t, err)
		assert.Len(t, body, 3*1024)

		req := decodeRequest(t, body)
		require.NotNil(t, req.Description)
		assert.True(t, strings.HasPrefix(*req.Description, descriptionPrefix))
		assert.Equal(t, it.Name, req.Name)
	}
}

func TestLargePayload_DescriptionCapped(t *testing.T) {
	body, err := LargePayload(firstItem(t), LargePayloadBytes)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(body), LargePayloadBytes)

	req := decodeRequest(t, body)
	require.NotNil(t, req.Description)
	assert.Len(t, *req.Description, maxDescription)
}

func must(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}

func TestProperty_PayloadsPassValidation(t *testing.T) {
	v := service.NewValidator()

	properties := gopter.NewProperties(nil)
	properties.Property("generated bodies are accepted by the item validator", prop.ForAll(
		func(seed uint64, target int) bool {
			opts := Options{Seed: seed, Categories: 10, Items: 20}
			for it := range Items(opts) {
				for _, body := range [][]byte{
					must(SmallPayload(it, target)),
					must(LargePayload(it, target)),
				} {
					var req dto.ItemRequest
					if err := json.Unmarshal(body, &req); err != nil {
						return false
					}
					item, err := v.Item(req)
					if err != nil || !item.Price.Equal(it.Price) || item.Stock != it.Stock {
						return false
					}
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(0, 8*1024),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
