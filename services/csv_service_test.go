package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCut(t *testing.T, repo *fakeRepo, name, nameZh, part, priceText string, lean bool, methods, dishes string) *models.Cut {
	t.Helper()
	price, err := utils.ParsePriceRange(priceText)
	require.NoError(t, err)

	cut := &models.Cut{
		Name:         name,
		NameZh:       nameZh,
		Part:         part,
		Lean:         lean,
		PriceMin:     price.Min,
		PriceMax:     price.Max,
		PriceMean:    price.Mean,
		PriceDisplay: utils.FormatPriceRange(price.Min, price.Max),
		ImageKey:     utils.Slugify(name),
		Slug:         utils.Slugify(name),
	}
	require.NoError(t, repo.Create(cut))
	require.NoError(t, repo.ReplaceMethods(cut, utils.SplitTags(methods)))
	require.NoError(t, repo.ReplaceDishes(cut, utils.SplitTags(dishes)))
	return cut
}

func TestCsvRoundTrip(t *testing.T) {
	source := newFakeRepo()
	seedCut(t, source, "Arm Chuck Roast", "板腱", "Chuck", "$6 – $9", false, "Braise, Roast", "Pot Roast")
	seedCut(t, source, "Short Rib", "牛小排", "Plate", "$10 – $15", false, "Grill", "Korean BBQ, Stew")
	seedCut(t, source, "Eye Round", "後腿眼肉", "Round", "$5 – $7", true, "Roast", "")

	var buf bytes.Buffer
	require.NoError(t, NewCsvService(source).Export(&buf))

	// Export refreshes the CSV concern, not the catalog one.
	assert.Equal(t, 1, source.touches[models.SyncKeyCsvExport])
	assert.Equal(t, 0, source.touches[models.SyncKeyCatalog])

	target := newFakeRepo()
	summary, err := NewCsvService(target).Import(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Errors)

	imported, err := target.GetBySlug("arm-chuck-roast")
	require.NoError(t, err)
	assert.Equal(t, "Arm Chuck Roast", imported.Name)
	assert.Equal(t, "板腱", imported.NameZh)
	assert.Equal(t, "Chuck", imported.Part)
	assert.False(t, imported.Lean)
	assert.Equal(t, "$6 – $9", imported.PriceDisplay)
	assert.True(t, imported.PriceMin.Equal(decimalFrom(t, "6")))
	assert.True(t, imported.PriceMax.Equal(decimalFrom(t, "9")))
	require.Len(t, imported.CookingMethods, 2)
	assert.Equal(t, "Braise", imported.CookingMethods[0].Name)
	assert.Equal(t, "Roast", imported.CookingMethods[1].Name)

	lean, err := target.GetBySlug("eye-round")
	require.NoError(t, err)
	assert.True(t, lean.Lean)

	// Import is additive: the catalog concern is bumped exactly once.
	assert.Equal(t, 1, target.touches[models.SyncKeyCatalog])
}

func TestCsvImportRowIndependence(t *testing.T) {
	input := strings.Join([]string{
		`Name,Chinese Name,Part,Lean,Price Range,Image Key,Cooking Methods`,
		`,牛腩,Plate,No,$8 – $12,beefnavel,Stew`,       // missing name → rejected
		`Brisket,牛腩,Brisket,No,cheap,brisket,Braise`, // bad price → rejected
		`Flank Steak,牛腹排,Flank,Yes,$9 – $13,flanksteak,Grill`,
	}, "\n")

	repo := newFakeRepo()
	summary, err := NewCsvService(repo).Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 1, summary.Errors[0].Row)
	assert.Contains(t, summary.Errors[0].Reason, "missing name")
	assert.Equal(t, 2, summary.Errors[1].Row)
	assert.Contains(t, summary.Errors[1].Reason, "price range")

	// The well-formed row after the failures still landed.
	cut, err := repo.GetBySlug("flank-steak")
	require.NoError(t, err)
	assert.True(t, cut.Lean)
	assert.Equal(t, 1, repo.touches[models.SyncKeyCatalog])
}

func TestCsvImportSnakeCaseHeaders(t *testing.T) {
	input := strings.Join([]string{
		`name,name_zh,part,lean,price_range,image_key,cooking_methods,recommended_dishes`,
		`Tri-Tip,三角肉,Sirloin,true,$7 – $11,tritip,"Grill, Roast",Santa Maria BBQ`,
	}, "\n")

	repo := newFakeRepo()
	summary, err := NewCsvService(repo).Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)

	cut, err := repo.GetBySlug("tri-tip")
	require.NoError(t, err)
	assert.True(t, cut.Lean)
	assert.Equal(t, "三角肉", cut.NameZh)
	require.Len(t, cut.CookingMethods, 2)
	require.Len(t, cut.Dishes, 1)
	assert.Equal(t, "Santa Maria BBQ", cut.Dishes[0].Name)
}

func TestCsvImportUnrecognizedHeader(t *testing.T) {
	input := "foo,bar\n1,2\n"
	_, err := NewCsvService(newFakeRepo()).Import(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recognized column")
}

func TestCsvImportNothingSucceedsNoTimestamp(t *testing.T) {
	input := strings.Join([]string{
		`Name,Chinese Name,Part,Price Range,Image Key`,
		`,x,Chuck,$1 – $2,key`,
	}, "\n")

	repo := newFakeRepo()
	summary, err := NewCsvService(repo).Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0, repo.touches[models.SyncKeyCatalog])
}

func TestCsvImportCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := strings.Join([]string{
		`Name,Chinese Name,Part,Price Range,Image Key`,
		`Brisket,牛腩,Brisket,$4 – $6,brisket`,
	}, "\n")

	repo := newFakeRepo()
	summary, err := NewCsvService(repo).Import(ctx, strings.NewReader(input))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Succeeded)
}
