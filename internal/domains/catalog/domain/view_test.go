package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func product(id, category string, price int64) Product {
	return Product{ID: id, Name: "item " + id, Category: category, Price: decimal.NewFromInt(price)}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDerive_FiltersByCategory(t *testing.T) {
	products := []Product{product("1", "Electronics", 10), product("2", "Books", 5)}

	got := Derive(products, Filter{Category: "Electronics"})

	require.Equal(t, []string{"1"}, ids(got))
}

func TestDerive_AllCategorySkipsFilter(t *testing.T) {
	products := []Product{product("1", "Electronics", 10), product("2", "Books", 5)}

	got := Derive(products, Filter{Category: CategoryAll})

	require.Equal(t, []string{"1", "2"}, ids(got))
}

func TestDerive_SearchMatchesNameOrDescriptionCaseInsensitive(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Kindle Paperwhite"},
		{ID: "2", Name: "Desk", Description: "Solid OAK top"},
		{ID: "3", Name: "Lamp", Description: "LED"},
	}

	require.Equal(t, []string{"1"}, ids(Derive(products, Filter{Search: "kindle"})))
	require.Equal(t, []string{"2"}, ids(Derive(products, Filter{Search: "oak"})))
	require.Empty(t, Derive(products, Filter{Search: "sofa"}))
}

func TestDerive_SortsByPriceStable(t *testing.T) {
	products := []Product{product("a", "X", 300), product("b", "X", 100), product("c", "X", 100)}

	asc := Derive(products, Filter{Sort: SortPriceAsc})
	require.Equal(t, []string{"b", "c", "a"}, ids(asc))

	desc := Derive(products, Filter{Sort: SortPriceDesc})
	require.Equal(t, []string{"a", "b", "c"}, ids(desc))
}

func TestDerive_LegacySortAlias(t *testing.T) {
	mode, err := ParseSortMode("priceLowToHigh")
	require.NoError(t, err)

	got := Derive([]Product{product("1", "X", 300), product("2", "X", 100)}, Filter{Sort: mode})

	require.Equal(t, "100", got[0].Price.String())
	require.Equal(t, "300", got[1].Price.String())
}

func TestDerive_NewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []Product{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "unknown"},
	}

	got := Derive(products, Filter{Sort: SortNewest})

	require.Equal(t, []string{"new", "old", "unknown"}, ids(got))
}

func TestDerive_DefaultKeepsReceivedOrderAndIsIdempotent(t *testing.T) {
	products := []Product{product("3", "X", 1), product("1", "X", 9), product("2", "X", 5)}
	f := Filter{Category: "X", Search: "item", Sort: SortDefault}

	first := Derive(products, f)
	second := Derive(products, f)

	require.Equal(t, []string{"3", "1", "2"}, ids(first))
	require.Equal(t, first, second)
	require.Equal(t, []string{"3", "1", "2"}, ids(products))
}

func TestParseSortMode_RejectsUnknown(t *testing.T) {
	_, err := ParseSortMode("cheapest")
	require.ErrorIs(t, err, ErrUnknownSortMode)
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{"Books", "", "Books", "ALL", " Toys "})
	require.Equal(t, []string{"Books", "Toys"}, got)
}
