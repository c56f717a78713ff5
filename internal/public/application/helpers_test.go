package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

func testShop(id string, overall float64) domain.Shop {
	return domain.Shop{
		ID:            id,
		Name:          "Shop " + id,
		Address:       "Street " + id,
		Neighborhood:  "Neighborhood " + id,
		Location:      domain.Location{Lat: 32.08, Lng: 34.78},
		PriceScore:    3,
		TasteScore:    3,
		StrengthScore: 3,
		OverallScore:  overall,
	}
}

func newTestCatalog(t *testing.T, shops ...domain.Shop) *Catalog {
	t.Helper()

	catalog, err := NewCatalog(shops)
	require.NoError(t, err)
	return catalog
}

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()

	florentin := testShop("florentin", 4.5)
	florentin.Name = "Cafe Florentin"
	florentin.Address = "Vital St 2, Tel Aviv"
	florentin.Neighborhood = "Florentin"

	jaffa := testShop("jaffa", 3.0)
	jaffa.Name = "Jaffa Roasters"
	jaffa.Address = "Yefet St 10, Jaffa"
	jaffa.Neighborhood = "Old Jaffa"

	north := testShop("north", 4.0)
	north.Name = "Nordau Espresso"
	north.Address = "Nordau Blvd 40, Tel Aviv"
	north.Neighborhood = "Old North"

	kerem := testShop("kerem", 2.5)
	kerem.Name = "Kerem Kiosk"
	kerem.Address = "HaCarmel 1"
	kerem.Neighborhood = "Kerem HaTeimanim"

	return newTestCatalog(t, florentin, jaffa, north, kerem)
}

func ids(shops []domain.Shop) []string {
	out := make([]string, 0, len(shops))
	for _, s := range shops {
		out = append(out, s.ID)
	}
	return out
}

func rating(v float64) *float64 {
	return &v
}
