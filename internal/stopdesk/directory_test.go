package stopdesk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/stopdesk"
)

func TestSeedDirectory(t *testing.T) {
	dir, err := stopdesk.LoadDirectory("")
	require.NoError(t, err)
	require.Len(t, dir.All(), 14)

	alger := dir.ByRegion("Alger")
	require.Len(t, alger, 3)
	for i := 1; i < len(alger); i++ {
		require.LessOrEqual(t, alger[i-1].City, alger[i].City)
	}

	require.Empty(t, dir.ByRegion("Djanet"))
	require.Empty(t, dir.ByRegion("alger"))

	p, err := dir.Get(1)
	require.NoError(t, err)
	require.Equal(t, "Oran", p.Region)
	require.True(t, dir.InRegion(1, "Oran"))
	require.False(t, dir.InRegion(1, "Alger"))

	_, err = dir.Get(999)
	require.ErrorIs(t, err, stopdesk.ErrNotFound)
}

func TestParseDirectoryRejectsBadData(t *testing.T) {
	_, err := stopdesk.ParseDirectory([]byte(`points:
  - {id: 1, name: A, region: Oran, latitude: 35.6, longitude: -0.6}
  - {id: 1, name: B, region: Oran, latitude: 35.6, longitude: -0.6}
`))
	require.ErrorIs(t, err, stopdesk.ErrDuplicateID)

	_, err = stopdesk.ParseDirectory([]byte(`points:
  - {id: 1, name: A, region: Oran, latitude: 135.6, longitude: -0.6}
`))
	require.ErrorIs(t, err, stopdesk.ErrInvalidPoint)
}

func TestInactivePointsAreHidden(t *testing.T) {
	dir, err := stopdesk.ParseDirectory([]byte(`points:
  - {id: 1, name: Open, region: Oran, city: Oran, latitude: 35.6, longitude: -0.6}
  - {id: 2, name: Closed, region: Oran, city: Oran, latitude: 35.6, longitude: -0.6, active: false}
`))
	require.NoError(t, err)
	require.Len(t, dir.ByRegion("Oran"), 1)
	require.False(t, dir.InRegion(2, "Oran"))
	_, err = dir.Get(2)
	require.NoError(t, err)
}
