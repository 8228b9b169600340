package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartenergy/metering/internal/domain"
)

func TestResolveFacilityIDIsStable(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")

	first, err := r.ResolveFacilityID(ctx, "Plant-A")
	require.NoError(t, err)
	assert.Positive(t, first)

	second, err := r.ResolveFacilityID(ctx, "Plant-A")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveUnknownKeysFailHard(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.ResolveFacilityID(ctx, "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.ResolveUserID(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.ResolveMeterID(ctx, "NO-SUCH-SERIAL")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveCarriesOffendingKey(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.ResolveMeterID(context.Background(), "M-404")
	require.Error(t, err)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "meter", nf.Entity)
	assert.Equal(t, "M-404", nf.Key)
}

func TestResolverDistinguishesEntities(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	seedUser(t, r, "tech@example.com", 2)
	seedMeter(t, r, "M1", "water", "Plant-A")

	fid, err := r.ResolveFacilityID(ctx, "Plant-A")
	require.NoError(t, err)
	uid, err := r.ResolveUserID(ctx, "tech@example.com")
	require.NoError(t, err)
	mid, err := r.ResolveMeterID(ctx, "M1")
	require.NoError(t, err)

	assert.Positive(t, fid)
	assert.Positive(t, uid)
	assert.Positive(t, mid)
}
