package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartenergy/metering/internal/domain"
)

func TestFacilityRoundTrip(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, r.CreateFacility(ctx, "Plant-A", "1 Grid Way", "plant-a@example.com"))

	f, err := r.GetFacilityByName(ctx, "Plant-A")
	require.NoError(t, err)
	assert.Equal(t, "Plant-A", f.Name)
	assert.Equal(t, "1 Grid Way", f.Address)
	assert.Equal(t, "plant-a@example.com", f.Email)
}

func TestGetUnknownFacilityIsNotFound(t *testing.T) {
	r := newTestRepos(t)
	_, err := r.GetFacilityByName(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateFacilityKeepsName(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")

	require.NoError(t, r.UpdateFacility(ctx, "Plant-A", "2 New Road", "ops@example.com"))

	f, err := r.GetFacilityByName(ctx, "Plant-A")
	require.NoError(t, err)
	assert.Equal(t, "Plant-A", f.Name)
	assert.Equal(t, "2 New Road", f.Address)
	assert.Equal(t, "ops@example.com", f.Email)
}

func TestUpdateUnknownFacilityIsNotFound(t *testing.T) {
	r := newTestRepos(t)
	err := r.UpdateFacility(context.Background(), "nowhere", "addr", "mail")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFacilityRemovesAssignments(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	seedUser(t, r, "a@x.com", 2)
	require.NoError(t, r.AssignUserToFacility(ctx, "a@x.com", "Plant-A"))

	require.NoError(t, r.DeleteFacility(ctx, "Plant-A"))

	_, err := r.GetFacilityByName(ctx, "Plant-A")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	facilities, err := r.ListFacilitiesForUser(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, facilities)
}

func TestDeleteFacilityWithMetersIsConflict(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	seedMeter(t, r, "M1", "water", "Plant-A")

	err := r.DeleteFacility(ctx, "Plant-A")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// the facility survives the rejected delete
	_, err = r.GetFacilityByName(ctx, "Plant-A")
	require.NoError(t, err)
}

func TestListFacilitiesOrdered(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-B")
	seedFacility(t, r, "Plant-A")

	facilities, err := r.ListFacilities(ctx)
	require.NoError(t, err)
	require.Len(t, facilities, 2)
	// insertion order, not name order
	assert.Equal(t, "Plant-B", facilities[0].Name)
	assert.Equal(t, "Plant-A", facilities[1].Name)
}
