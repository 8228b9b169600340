package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartenergy/metering/internal/domain"
)

func strptr(s string) *string { return &s }

func TestCreateMeterKeepsPPEForElectric(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")

	m := &domain.Meter{Serial: "M1", Type: domain.MeterTypeElectric, PPE: strptr("PPE1"), MultiplyFactor: 1}
	require.NoError(t, r.CreateMeter(ctx, m, "Plant-A"))

	got, err := r.GetMeterBySerial(ctx, "M1")
	require.NoError(t, err)
	require.NotNil(t, got.PPE)
	assert.Equal(t, "PPE1", *got.PPE)
}

func TestCreateMeterDropsPPEForOtherTypes(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")

	m := &domain.Meter{Serial: "W1", Type: "water", PPE: strptr("PPE1"), MultiplyFactor: 1}
	require.NoError(t, r.CreateMeter(ctx, m, "Plant-A"))

	got, err := r.GetMeterBySerial(ctx, "W1")
	require.NoError(t, err)
	assert.Nil(t, got.PPE)
}

func TestCreateMeterUnknownFacility(t *testing.T) {
	r := newTestRepos(t)
	m := &domain.Meter{Serial: "M1", Type: "water", MultiplyFactor: 1}
	err := r.CreateMeter(context.Background(), m, "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMetersByFacilityWithTypeFilter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	seedFacility(t, r, "Plant-B")
	seedMeter(t, r, "E1", "electric", "Plant-A")
	seedMeter(t, r, "W1", "water", "Plant-A")
	seedMeter(t, r, "E2", "electric", "Plant-B")

	all, err := r.ListMetersByFacility(ctx, "Plant-A", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	electric, err := r.ListMetersByFacility(ctx, "Plant-A", "electric")
	require.NoError(t, err)
	require.Len(t, electric, 1)
	assert.Equal(t, "E1", electric[0].Serial)
}

func TestListMetersUnknownFacility(t *testing.T) {
	r := newTestRepos(t)
	_, err := r.ListMetersByFacility(context.Background(), "nowhere", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMeterReappliesPPERule(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	m := &domain.Meter{Serial: "M1", Type: domain.MeterTypeElectric, PPE: strptr("PPE1"), MultiplyFactor: 1}
	require.NoError(t, r.CreateMeter(ctx, m, "Plant-A"))

	// retype to gas: the supplied ppe must be dropped
	require.NoError(t, r.UpdateMeter(ctx, "M1", "gas", strptr("PPE1"), 2.5, strptr("basement")))

	got, err := r.GetMeterBySerial(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, "gas", got.Type)
	assert.Nil(t, got.PPE)
	assert.Equal(t, 2.5, got.MultiplyFactor)
	assert.Equal(t, "M1", got.Serial)
}

func TestUpdateUnknownMeterIsNotFound(t *testing.T) {
	r := newTestRepos(t)
	err := r.UpdateMeter(context.Background(), "NOPE", "water", nil, 1, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMeter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	seedMeter(t, r, "M1", "water", "Plant-A")

	require.NoError(t, r.DeleteMeter(ctx, "M1"))
	_, err := r.GetMeterBySerial(ctx, "M1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMeterWithReadingsIsConflict(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	seedFacility(t, r, "Plant-A")
	seedMeter(t, r, "M1", "water", "Plant-A")
	seedUser(t, r, "a@x.com", 2)
	require.NoError(t, r.CreateReading(ctx, 1.5, "2025-01-01", "M1", "a@x.com"))

	err := r.DeleteMeter(ctx, "M1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteUnknownMeterIsNotFound(t *testing.T) {
	r := newTestRepos(t)
	err := r.DeleteMeter(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
