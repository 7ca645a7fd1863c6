package usecase

import (
	"context"
	"testing"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFixture(settlementCount int64, settlementAmount float64) *DashboardBuilder {
	intake := &stubIntakeStore{
		count: func(domrepo.IntakeFilter) (int64, error) { return 10, nil },
		sum:   func(domrepo.IntakeFilter) (float64, error) { return 100, nil },
	}
	clearing := &stubClearingStore{
		count: func(domrepo.ClearingFilter) (int64, error) { return 5, nil },
		sum:   func(domrepo.ClearingFilter) (float64, error) { return 50, nil },
	}
	settlement := &stubSettlementStore{
		count: func(domrepo.SettlementFilter) (int64, error) { return settlementCount, nil },
		sum:   func(domrepo.SettlementFilter) (float64, error) { return settlementAmount, nil },
	}
	agg := NewAggregator(intake, clearing, settlement, nil, nil)
	return NewDashboardBuilder(agg, NewReconciler(agg, nil, nil), nil)
}

func cardByTitle(t *testing.T, resp models.DashboardResponse, title string) models.StatCard {
	t.Helper()
	for _, c := range resp.Cards {
		if c.Title == title {
			return c
		}
	}
	t.Fatalf("card %q not found", title)
	return models.StatCard{}
}

func TestDashboardBuildsAllCards(t *testing.T) {
	b := dashboardFixture(15, 150)

	resp := b.Build(context.Background(), models.Today())

	require.Len(t, resp.Cards, 6)
	for _, c := range resp.Cards {
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Data)
	}

	intake := cardByTitle(t, resp, "Encaisse valeur")
	assert.Equal(t, "10", intake.Data[0].Value)
	assert.Equal(t, "100.00 DT", intake.Data[0].Detail)
}

func TestControlsCardBalancedVerdict(t *testing.T) {
	b := dashboardFixture(15, 150)

	resp := b.Build(context.Background(), models.Today())
	controls := cardByTitle(t, resp, "Actions et controles")

	require.NotEmpty(t, controls.Data)
	assert.Equal(t, "Equilibre (15 = 15)", controls.Data[0].Value)
	assert.Equal(t, models.RowSuccess, controls.Data[0].Status)
	// Balanced window carries no missing/excess rows.
	assert.Len(t, controls.Data, 4)
}

func TestControlsCardMissingRecordsRow(t *testing.T) {
	b := dashboardFixture(12, 150)

	resp := b.Build(context.Background(), models.Today())
	controls := cardByTitle(t, resp, "Actions et controles")

	require.Len(t, controls.Data, 5)
	assert.Equal(t, "Desequilibre (15 vs 12)", controls.Data[0].Value)
	assert.Equal(t, models.RowWarning, controls.Data[0].Status)
	assert.Equal(t, "Fichiers non parvenus au settlement", controls.Data[4].Label)
	assert.Equal(t, "3", controls.Data[4].Value)
}

func TestControlsCardExcessRow(t *testing.T) {
	b := dashboardFixture(20, 150)

	resp := b.Build(context.Background(), models.Today())
	controls := cardByTitle(t, resp, "Actions et controles")

	require.Len(t, controls.Data, 5)
	assert.Equal(t, "Elements settlement en exces", controls.Data[4].Label)
	assert.Equal(t, "5", controls.Data[4].Value)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0 DT", formatAmount(0))
	assert.Equal(t, "1234.50 DT", formatAmount(1234.5))
}
