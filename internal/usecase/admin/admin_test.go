package admin

import (
	"context"
	"io"
	"testing"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/audit"
	settingsdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/settings"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rootActor = domain.Actor{ID: "admin-1", Email: "root@example.com"}

func newTestUsecase() (*DefaultAdminUsecase, *memory.Store) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()
	recorder := audit.NewRecorder(store, store, 0, logger)
	return NewDefaultAdminUsecase(store.Ledger(), recorder, logger), store
}

func TestUpdatePlatformSettingsIsAudited(t *testing.T) {
	uc, store := newTestUsecase()
	ctx := context.Background()
	require.NoError(t, store.SavePlatformSettings(ctx, &domain.PlatformSettings{CommissionPercentage: 0.01, FixedFeeInCents: 100}))

	updated, err := uc.UpdatePlatformSettings(ctx, rootActor, &settingsdto.PlatformSettingsInput{
		CommissionPercentage: 0.05,
		FixedFeeInCents:      150,
		GatewayAccountID:     "acc-9",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.05, updated.CommissionPercentage)

	entries, err := uc.ListAuditLog(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, domain.AuditPlatformSettingsUpdate, entry.Action)
	assert.Equal(t, "admin-1", entry.ActorID)
	assert.Equal(t, "root@example.com", entry.ActorEmail)
	assert.Equal(t, 0.01, entry.Details.Before["commissionPercentage"])
	assert.Equal(t, 0.05, entry.Details.After["commissionPercentage"])
}

func TestUpdatePlatformSettingsRejectsInvalid(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.UpdatePlatformSettings(context.Background(), rootActor, &settingsdto.PlatformSettingsInput{CommissionPercentage: 1.5})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	entries, err := uc.ListAuditLog(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateSellerIntegrationsMasksTokens(t *testing.T) {
	uc, store := newTestUsecase()
	ctx := context.Background()
	token := "pip-secret-1234"
	enabled := true

	updated, err := uc.UpdateSellerIntegrations(ctx, rootActor, "seller-1", &settingsdto.IntegrationsPatch{
		PushInPayToken:   &token,
		PushInPayEnabled: &enabled,
	})
	require.NoError(t, err)
	assert.True(t, updated.GatewayReady())

	stored, err := store.GetAppSettings(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, token, stored.PushInPayToken)

	entries, err := uc.ListAuditLog(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seller-1", entries[0].TargetID)
	assert.Nil(t, entries[0].Details.Before)
	assert.Equal(t, "****1234", entries[0].Details.After["pushInPayToken"])
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "****", maskToken("abc"))
	assert.Equal(t, "****cdef", maskToken("abcdef"))
}
