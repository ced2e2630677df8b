package settings

import (
	"context"
	"io"
	"testing"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/memory"
	settingsdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/settings"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsecase() *DefaultSettingsUsecase {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewDefaultSettingsUsecase(memory.NewStore(), logger)
}

func ptr[T any](v T) *T { return &v }

func TestSaveAppSettingsPatchesFields(t *testing.T) {
	uc := newTestUsecase()
	ctx := context.Background()

	saved, err := uc.SaveAppSettings(ctx, "seller-1", &settingsdto.IntegrationsPatch{
		PushInPayToken:   ptr("tok"),
		PushInPayEnabled: ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, saved.GatewayReady())
	assert.False(t, saved.TrackingReady())

	saved, err = uc.SaveAppSettings(ctx, "seller-1", &settingsdto.IntegrationsPatch{UtmifyToken: ptr("utm"), UtmifyEnabled: ptr(true)})
	require.NoError(t, err)
	assert.True(t, saved.GatewayReady())
	assert.True(t, saved.TrackingReady())
	assert.Equal(t, "tok", saved.PushInPayToken)
}

func TestSaveAppSettingsValidates(t *testing.T) {
	uc := newTestUsecase()

	_, err := uc.SaveAppSettings(context.Background(), "", &settingsdto.IntegrationsPatch{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SaveAppSettings(context.Background(), "seller-1", &settingsdto.IntegrationsPatch{CustomDomain: ptr("not a domain")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsurePlatformSettingsSeedsOnce(t *testing.T) {
	uc := newTestUsecase()
	ctx := context.Background()

	seeded, err := uc.EnsurePlatformSettings(ctx, settingsdto.PlatformSettingsInput{CommissionPercentage: 0.05, FixedFeeInCents: 99})
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformSettingsID, seeded.ID)

	again, err := uc.EnsurePlatformSettings(ctx, settingsdto.PlatformSettingsInput{CommissionPercentage: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.05, again.CommissionPercentage)
	assert.Equal(t, int64(99), again.FixedFeeInCents)
}
