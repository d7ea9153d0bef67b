package services

import (
	"encoding/json"
	"testing"

	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestSubscribeValidation(t *testing.T) {
	svc := NewNotifyService(testDB(t))

	err := svc.Subscribe(&dto.SubscribeRequest{Phone: "no-es-telefono", Zones: []string{"MELO"}, Consent: true})
	require.ErrorIs(t, err, ErrInvalidPhone)

	err = svc.Subscribe(&dto.SubscribeRequest{Phone: "+59899123456", Zones: []string{" ", ""}, Consent: true})
	require.ErrorIs(t, err, ErrZonesRequired)

	err = svc.Subscribe(&dto.SubscribeRequest{Phone: "+59899123456", Zones: []string{"MELO"}})
	require.ErrorIs(t, err, ErrConsentRequired)
}

func TestSubscribeUpsertsByPhone(t *testing.T) {
	db := testDB(t)
	svc := NewNotifyService(db)

	err := svc.Subscribe(&dto.SubscribeRequest{Phone: "+59899123456", Zones: []string{"MELO"}, Consent: true})
	require.NoError(t, err)

	var first models.Subscriber
	require.NoError(t, db.Where("phone = ?", "+59899123456").First(&first).Error)

	// Re-subscribing replaces the zone selection, keeps the row.
	err = svc.Subscribe(&dto.SubscribeRequest{Phone: "+59899123456", Zones: []string{"ARÉVALO", "RÍO BRANCO"}, Consent: true})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Subscriber{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var second models.Subscriber
	require.NoError(t, db.Where("phone = ?", "+59899123456").First(&second).Error)
	require.Equal(t, first.ID, second.ID)

	var zones []string
	require.NoError(t, json.Unmarshal(second.Zones, &zones))
	require.Equal(t, []string{"ARÉVALO", "RÍO BRANCO"}, zones)
}

func TestSubscribeStoresConsent(t *testing.T) {
	db := testDB(t)
	svc := NewNotifyService(db)

	require.NoError(t, svc.Subscribe(&dto.SubscribeRequest{Phone: "59899000111", Zones: []string{"TUPAMBAÉ"}, Consent: true}))

	var sub models.Subscriber
	require.NoError(t, db.Where("phone = ?", "59899000111").First(&sub).Error)
	require.True(t, sub.Consent)
	require.True(t, sub.Active)
	require.False(t, sub.CreatedAt.IsZero())
}
