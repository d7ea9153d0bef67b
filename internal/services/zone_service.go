package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/authz"
	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/cerrolargo/camineria-backend/internal/models"
	"github.com/cerrolargo/camineria-backend/internal/zones"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidState = errors.New("state must be green, yellow or red")
	ErrZoneDenied   = errors.New("actor is not allowed to update this zone")
	ErrZoneNotFound = errors.New("zone not found")
)

// DeniedError carries the policy reason alongside ErrZoneDenied.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return "forbidden: " + e.Reason }
func (e *DeniedError) Unwrap() error { return ErrZoneDenied }

type ZoneService struct {
	db *gorm.DB
}

func NewZoneService(db *gorm.DB) *ZoneService {
	return &ZoneService{db: db}
}

// Seed inserts the fixed municipality list with state green when the
// table is empty. Idempotent across restarts.
func (s *ZoneService) Seed() (int, error) {
	var count int64
	if err := s.db.Model(&models.ZoneState{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]models.ZoneState, 0, len(zones.Municipalities))
	for _, name := range zones.Municipalities {
		rows = append(rows, models.ZoneState{
			ZoneKey:   zones.Canonical(name),
			ZoneName:  name,
			State:     models.StateGreen,
			UpdatedBy: "sistema",
			UpdatedAt: now,
		})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to seed zones: %w", err)
	}
	return len(rows), nil
}

// List returns every zone row, display-name keyed.
func (s *ZoneService) List() ([]models.ZoneState, error) {
	var all []models.ZoneState
	err := s.db.Order("zone_name").Find(&all).Error
	return all, err
}

// States returns the zone map visible to the actor: everything for
// AllZones, the single assigned zone otherwise.
func (s *ZoneService) States(actor authz.Actor) (map[string]dto.ZoneStateEntry, error) {
	query := s.db.Order("zone_name")
	if !actor.Scope.All() {
		if actor.Scope.ZoneKey() == "" {
			return map[string]dto.ZoneStateEntry{}, nil
		}
		query = query.Where("zone_key = ?", actor.Scope.ZoneKey())
	}

	var rows []models.ZoneState
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]dto.ZoneStateEntry, len(rows))
	for _, z := range rows {
		out[z.ZoneName] = dto.ZoneStateEntry{
			State:     z.State,
			UpdatedBy: z.UpdatedBy,
			UpdatedAt: z.UpdatedAt.UTC().Format(time.RFC3339),
			Notes:     z.Notes,
		}
	}
	return out, nil
}

// Update validates the state literal, checks the policy and upserts the
// row in one INSERT ... ON CONFLICT statement, stamping the acting
// identity. Two concurrent writers on the same zone race benignly: last
// write wins.
func (s *ZoneService) Update(actor authz.Actor, zoneName, state, notes string) (*models.ZoneState, error) {
	if zoneName == "" {
		return nil, errors.New("zone_name is required")
	}
	if !models.ValidState(state) {
		return nil, ErrInvalidState
	}
	if d := authz.Decide(actor, zoneName); !d.Allowed {
		return nil, &DeniedError{Reason: d.Reason}
	}

	row := models.ZoneState{
		ZoneKey:   zones.Canonical(zoneName),
		ZoneName:  zoneName,
		State:     state,
		UpdatedBy: actor.Email,
		UpdatedAt: time.Now().UTC(),
		Notes:     notes,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zone_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_by", "updated_at", "notes"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert zone state: %w", err)
	}

	var stored models.ZoneState
	if err := s.db.Where("zone_key = ?", row.ZoneKey).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// BulkUpdate applies Update per item. Items failing validation or the
// policy are skipped with a reason; the batch never aborts.
func (s *ZoneService) BulkUpdate(actor authz.Actor, updates []dto.UpdateZoneStateRequest) (*dto.BulkUpdateResponse, error) {
	resp := &dto.BulkUpdateResponse{Success: true}
	for _, u := range updates {
		if !models.ValidState(u.State) {
			resp.Skipped = append(resp.Skipped, dto.SkippedUpdate{ZoneName: u.ZoneName, Reason: "invalid_state"})
			continue
		}
		if d := authz.Decide(actor, u.ZoneName); !d.Allowed {
			resp.Skipped = append(resp.Skipped, dto.SkippedUpdate{ZoneName: u.ZoneName, Reason: d.Reason})
			continue
		}
		if _, err := s.Update(actor, u.ZoneName, u.State, u.Notes); err != nil {
			resp.Skipped = append(resp.Skipped, dto.SkippedUpdate{ZoneName: u.ZoneName, Reason: "write_failed"})
			continue
		}
		resp.Updated++
	}
	resp.Message = fmt.Sprintf("Se actualizaron %d zonas", resp.Updated)
	return resp, nil
}

// Get looks a zone up by name in any spelling.
func (s *ZoneService) Get(zoneName string) (*models.ZoneState, error) {
	var zone models.ZoneState
	if err := s.db.Where("zone_key = ?", zones.Canonical(zoneName)).First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return &zone, nil
}
