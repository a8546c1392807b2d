package store

import (
	"fmt"
	"time"
)

// defaultAlertDedupWindow resolves spec.md §9's alert de-duplication open
// question: a given (alert_type, token_address) pair is suppressed if an
// identical alert already fired within this window.
const defaultAlertDedupWindow = time.Hour

// NewAlert is the input to CreateAlertDeduped.
type NewAlert struct {
	AlertType     AlertType
	TokenAddress  string
	TokenSymbol   *string
	WalletAddress *string
	Title         string
	Message       *string
}

// CreateAlertDeduped inserts an alert unless an alert of the same type for
// the same token already fired within the last hour, in which case it is
// silently suppressed and created reports false (spec.md §4.4/§9).
func (s *Store) CreateAlertDeduped(n NewAlert) (created bool, err error) {
	return s.createAlertDedupedSince(n, time.Now().UTC().Add(-defaultAlertDedupWindow))
}

func (s *Store) createAlertDedupedSince(n NewAlert, since time.Time) (created bool, err error) {
	var count int64
	err = s.db.Model(&AlertEvent{}).
		Where("alert_type = ? AND token_address = ? AND created_at >= ?", n.AlertType, n.TokenAddress, since).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("store: failed to check alert dedup for %s/%s: %w", n.AlertType, n.TokenAddress, err)
	}
	if count > 0 {
		return false, nil
	}

	row := AlertEvent{
		AlertType:     n.AlertType,
		TokenAddress:  n.TokenAddress,
		TokenSymbol:   n.TokenSymbol,
		WalletAddress: n.WalletAddress,
		Title:         n.Title,
		Message:       n.Message,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return false, fmt.Errorf("store: failed to create alert %s/%s: %w", n.AlertType, n.TokenAddress, err)
	}
	return true, nil
}
