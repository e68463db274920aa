package templates

import (
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
)

// Audience selects the wording of user-facing labels.
type Audience string

const (
	AudienceAdmin Audience = "admin"
	AudienceUser  Audience = "user"
)

// alertLabelKeys maps each alert type to its message key per audience.
// Drivers see "drunk" as impairment; fleet admins see it as is.
var alertLabelKeys = map[Audience]map[dataset.AlertType]string{
	AudienceAdmin: {
		dataset.AlertDrowsy:     i18n.KeyAlertDrowsy,
		dataset.AlertDistracted: i18n.KeyAlertDistracted,
		dataset.AlertDrunk:      i18n.KeyAlertDrunk,
	},
	AudienceUser: {
		dataset.AlertDrowsy:     i18n.KeyAlertDrowsy,
		dataset.AlertDistracted: i18n.KeyAlertDistracted,
		dataset.AlertDrunk:      i18n.KeyAlertImpairment,
	},
}

// AlertLabel returns the localized label of an alert type.
func AlertLabel(loc Localizer, audience Audience, alertType dataset.AlertType) string {
	keys, ok := alertLabelKeys[audience]
	if !ok {
		keys = alertLabelKeys[AudienceAdmin]
	}
	key, ok := keys[alertType]
	if !ok {
		return string(alertType)
	}
	return T(loc, key)
}

// AlertBadgeClass returns the badge style of an alert type.
func AlertBadgeClass(alertType dataset.AlertType) string {
	switch alertType {
	case dataset.AlertDrowsy:
		return "badge badge-warning"
	case dataset.AlertDrunk:
		return "badge badge-danger"
	case dataset.AlertDistracted:
		return "badge badge-info"
	default:
		return "badge"
	}
}

// StatusBadgeClass returns the badge style of a driver status.
func StatusBadgeClass(status dataset.DriverStatus) string {
	switch status {
	case dataset.DriverActive:
		return "badge badge-success"
	case dataset.DriverSuspended:
		return "badge badge-danger"
	default:
		return "badge"
	}
}

// ScoreClass colors a safety score.
func ScoreClass(score int) string {
	switch {
	case score >= 90:
		return "score score-high"
	case score >= 75:
		return "score score-medium"
	default:
		return "score score-low"
	}
}
