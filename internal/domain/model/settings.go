package model

import (
	"fmt"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

// ISODate marshals as a bare "YYYY-MM-DD" string, matching the date strings
// the alert suppression state has always used on the wire.
type ISODate time.Time

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d ISODate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(isoDateLayout) + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" string.
func (d *ISODate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = ISODate(t)
	return nil
}

// Time returns the date as a UTC-midnight time.Time.
func (d ISODate) Time() time.Time {
	return Midnight(time.Time(d))
}

// AlertSettings is the per-user alert configuration and suppression state.
// The JSON keys match the free-form settings map the previous schema stored,
// so existing blobs unmarshal directly into the typed record.
type AlertSettings struct {
	AlertsEnabled            bool `json:"alerts_enabled"`
	DecayAlertsEnabled       bool `json:"decay_alerts_enabled"`
	PracticeGapAlertsEnabled bool `json:"practice_gap_alerts_enabled"`
	ImbalanceAlertsEnabled   bool `json:"imbalance_alerts_enabled"`

	// LastDecayAlerts maps skill ID to the day a decay alert was last sent.
	LastDecayAlerts map[string]ISODate `json:"last_decay_alerts,omitempty"`

	// PracticeGapAlertsSent lists skill IDs whose one-shot practice-gap
	// alert already fired. Never re-armed.
	PracticeGapAlertsSent []string `json:"practice_gap_alerts_sent,omitempty"`

	// LastImbalanceAlert is the day the user last received an imbalance
	// alert. Nil when none was ever sent.
	LastImbalanceAlert *ISODate `json:"last_imbalance_alert,omitempty"`
}

// DefaultAlertSettings enables every alert category, mirroring the opt-out
// defaults of the settings map this record replaces.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		AlertsEnabled:            true,
		DecayAlertsEnabled:       true,
		PracticeGapAlertsEnabled: true,
		ImbalanceAlertsEnabled:   true,
	}
}

// LastDecayAlert returns the day a decay alert last fired for the skill.
func (s *AlertSettings) LastDecayAlert(skillID string) (time.Time, bool) {
	d, ok := s.LastDecayAlerts[skillID]
	if !ok {
		return time.Time{}, false
	}
	return d.Time(), true
}

// MarkDecayAlert records a decay alert sent for the skill on the given day.
func (s *AlertSettings) MarkDecayAlert(skillID string, day time.Time) {
	if s.LastDecayAlerts == nil {
		s.LastDecayAlerts = make(map[string]ISODate)
	}
	s.LastDecayAlerts[skillID] = ISODate(Midnight(day))
}

// PracticeGapSent reports whether the one-shot practice-gap alert already
// fired for the skill.
func (s *AlertSettings) PracticeGapSent(skillID string) bool {
	for _, id := range s.PracticeGapAlertsSent {
		if id == skillID {
			return true
		}
	}
	return false
}

// MarkPracticeGapSent permanently suppresses the practice-gap alert for the
// skill.
func (s *AlertSettings) MarkPracticeGapSent(skillID string) {
	if s.PracticeGapSent(skillID) {
		return
	}
	s.PracticeGapAlertsSent = append(s.PracticeGapAlertsSent, skillID)
}

// MarkImbalanceAlert records an imbalance alert sent on the given day.
func (s *AlertSettings) MarkImbalanceAlert(day time.Time) {
	d := ISODate(Midnight(day))
	s.LastImbalanceAlert = &d
}

// MergeSuppression folds the suppression markers from other into s, leaving
// the enable flags alone. Decay markers keep the later day per skill,
// practice-gap suppression is a union, and the imbalance day keeps the later
// of the two. Alert sweeps run against a snapshot; merging only the markers
// means a settings change that lands mid-sweep survives the write-back.
func (s *AlertSettings) MergeSuppression(other AlertSettings) {
	for skillID, day := range other.LastDecayAlerts {
		if cur, ok := s.LastDecayAlerts[skillID]; !ok || day.Time().After(cur.Time()) {
			s.MarkDecayAlert(skillID, day.Time())
		}
	}
	for _, skillID := range other.PracticeGapAlertsSent {
		s.MarkPracticeGapSent(skillID)
	}
	if other.LastImbalanceAlert != nil {
		if s.LastImbalanceAlert == nil || other.LastImbalanceAlert.Time().After(s.LastImbalanceAlert.Time()) {
			s.MarkImbalanceAlert(other.LastImbalanceAlert.Time())
		}
	}
}

// Clone returns a deep copy, so store snapshots never share suppression maps.
func (s AlertSettings) Clone() AlertSettings {
	out := s
	if s.LastDecayAlerts != nil {
		out.LastDecayAlerts = make(map[string]ISODate, len(s.LastDecayAlerts))
		for k, v := range s.LastDecayAlerts {
			out.LastDecayAlerts[k] = v
		}
	}
	if s.PracticeGapAlertsSent != nil {
		out.PracticeGapAlertsSent = append([]string(nil), s.PracticeGapAlertsSent...)
	}
	if s.LastImbalanceAlert != nil {
		d := *s.LastImbalanceAlert
		out.LastImbalanceAlert = &d
	}
	return out
}
