// Package memory persists visualiser preferences through the host's preference store.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// Preference keys.
const (
	keyFillColor   = "preferences.fill_color"
	keySampleCount = "preferences.sample_count"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveFillColor persists the fill colour in its canonical "#rrggbb" form.
// Colour names are accepted and stored as hex.
func (r *PreferencesRepository) SaveFillColor(value string) error {
	c, err := domain.ParseFillColor(value)
	if err != nil {
		return domain.NewRepositoryError("SaveFillColor", "preferences", "refusing to store invalid color", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyFillColor, domain.FormatFillColor(c))
	return nil
}

// LoadFillColor retrieves the saved fill colour, or "" when none was saved.
func (r *PreferencesRepository) LoadFillColor() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value := r.prefs.String(keyFillColor)
	if value == "" {
		return "", nil
	}

	// The store is user-editable; do not hand back something the visualiser rejects.
	if _, err := domain.ParseFillColor(value); err != nil {
		return "", domain.NewRepositoryError("LoadFillColor", "preferences", "stored color is invalid", err)
	}
	return value, nil
}

// SaveSampleCount persists the preferred bin count of the demo source.
func (r *PreferencesRepository) SaveSampleCount(count int) error {
	if count <= 0 {
		return domain.NewValidationError("sample_count", count, "must be positive", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetInt(keySampleCount, count)
	return nil
}

// LoadSampleCount retrieves the preferred bin count, or 0 when none was saved.
func (r *PreferencesRepository) LoadSampleCount() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := r.prefs.IntWithFallback(keySampleCount, 0)
	if count < 0 {
		return 0, nil
	}
	return count, nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyFillColor)
	r.prefs.RemoveValue(keySampleCount)

	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
