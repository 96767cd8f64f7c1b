// Package ports define repository interfaces for data persistence abstraction.
package ports

// PreferencesRepository handles the persistence of visualiser preferences.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveFillColor persists the fill colour string ("#rrggbb").
	//
	// Returns an error if saving fails.
	SaveFillColor(color string) error

	// LoadFillColor retrieves the saved fill colour.
	// If no colour was saved, returns an empty string.
	//
	// Returns the colour or an error if loading fails.
	LoadFillColor() (string, error)

	// SaveSampleCount persists the preferred bin count of the demo source.
	SaveSampleCount(count int) error

	// LoadSampleCount retrieves the preferred bin count, or 0 if none was saved.
	LoadSampleCount() (int, error)
}
