// Package settings stores the gpiostatus display settings in a YAML file.
//
// The file holds the six view toggles, the refresh behaviour flags, the
// pins_notes_json blob, and the address of the status server. It follows the
// OS conventions for its location:
//   - Linux: $XDG_CONFIG_HOME/gpiostatus/config.yaml or $HOME/.config/gpiostatus/config.yaml
//   - macOS: $HOME/.config/gpiostatus/config.yaml
//   - Windows: %LOCALAPPDATA%\gpiostatus\config.yaml
//
// # Saving
//
// Store.Save is debounced: rapid option toggles collapse into a single write
// once the store has been quiet for DefaultSaveDelay. Store.SaveNow writes
// immediately. Every write is atomic (temporary file plus rename) and is
// rejected with ErrConstraint when compact view is combined with an option
// it cannot display.
//
// # Usage Example
//
//	store, err := settings.Open("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store.SetOptions(store.Options().Set(view.OrderByName, true))
//	store.Save() // written 1.5s later
//
//	// Pick up changes made by another process
//	w, _ := settings.NewWatcher(store.Path())
//	go func() {
//	    for range w.Changes() {
//	        store.Reload()
//	    }
//	}()
package settings
