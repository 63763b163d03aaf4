package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/gpiostatus/internal/notes"
	"github.com/muurk/gpiostatus/internal/settings"
	"github.com/muurk/gpiostatus/internal/ui"
)

// String settings accepted by "settings set" besides the boolean keys
const (
	keyServer = "server"
	keyAPIKey = "api_key"
)

var notesYes bool

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)

	notesClearCmd.Flags().BoolVarP(&notesYes, "yes", "y", false, "Clear every note without asking")
	notesCmd.AddCommand(notesListCmd, notesSetCmd, notesClearCmd)
	rootCmd.AddCommand(notesCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change saved settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		s := st.Get()
		out := cmd.OutOrStdout()
		for _, key := range settings.Keys() {
			v, err := s.GetBool(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-24s %t\n", key, v)
		}
		fmt.Fprintf(out, "%-24s %s\n", keyServer, s.Server)
		apiKey := "(unset)"
		if s.APIKey != "" {
			apiKey = "(set)"
		}
		fmt.Fprintf(out, "%-24s %s\n", keyAPIKey, apiKey)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting and save the file.

Boolean keys: ` + strings.Join(settings.Keys(), ", ") + `.
String keys: server, api_key.

View options follow the same rules as the checkboxes: enabling compact_view
turns off hide_special_pins, order_by_name and show_notes, and enabling one
of those turns compact_view off.`,
	Example: `  gpiostatus settings set compact_view false
  gpiostatus settings set order_by_name on
  gpiostatus settings set server http://raspberrypi.local:5000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		key, value := args[0], args[1]

		var setErr error
		st.Update(func(s *settings.Settings) {
			switch key {
			case keyServer:
				s.Server = strings.TrimRight(value, "/")
			case keyAPIKey:
				s.APIKey = value
			default:
				b, err := settings.ParseBool(value)
				if err != nil {
					setErr = err
					return
				}
				setErr = s.SetBool(key, b)
			}
		})
		if setErr != nil {
			return setErr
		}
		if err := st.SaveNow(); err != nil {
			return err
		}

		res := ui.NewSuccessResult("Settings saved").AddDetail("File", st.Path())
		if key != keyAPIKey {
			res.AddDetail(key, value)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Render())
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), st.Path())
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage per-pin notes",
	Long: `List or edit the notes shown next to pins when show_notes is on.

Notes are keyed by physical pin position and cut to ` + strconv.Itoa(notes.MaxNoteLength) + ` characters.`,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pin notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		m, err := notes.Parse(st.NotesJSON())
		if err != nil {
			return fmt.Errorf("saved notes are unreadable: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(m) == 0 {
			fmt.Fprintln(out, "No pin notes")
			return nil
		}
		pins := make([]int, 0, len(m))
		for pin := range m {
			pins = append(pins, pin)
		}
		sort.Ints(pins)
		for _, pin := range pins {
			fmt.Fprintf(out, "%3d  %s\n", pin, m[pin])
		}
		return nil
	},
}

var notesSetCmd = &cobra.Command{
	Use:     "set <pin> <text>",
	Short:   "Set the note of one pin",
	Example: `  gpiostatus notes set 12 relay coil`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parsePin(args[0])
		if err != nil {
			return err
		}
		return editNotes(func(s *notes.Store) { s.Edit(pin, strings.Join(args[1:], " ")) })
	},
}

var notesClearCmd = &cobra.Command{
	Use:   "clear [pin]",
	Short: "Clear one note, or every note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			pin, err := parsePin(args[0])
			if err != nil {
				return err
			}
			return editNotes(func(s *notes.Store) { s.Edit(pin, "") })
		}

		st, err := openSettings()
		if err != nil {
			return err
		}
		m, _ := notes.Parse(st.NotesJSON())
		if len(m) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No pin notes")
			return nil
		}
		if !notesYes && !ui.ConfirmClearNotes(cmd.InOrStdin(), cmd.OutOrStdout(), len(m)) {
			return nil
		}
		st.SetNotesJSON(notes.EmptyJSON)
		return st.SaveNow()
	},
}

// editNotes applies fn to the saved notes and writes the file.
func editNotes(fn func(*notes.Store)) error {
	st, err := openSettings()
	if err != nil {
		return err
	}
	store := notes.NewStore(notes.DefaultSaveDelay, st.SetNotesJSON)
	if err := store.Load(st.NotesJSON()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: discarding unreadable notes: %v\n", err)
	}
	fn(store)
	store.Flush()
	return st.SaveNow()
}

func parsePin(s string) (int, error) {
	pin, err := strconv.Atoi(s)
	if err != nil || pin < 1 {
		return 0, fmt.Errorf("invalid pin %q: want a physical position such as 12", s)
	}
	return pin, nil
}
