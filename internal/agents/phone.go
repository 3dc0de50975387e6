package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var photoAlbums = []string{"2023", "2024", "2025", "Screenshots", "Others"}

var photoExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// Contact is one phone-book entry from the contacts file.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// PhoneAgent organizes phone data: photo albums and contact cleanup.
// Photo categorization is simulated (no EXIF analysis); contact cleanup
// operates on a JSON contacts file.
type PhoneAgent struct {
	photoPath    string
	contactsFile string
	logger       *slog.Logger
}

// NewPhoneAgent creates a PhoneAgent with default sample paths when the
// arguments are empty.
func NewPhoneAgent(photoPath, contactsFile string, logger *slog.Logger) *PhoneAgent {
	if photoPath == "" {
		photoPath = "sample_photos"
	}
	if contactsFile == "" {
		contactsFile = "sample_contacts.json"
	}
	return &PhoneAgent{photoPath: photoPath, contactsFile: contactsFile, logger: logger}
}

func (a *PhoneAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error) {
	action := params["action"]
	if action == "" {
		action = "sort_photos"
	}

	switch action {
	case "sort_photos":
		return a.sortPhotos()
	case "clean_contacts":
		return a.cleanContacts()
	default:
		return failure(fmt.Sprintf("unknown phone action: %s", action)), nil
	}
}

// sortPhotos creates the album folders and reports where each photo would
// go. Screenshots are detected by filename; everything else lands in the
// current-year album.
func (a *PhoneAgent) sortPhotos() (Outcome, error) {
	a.logger.Info("sorting photos", "path", a.photoPath)

	if err := os.MkdirAll(a.photoPath, 0o755); err != nil {
		return Outcome{}, fmt.Errorf("creating photo directory: %w", err)
	}
	for _, album := range photoAlbums {
		if err := os.MkdirAll(filepath.Join(a.photoPath, album), 0o755); err != nil {
			return Outcome{}, fmt.Errorf("creating album %s: %w", album, err)
		}
	}

	entries, err := os.ReadDir(a.photoPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading photo directory: %w", err)
	}

	var actions []string
	sorted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !slices.Contains(photoExtensions, filepath.Ext(name)) {
			continue
		}
		category := "2024"
		if strings.Contains(name, "screenshot") {
			category = "Screenshots"
		}
		actions = append(actions, fmt.Sprintf("Would move %s to %s/", entry.Name(), category))
		sorted++
	}

	return Outcome{
		Success:      true,
		Message:      fmt.Sprintf("Photos organized - %d photos sorted into albums", sorted),
		Data:         map[string]any{"sorted_count": sorted, "albums_created": len(photoAlbums)},
		ActionsTaken: actions,
	}, nil
}

// cleanContacts deduplicates contacts by case-insensitive name and flags
// entries missing a phone number or email. If the contacts file does not
// exist, a small sample set is written first so the flow is demonstrable.
func (a *PhoneAgent) cleanContacts() (Outcome, error) {
	a.logger.Info("cleaning contacts", "file", a.contactsFile)

	contacts, err := a.loadContacts()
	if err != nil {
		return Outcome{}, err
	}

	var cleaned []Contact
	var actions []string
	duplicates := 0

	seen := make(map[string]bool)
	for _, c := range contacts {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if seen[key] {
			duplicates++
			actions = append(actions, fmt.Sprintf("Found duplicate: %s", c.Name))
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, c)
	}

	for _, c := range cleaned {
		if c.Phone == "" {
			actions = append(actions, fmt.Sprintf("Missing phone for: %s", c.Name))
		}
		if c.Email == "" {
			actions = append(actions, fmt.Sprintf("Missing email for: %s", c.Name))
		}
	}

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Contacts cleaned - %d duplicates found, %d contacts remaining", duplicates, len(cleaned)),
		Data: map[string]any{
			"original_count":     len(contacts),
			"cleaned_count":      len(cleaned),
			"duplicates_removed": duplicates,
		},
		ActionsTaken: actions,
	}, nil
}

func (a *PhoneAgent) loadContacts() ([]Contact, error) {
	data, err := os.ReadFile(a.contactsFile)
	if os.IsNotExist(err) {
		sample := []Contact{
			{Name: "John Doe", Phone: "555-1234", Email: "john@example.com"},
			{Name: "john doe", Phone: "555-1234", Email: "john.doe@example.com"},
			{Name: "Jane Smith", Phone: "555-5678", Email: "jane@example.com"},
			{Name: "Bob Johnson", Phone: "", Email: "bob@example.com"},
		}
		b, err := json.MarshalIndent(sample, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling sample contacts: %w", err)
		}
		if err := os.WriteFile(a.contactsFile, b, 0o644); err != nil {
			return nil, fmt.Errorf("writing sample contacts: %w", err)
		}
		return sample, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading contacts file: %w", err)
	}

	var contacts []Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("parsing contacts file: %w", err)
	}
	return contacts, nil
}
