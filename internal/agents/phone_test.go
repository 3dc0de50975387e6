package agents

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestPhoneAgentSortPhotos(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "IMG_0001.jpg"), "x")
	writeFile(t, filepath.Join(dir, "Screenshot_login.png"), "x")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")

	a := NewPhoneAgent(dir, filepath.Join(dir, "contacts.json"), testLogger())
	out, err := a.Invoke(context.Background(), map[string]string{"action": "sort_photos"}, "sort my photos")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !out.Success {
		t.Fatalf("Success = false: %s", out.Message)
	}

	if got := out.Data["sorted_count"]; got != 2 {
		t.Errorf("sorted_count = %v, want 2 (txt file skipped)", got)
	}
	if got := out.Data["albums_created"]; got != len(photoAlbums) {
		t.Errorf("albums_created = %v, want %d", got, len(photoAlbums))
	}
	for _, album := range photoAlbums {
		if _, err := os.Stat(filepath.Join(dir, album)); err != nil {
			t.Errorf("album %s not created: %v", album, err)
		}
	}

	// Screenshot detection is by filename.
	foundScreenshot := false
	for _, action := range out.ActionsTaken {
		if action == "Would move Screenshot_login.png to Screenshots/" {
			foundScreenshot = true
		}
	}
	if !foundScreenshot {
		t.Errorf("screenshot not routed to Screenshots album, actions: %v", out.ActionsTaken)
	}
}

func TestPhoneAgentCleanContacts(t *testing.T) {
	dir := t.TempDir()
	contactsFile := filepath.Join(dir, "contacts.json")

	contacts := []Contact{
		{Name: "Ada Lovelace", Phone: "555-0001", Email: "ada@example.com"},
		{Name: "ada lovelace", Phone: "555-0001", Email: "ada.l@example.com"},
		{Name: "Grace Hopper", Phone: "", Email: "grace@example.com"},
	}
	b, err := json.Marshal(contacts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	writeFile(t, contactsFile, string(b))

	a := NewPhoneAgent(dir, contactsFile, testLogger())
	out, err := a.Invoke(context.Background(), map[string]string{"action": "clean_contacts"}, "clean my contacts")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !out.Success {
		t.Fatalf("Success = false: %s", out.Message)
	}

	if got := out.Data["duplicates_removed"]; got != 1 {
		t.Errorf("duplicates_removed = %v, want 1", got)
	}
	if got := out.Data["cleaned_count"]; got != 2 {
		t.Errorf("cleaned_count = %v, want 2", got)
	}

	wantActions := map[string]bool{
		"Found duplicate: ada lovelace":   false,
		"Missing phone for: Grace Hopper": false,
	}
	for _, action := range out.ActionsTaken {
		if _, ok := wantActions[action]; ok {
			wantActions[action] = true
		}
	}
	for action, seen := range wantActions {
		if !seen {
			t.Errorf("missing action %q in %v", action, out.ActionsTaken)
		}
	}
}

// TestPhoneAgentCleanContactsSeedsSample verifies a missing contacts file is
// seeded with the sample set instead of failing.
func TestPhoneAgentCleanContactsSeedsSample(t *testing.T) {
	dir := t.TempDir()
	contactsFile := filepath.Join(dir, "contacts.json")

	a := NewPhoneAgent(dir, contactsFile, testLogger())
	out, err := a.Invoke(context.Background(), map[string]string{"action": "clean_contacts"}, "clean contacts")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !out.Success {
		t.Fatalf("Success = false: %s", out.Message)
	}
	if _, err := os.Stat(contactsFile); err != nil {
		t.Errorf("sample contacts file not written: %v", err)
	}
	if got := out.Data["original_count"]; got != 4 {
		t.Errorf("original_count = %v, want 4 (sample set)", got)
	}
}
