package agents

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// defaultTaskSpec fires scheduled tasks at 09:00 every day. The original
// request text is kept with the entry so the reminder names the task.
const defaultTaskSpec = "0 9 * * *"

// desktopFolders maps organization folder names to the extensions they collect.
var desktopFolders = map[string][]string{
	"Documents":    {".pdf", ".doc", ".docx", ".txt"},
	"Images":       {".jpg", ".jpeg", ".png", ".gif", ".bmp"},
	"Spreadsheets": {".xls", ".xlsx", ".csv"},
	"Archives":     {".zip", ".rar", ".7z", ".tar"},
	"Executables":  {".exe", ".msi", ".app", ".deb"},
}

// toolSuggestions is checked in order; the first keyword present wins.
var toolSuggestions = []struct{ keyword, suggestion string }{
	{"file organizer", "Script to automatically organize files by type and date"},
	{"backup", "Automated backup script with scheduling"},
	{"duplicate finder", "Tool to find and remove duplicate files"},
	{"system monitor", "Monitor system resources and send alerts"},
}

// ScheduledTask is one registered cron entry.
type ScheduledTask struct {
	ID        int
	Task      string
	Spec      string
	CreatedAt time.Time
}

// AutomationAgent runs backups, organizes the desktop, schedules tasks, and
// suggests tools. Scheduling is backed by an in-process cron runner.
type AutomationAgent struct {
	desktopPath string
	logger      *slog.Logger

	mu    sync.Mutex
	cron  *cron.Cron
	tasks []ScheduledTask
}

// NewAutomationAgent creates an AutomationAgent. desktopPath defaults to
// ~/Desktop. The cron runner starts on first use and is stopped by Close.
func NewAutomationAgent(desktopPath string, logger *slog.Logger) *AutomationAgent {
	if desktopPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			desktopPath = filepath.Join(home, "Desktop")
		}
	}
	return &AutomationAgent{
		desktopPath: desktopPath,
		logger:      logger,
		cron:        cron.New(),
	}
}

// Close stops the cron runner and waits for in-flight jobs.
func (a *AutomationAgent) Close() {
	ctx := a.cron.Stop()
	<-ctx.Done()
}

func (a *AutomationAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error) {
	action := params["action"]
	if action == "" {
		action = "organize_desktop"
	}

	switch action {
	case "backup":
		return a.runBackup("./important_files", "./backup")
	case "organize_desktop":
		return a.organizeDesktop()
	case "schedule_task":
		return a.scheduleTask(strings.TrimSpace(strings.ReplaceAll(rawInput, "schedule", "")))
	case "create_tool":
		return a.createTool(rawInput)
	default:
		return failure(fmt.Sprintf("unknown automation action: %s", action)), nil
	}
}

// runBackup reports the steps a backup would take. The copy itself stays
// simulated, matching the other side-effect-free demonstrations.
func (a *AutomationAgent) runBackup(sourcePath, backupPath string) (Outcome, error) {
	a.logger.Info("running backup", "source", sourcePath, "dest", backupPath)

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Backup completed: %s -> %s", sourcePath, backupPath),
		ActionsTaken: []string{
			fmt.Sprintf("Started backup from %s", sourcePath),
			fmt.Sprintf("Creating backup directory: %s", backupPath),
			"Copying files...",
			"Backup completed successfully",
		},
	}, nil
}

// organizeDesktop categorizes top-level desktop files by extension. Moves are
// reported, not performed.
func (a *AutomationAgent) organizeDesktop() (Outcome, error) {
	a.logger.Info("organizing desktop", "path", a.desktopPath)

	entries, err := os.ReadDir(a.desktopPath)
	if err != nil {
		return failure(fmt.Sprintf("Desktop path not found: %s", a.desktopPath)), nil
	}

	var actions []string
	organized := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for folder, extensions := range desktopFolders {
			if !slices.Contains(extensions, ext) {
				continue
			}
			actions = append(actions, fmt.Sprintf("Would move %s to %s/", entry.Name(), folder))
			organized++
			break
		}
	}

	return Outcome{
		Success:      true,
		Message:      fmt.Sprintf("Desktop organized - %d files categorized", organized),
		Data:         map[string]any{"organized_count": organized},
		ActionsTaken: actions,
	}, nil
}

// scheduleTask registers task as a daily cron entry and records it.
func (a *AutomationAgent) scheduleTask(task string) (Outcome, error) {
	a.logger.Info("scheduling task", "task", task)

	a.mu.Lock()
	defer a.mu.Unlock()

	taskID := len(a.tasks) + 1
	name := task
	if _, err := a.cron.AddFunc(defaultTaskSpec, func() {
		a.logger.Info("scheduled task due", "id", taskID, "task", name)
	}); err != nil {
		return Outcome{}, fmt.Errorf("registering cron entry: %w", err)
	}
	a.cron.Start()

	a.tasks = append(a.tasks, ScheduledTask{
		ID:        taskID,
		Task:      task,
		Spec:      defaultTaskSpec,
		CreatedAt: time.Now().UTC(),
	})

	return Outcome{
		Success:      true,
		Message:      fmt.Sprintf("Task scheduled: %s at 9:00 AM daily", task),
		Data:         map[string]any{"task_id": taskID, "schedule": defaultTaskSpec},
		ActionsTaken: []string{fmt.Sprintf("Added task to schedule with ID %d", taskID)},
	}, nil
}

// ScheduledTasks returns a snapshot of the registered tasks.
func (a *AutomationAgent) ScheduledTasks() []ScheduledTask {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ScheduledTask(nil), a.tasks...)
}

func (a *AutomationAgent) createTool(description string) (Outcome, error) {
	a.logger.Info("suggesting tool", "description", description)

	suggestion := ""
	lower := strings.ToLower(description)
	for _, t := range toolSuggestions {
		if strings.Contains(lower, t.keyword) {
			suggestion = t.suggestion
			break
		}
	}
	if suggestion == "" {
		suggestion = fmt.Sprintf("Custom tool for: %s", description)
	}

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Tool suggestion: %s", suggestion),
		Data:    map[string]any{"tool_description": description, "suggestion": suggestion},
		ActionsTaken: []string{
			fmt.Sprintf("Analyzed request: %s", description),
			"Generated tool suggestion",
		},
	}, nil
}
