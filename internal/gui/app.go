// Package gui is the desktop review console: the candidate table with
// search and status filters, batch processing of the uploads folder or
// a Gmail inbox, and the Excel export.
package gui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ricki2828/cv-parsing/internal/agent"
	"github.com/ricki2828/cv-parsing/internal/config"
	"github.com/ricki2828/cv-parsing/internal/export"
	"github.com/ricki2828/cv-parsing/internal/ingestion"
	"github.com/ricki2828/cv-parsing/internal/models"
	"github.com/ricki2828/cv-parsing/internal/store"
)

const allStatusesOption = "All statuses"

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	agent      *agent.Agent
	store      *store.Store
	files      *ingestion.FileHandler
	ctx        context.Context
	cancelFunc context.CancelFunc

	// UI Components
	searchEntry    *widget.Entry
	statusSelect   *widget.Select
	candidateTable *widget.Table
	subjectEntry   *widget.Entry
	processBtn     *widget.Button
	fetchBtn       *widget.Button
	cancelBtn      *widget.Button
	exportBtn      *widget.Button
	progressBar    *widget.ProgressBar
	progressLabel  *widget.Label

	visible []models.Candidate
}

// NewApp creates the review console around an already-wired agent and
// store.
func NewApp(cfg *config.Config, ag *agent.Agent, st *store.Store, files *ingestion.FileHandler) *App {
	a := app.New()
	w := a.NewWindow("Resume Tracker")
	w.Resize(fyne.NewSize(1100, 700))

	guiApp := &App{
		fyneApp:    a,
		mainWindow: w,
		config:     cfg,
		agent:      ag,
		store:      st,
		files:      files,
	}

	guiApp.setupUI()
	guiApp.refreshCandidates()

	return guiApp
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

// setupUI initializes all UI components
func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Candidates", a.createCandidatesTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(tabs)
}

// createCandidatesTab creates the main review tab
func (a *App) createCandidatesTab() fyne.CanvasObject {
	// Filter section
	a.searchEntry = widget.NewEntry()
	a.searchEntry.SetPlaceHolder("Search name, email or skill...")
	a.searchEntry.OnChanged = func(string) { a.refreshCandidates() }

	statusOptions := []string{allStatusesOption}
	for _, status := range models.AllStatuses {
		statusOptions = append(statusOptions, string(status))
	}
	a.statusSelect = widget.NewSelect(statusOptions, func(string) { a.refreshCandidates() })
	a.statusSelect.SetSelected(allStatusesOption)

	filterSection := container.NewVBox(
		widget.NewLabel("Candidates"),
		container.NewGridWithColumns(2, a.searchEntry, a.statusSelect),
	)

	// Ingest section
	a.subjectEntry = widget.NewEntry()
	a.subjectEntry.SetPlaceHolder("Gmail subject filter, e.g. Job Application")

	a.processBtn = widget.NewButton("Process Uploads Folder", a.handleProcessUploads)
	a.fetchBtn = widget.NewButton("Fetch from Gmail", a.handleFetchGmail)
	a.cancelBtn = widget.NewButton("Cancel", a.handleCancel)
	a.cancelBtn.Disable()
	a.exportBtn = widget.NewButton("Export to Excel", a.handleExport)

	a.progressBar = widget.NewProgressBar()
	a.progressLabel = widget.NewLabel("Ready")

	ingestSection := container.NewVBox(
		a.subjectEntry,
		container.NewHBox(a.processBtn, a.fetchBtn, a.cancelBtn, a.exportBtn),
		a.progressLabel,
		a.progressBar,
	)

	// Candidate table
	a.candidateTable = widget.NewTable(
		func() (int, int) {
			return len(a.visible) + 1, 6 // +1 for header
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				headers := []string{"Name", "Score", "Status", "Sales Experience", "International", "Uploaded"}
				if id.Col < len(headers) {
					label.SetText(headers[id.Col])
					label.TextStyle = fyne.TextStyle{Bold: true}
				}
				return
			}
			if id.Row-1 >= len(a.visible) {
				return
			}
			c := a.visible[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(c.Name)
			case 1:
				label.SetText(fmt.Sprintf("%d", c.Score))
			case 2:
				label.SetText(string(c.Status))
			case 3:
				label.SetText(c.SalesExperience)
			case 4:
				label.SetText(c.InternationalExperience)
			case 5:
				label.SetText(c.UploadDate.Format("2006-01-02 15:04"))
			}
		},
	)
	a.candidateTable.SetColumnWidth(0, 180)
	a.candidateTable.SetColumnWidth(1, 60)
	a.candidateTable.SetColumnWidth(2, 130)
	a.candidateTable.SetColumnWidth(3, 250)
	a.candidateTable.SetColumnWidth(4, 200)
	a.candidateTable.SetColumnWidth(5, 130)

	a.candidateTable.OnSelected = func(id widget.TableCellID) {
		a.candidateTable.UnselectAll()
		if id.Row == 0 || id.Row-1 >= len(a.visible) {
			return
		}
		a.showStatusDialog(a.visible[id.Row-1])
	}

	return container.NewBorder(
		container.NewVBox(filterSection, widget.NewSeparator(), ingestSection, widget.NewSeparator()),
		nil, nil, nil,
		container.NewScroll(a.candidateTable),
	)
}

// createSettingsTab creates the settings tab
func (a *App) createSettingsTab() fyne.CanvasObject {
	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)

	gmailCredsEntry := widget.NewEntry()
	gmailCredsEntry.SetText(a.config.GmailCredentialsPath)

	homeCountryEntry := widget.NewEntry()
	homeCountryEntry.SetText(a.config.HomeCountry)

	googleCredsBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				googleCredsEntry.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})

	gmailCredsBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				gmailCredsEntry.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})

	form := widget.NewForm(
		widget.NewFormItem("Home Country", homeCountryEntry),
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Google Credentials", container.NewBorder(nil, nil, nil, googleCredsBtn, googleCredsEntry)),
		widget.NewFormItem("Gmail Credentials", container.NewBorder(nil, nil, nil, gmailCredsBtn, gmailCredsEntry)),
	)

	saveBtn := widget.NewButton("Save Settings", func() {
		a.config.HomeCountry = strings.TrimSpace(homeCountryEntry.Text)
		a.config.GoogleCloudProject = projectEntry.Text
		a.config.GoogleCloudLocation = locationEntry.Text
		a.config.GoogleCredentialsPath = googleCredsEntry.Text
		a.config.GmailCredentialsPath = gmailCredsEntry.Text

		if err := a.config.Save(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		a.config.ApplyToEnv()

		dialog.ShowInformation("Success", "Settings saved successfully", a.mainWindow)
	})

	testBtn := widget.NewButton("Test Connection", func() {
		if err := a.config.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Configuration is valid", a.mainWindow)
	})

	return container.NewVBox(
		form,
		container.NewHBox(saveBtn, testBtn),
	)
}

// refreshCandidates rebuilds the visible slice from the store and the
// active filters. Highest score first.
func (a *App) refreshCandidates() {
	candidates := a.store.ListCandidates()

	query := ""
	if a.searchEntry != nil {
		query = strings.ToLower(strings.TrimSpace(a.searchEntry.Text))
	}
	statusFilter := ""
	if a.statusSelect != nil && a.statusSelect.Selected != allStatusesOption {
		statusFilter = a.statusSelect.Selected
	}

	visible := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if statusFilter != "" && string(c.Status) != statusFilter {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		visible = append(visible, c)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Score > visible[j].Score
	})

	a.visible = visible
	if a.candidateTable != nil {
		a.candidateTable.Refresh()
	}
}

// matchesQuery reports whether the candidate matches a lowercased
// search term against name, email, skills and the experience summaries.
func matchesQuery(c models.Candidate, query string) bool {
	for _, field := range []string{c.Name, c.Email, c.SalesExperience, c.InternationalExperience} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, skill := range c.Skills {
		if strings.Contains(strings.ToLower(skill), query) {
			return true
		}
	}
	return false
}

// showStatusDialog lets the recruiter move a candidate to any pipeline
// stage.
func (a *App) showStatusDialog(candidate models.Candidate) {
	options := make([]string, len(models.AllStatuses))
	for i, status := range models.AllStatuses {
		options[i] = string(status)
	}

	statusSelect := widget.NewSelect(options, nil)
	statusSelect.SetSelected(string(candidate.Status))

	content := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("%s  (score %d)", candidate.Name, candidate.Score)),
		widget.NewLabel(candidate.SalesExperience),
		widget.NewLabel(candidate.InternationalExperience),
		statusSelect,
	)

	dialog.ShowCustomConfirm("Update Status", "Save", "Cancel", content, func(save bool) {
		if !save || statusSelect.Selected == string(candidate.Status) {
			return
		}
		if _, err := a.store.UpdateCandidateStatus(candidate.ID, models.CandidateStatus(statusSelect.Selected)); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		a.refreshCandidates()
	}, a.mainWindow)
}

// beginBatch flips the buttons into processing state and installs the
// progress callback. It returns the batch context.
func (a *App) beginBatch() context.Context {
	a.processBtn.Disable()
	a.fetchBtn.Disable()
	a.cancelBtn.Enable()
	a.exportBtn.Disable()

	a.ctx, a.cancelFunc = context.WithCancel(context.Background())

	a.agent.SetProgressCallback(func(current, total int, message string) {
		fyne.Do(func() {
			a.progressBar.SetValue(float64(current) / float64(total))
			a.progressLabel.SetText(message)
		})
	})

	return a.ctx
}

// finishBatch restores the buttons and reports the outcome. Must run on
// the main thread.
func (a *App) finishBatch(report models.BatchReport, err error) {
	a.processBtn.Enable()
	a.fetchBtn.Enable()
	a.cancelBtn.Disable()
	a.exportBtn.Enable()

	a.refreshCandidates()

	if err != nil {
		if err == context.Canceled {
			a.progressLabel.SetText("Processing canceled")
		} else {
			a.progressLabel.SetText("Error: " + err.Error())
			dialog.ShowError(err, a.mainWindow)
		}
		return
	}

	summary := fmt.Sprintf("Complete! %d candidates added", len(report.Candidates))
	if n := len(report.Rejections) + len(report.Failures); n > 0 {
		summary += fmt.Sprintf(", %d files skipped", n)
	}
	a.progressLabel.SetText(summary)

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   "Processing Complete",
		Content: summary,
	})
}

// handleProcessUploads processes every resume already in the uploads
// folder.
func (a *App) handleProcessUploads() {
	paths, err := a.files.ListResumes()
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}
	if len(paths) == 0 {
		dialog.ShowError(fmt.Errorf("no resumes found in %s", a.files.UploadsDir()), a.mainWindow)
		return
	}

	ctx := a.beginBatch()

	go func() {
		report, err := a.agent.ProcessSavedFiles(ctx, paths)
		fyne.Do(func() {
			a.finishBatch(report, err)
		})
	}()
}

// handleFetchGmail downloads matching attachments and processes them.
func (a *App) handleFetchGmail() {
	subject := strings.TrimSpace(a.subjectEntry.Text)
	if subject == "" {
		dialog.ShowError(fmt.Errorf("please enter an email subject filter"), a.mainWindow)
		return
	}

	ctx := a.beginBatch()

	go func() {
		report, err := a.fetchAndProcess(ctx, subject)
		fyne.Do(func() {
			a.finishBatch(report, err)
		})
	}()
}

func (a *App) fetchAndProcess(ctx context.Context, subject string) (models.BatchReport, error) {
	handler, err := ingestion.NewGmailHandler(ctx, a.config.GmailCredentialsPath, a.files.UploadsDir(), a.config.MaxUploadSizeBytes())
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("gmail authentication failed: %w", err)
	}

	paths, err := handler.FetchResumes(ctx, subject)
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to fetch resumes: %w", err)
	}
	if len(paths) == 0 {
		return models.BatchReport{}, fmt.Errorf("no matching attachments found for subject %q", subject)
	}

	return a.agent.ProcessSavedFiles(ctx, paths)
}

// handleCancel handles cancellation of processing
func (a *App) handleCancel() {
	if a.cancelFunc != nil {
		a.cancelFunc()
		a.progressLabel.SetText("Canceling...")
	}
}

// handleExport writes the candidate workbook to a chosen location.
func (a *App) handleExport() {
	candidates := a.store.ListCandidates()
	if len(candidates) == 0 {
		dialog.ShowError(fmt.Errorf("no candidates to export"), a.mainWindow)
		return
	}

	defaultName := fmt.Sprintf("candidates_%s.xlsx", time.Now().Format("2006-01-02_150405"))

	saveDialog := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		defer uc.Close()

		if err := export.WriteWorkbook(candidates, uc); err != nil {
			log.Error().Err(err).Msg("Failed to export workbook")
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}

		dialog.ShowInformation("Success", "Candidates exported successfully", a.mainWindow)
	}, a.mainWindow)
	saveDialog.SetFileName(defaultName)
	saveDialog.Show()
}
