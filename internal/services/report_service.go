package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/merrylab/timeline/internal/mailer"
	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
)

// ErrTransportFailed indicates the report was built but could not be
// delivered. Task data is read-only for reports, so nothing needs
// rolling back.
var ErrTransportFailed = errors.New("failed to send report email")

// Report periods
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAll     = "all"
)

// Report is the time-windowed summary of a user's task history.
// Pending tasks are never windowed; they are the current backlog.
type Report struct {
	PeriodName  string
	Start       time.Time
	GeneratedAt time.Time
	User        models.User
	Completed   []models.Task
	Pending     []models.Task
	Overdue     int
	Comments    string
}

// ReportService builds reports and emails them to the administrator.
type ReportService struct {
	taskRepo         repository.TaskRepository
	notificationRepo repository.NotificationRepository
	mailer           mailer.Mailer
	adminEmail       string
	now              func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, notificationRepo repository.NotificationRepository, m mailer.Mailer, adminEmail string) *ReportService {
	return &ReportService{
		taskRepo:         taskRepo,
		notificationRepo: notificationRepo,
		mailer:           m,
		adminEmail:       adminEmail,
		now:              time.Now,
	}
}

// resolvePeriod returns the window's start boundary and display name.
// weekly runs from the most recent Monday 00:00, monthly from the
// first of the current month, all from the zero time. Anything else
// falls back to the trailing 7 days.
func resolvePeriod(period string, now time.Time) (time.Time, string) {
	switch period {
	case PeriodWeekly:
		offset := (int(now.Weekday()) + 6) % 7
		monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -offset)
		name := fmt.Sprintf("Weekly (%s - %s)", monday.Format("Jan 02"), now.Format("Jan 02, 2006"))
		return monday, name
	case PeriodMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, fmt.Sprintf("Monthly (%s)", first.Format("January 2006"))
	case PeriodAll:
		return time.Time{}, "All Time"
	default:
		start := now.AddDate(0, 0, -7)
		name := fmt.Sprintf("Last 7 days (%s - %s)", start.Format("Jan 02"), now.Format("Jan 02, 2006"))
		return start, name
	}
}

// BuildReport assembles a report over the user's tasks: completed
// tasks within the window (newest completion first) and the full
// pending backlog regardless of window.
func (s *ReportService) BuildReport(user models.User, period, comments string) (*Report, error) {
	now := s.now()
	start, name := resolvePeriod(period, now)

	completed := models.TaskStatusCompleted
	completedTasks, err := s.taskRepo.List(repository.TaskFilter{
		AssigneeID:        &user.ID,
		Status:            &completed,
		CompletedSince:    &start,
		SortByCompletedAt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	pending := models.TaskStatusPending
	pendingTasks, err := s.taskRepo.List(repository.TaskFilter{
		AssigneeID: &user.ID,
		Status:     &pending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	overdue := 0
	for i := range pendingTasks {
		if pendingTasks[i].DueDate.Before(now) {
			overdue++
		}
	}

	return &Report{
		PeriodName:  name,
		Start:       start,
		GeneratedAt: now,
		User:        user,
		Completed:   completedTasks,
		Pending:     pendingTasks,
		Overdue:     overdue,
		Comments:    comments,
	}, nil
}

// SendReport builds the report, emails it to the administrator, and
// records a report_sent notification for the requesting user. A
// transport failure surfaces as ErrTransportFailed and leaves task
// data untouched.
func (s *ReportService) SendReport(user models.User, period, comments string) (*Report, error) {
	report, err := s.BuildReport(user, period, comments)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s Task Report from %s", report.PeriodName, user.DisplayName())
	body, err := report.RenderHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	if err := s.mailer.Send(s.adminEmail, subject, body); err != nil {
		log.Printf("Error sending report: %v", err)
		return nil, ErrTransportFailed
	}

	notification := &models.Notification{
		UserID:  user.ID,
		Content: fmt.Sprintf("Your %s report has been sent to the administrator.", report.PeriodName),
		Type:    models.NotificationReportSent,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to record report notification: %w", err)
	}

	return report, nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"deref": func(t *time.Time) time.Time {
		if t == nil {
			return time.Time{}
		}
		return *t
	},
}).Parse(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 800px; margin: 0 auto; padding: 20px; }
  h2 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
  h3 { color: #2980b9; margin-top: 20px; }
  .task-item { margin-bottom: 10px; padding: 10px; border-left: 4px solid #3498db; background-color: #f9f9f9; }
  .high { border-left-color: #e74c3c; }
  .medium { border-left-color: #f39c12; }
  .low { border-left-color: #2ecc71; }
  .task-title { font-weight: bold; }
  .task-details { font-size: 0.9em; color: #7f8c8d; }
  .stats { display: flex; justify-content: space-around; margin: 30px 0; }
  .stat-box { text-align: center; padding: 15px; background-color: #f4f6f9; border-radius: 5px; }
  .stat-number { font-size: 24px; font-weight: bold; color: #3498db; }
  .stat-label { font-size: 14px; color: #7f8c8d; }
  .comments { margin-top: 30px; padding: 15px; background-color: #f9f9f9; border-left: 4px solid #9b59b6; }
  .footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee; font-size: 0.8em; color: #7f8c8d; }
</style>
</head>
<body>
  <div class="container">
    <h2>{{.PeriodName}} Task Report</h2>
    <p><strong>User:</strong> {{.User.DisplayName}} ({{.User.Email}})</p>
    <p><strong>Department:</strong> {{.User.Department}}</p>
    <p><strong>Position:</strong> {{.User.Position}}</p>
    <p><strong>Report Date:</strong> {{datetime .GeneratedAt}}</p>

    <div class="stats">
      <div class="stat-box">
        <div class="stat-number">{{len .Completed}}</div>
        <div class="stat-label">Completed Tasks</div>
      </div>
      <div class="stat-box">
        <div class="stat-number">{{len .Pending}}</div>
        <div class="stat-label">Pending Tasks</div>
      </div>
      <div class="stat-box">
        <div class="stat-number">{{.Overdue}}</div>
        <div class="stat-label">Overdue Tasks</div>
      </div>
    </div>

    <h3>Completed Tasks ({{len .Completed}})</h3>
    <div class="task-list">
    {{if .Completed}}{{range .Completed}}
      <div class="task-item {{.Priority}}">
        <div class="task-title">{{.Title}}</div>
        <div class="task-details">
          Completed on: {{date (deref .CompletedAt)}} |
          Priority: {{.Priority}} |
          Due date: {{date .DueDate}}
        </div>
        <div class="task-description">{{.Description}}</div>
      </div>
    {{end}}{{else}}<p>No completed tasks during this period.</p>{{end}}
    </div>

    <h3>Pending Tasks ({{len .Pending}})</h3>
    <div class="task-list">
    {{if .Pending}}{{range .Pending}}
      <div class="task-item {{.Priority}}">
        <div class="task-title">{{.Title}}</div>
        <div class="task-details">
          Priority: {{.Priority}} |
          Due date: {{date .DueDate}}
        </div>
        <div class="task-description">{{.Description}}</div>
      </div>
    {{end}}{{else}}<p>No pending tasks at this time.</p>{{end}}
    </div>

    {{if .Comments}}
    <div class="comments">
      <h3>Additional Comments</h3>
      <p>{{.Comments}}</p>
    </div>
    {{end}}

    <div class="footer">
      <p>This is an automated report generated from the Timeline task management system.</p>
    </div>
  </div>
</body>
</html>`))

// RenderHTML renders the report body for email delivery.
func (r *Report) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
