package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
	"github.com/Ortiz25/sms-api/pkg/export"
	"github.com/Ortiz25/sms-api/pkg/jobs"
	"github.com/Ortiz25/sms-api/pkg/storage"
)

type reportJobRepository interface {
	CreateReportJob(ctx context.Context, job *models.ReportJob) error
	FindReportJobByID(ctx context.Context, id string) (*models.ReportJob, error)
	UpdateReportJob(ctx context.Context, job *models.ReportJob) error
	List(ctx context.Context) ([]models.PayrollRow, error)
}

type incidentLister interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
}

// ReportService generates CSV and PDF exports asynchronously through a
// worker queue. Artifacts land on local disk and are fetched back through
// HMAC-signed download tokens.
type ReportService struct {
	repo      reportJobRepository
	incidents incidentLister
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	queue     *jobs.Queue
	logger    *zap.Logger
}

// ReportQueueOptions tunes the export worker pool.
type ReportQueueOptions struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NewReportService constructs a ReportService and its backing queue. Call
// Start before enqueueing exports and Stop on shutdown.
func NewReportService(repo reportJobRepository, incidents incidentLister, store *storage.LocalStorage, signer *storage.SignedURLSigner, opts ReportQueueOptions, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		repo:      repo,
		incidents: incidents,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
	s.queue = jobs.NewQueue("reports", s.handleJob, jobs.Options{
		Workers:    opts.Workers,
		MaxRetries: opts.MaxRetries,
		RetryDelay: opts.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// RequestExport records a pending report job and queues its generation.
func (s *ReportService) RequestExport(ctx context.Context, kind models.ReportKind, format models.ReportFormat, requestedBy string) (*models.ReportJob, error) {
	switch kind {
	case models.ReportKindIncidents, models.ReportKindPayroll:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be incidents or payroll")
	}
	switch format {
	case models.ReportFormatCSV, models.ReportFormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ReportJob{
		ID:          uuid.NewString(),
		Kind:        kind,
		Format:      format,
		Status:      models.ReportJobPending,
		RequestedBy: requestedBy,
	}
	if err := s.repo.CreateReportJob(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "report_export", Payload: job.ID}); err != nil {
		s.logger.Error("failed to enqueue report job", zap.String("job_id", job.ID), zap.Error(err))
	}
	return job, nil
}

// GetJob fetches a report job's status.
func (s *ReportService) GetJob(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.repo.FindReportJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report job")
	}
	return job, nil
}

// DownloadToken issues a signed token for a completed job's artifact.
func (s *ReportService) DownloadToken(ctx context.Context, jobID string) (string, time.Time, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return "", time.Time{}, err
	}
	if job.Status != models.ReportJobCompleted || job.FilePath == "" {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrConflict, "report is not ready for download")
	}
	token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}
	return token, expiresAt, nil
}

// OpenArtifact validates a download token and opens the artifact it names.
func (s *ReportService) OpenArtifact(token string) (*os.File, string, error) {
	reportID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report artifact not found")
	}
	return file, reportID, nil
}

// ProcessJob renders one report job synchronously. The queue handler calls
// this; tests can call it directly.
func (s *ReportService) ProcessJob(ctx context.Context, jobID string) error {
	job, err := s.repo.FindReportJobByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", jobID, err)
	}
	if job.Status == models.ReportJobCompleted {
		return nil
	}

	data, err := s.buildDataset(ctx, job.Kind)
	if err != nil {
		return s.markFailed(ctx, job, err)
	}

	var payload []byte
	var ext string
	switch job.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(data)
		ext = "csv"
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(data, reportTitle(job.Kind))
		ext = "pdf"
	default:
		err = fmt.Errorf("unsupported format %q", job.Format)
	}
	if err != nil {
		return s.markFailed(ctx, job, err)
	}

	filename := fmt.Sprintf("%s-%s.%s", job.Kind, job.ID, ext)
	relPath, err := s.store.Save(filename, payload)
	if err != nil {
		return s.markFailed(ctx, job, err)
	}

	now := time.Now().UTC()
	job.Status = models.ReportJobCompleted
	job.FilePath = relPath
	job.CompletedAt = &now
	job.Error = nil
	if err := s.repo.UpdateReportJob(ctx, job); err != nil {
		return fmt.Errorf("mark report job completed: %w", err)
	}
	return nil
}

func (s *ReportService) handleJob(ctx context.Context, job jobs.Job) error {
	jobID, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("report job payload must be a job ID, got %T", job.Payload)
	}
	return s.ProcessJob(ctx, jobID)
}

func (s *ReportService) markFailed(ctx context.Context, job *models.ReportJob, cause error) error {
	msg := cause.Error()
	job.Status = models.ReportJobFailed
	job.Error = &msg
	if err := s.repo.UpdateReportJob(ctx, job); err != nil {
		s.logger.Error("failed to mark report job failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	return cause
}

func (s *ReportService) buildDataset(ctx context.Context, kind models.ReportKind) (export.Dataset, error) {
	switch kind {
	case models.ReportKindIncidents:
		incidents, err := s.incidents.ListIncidents(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return incidentsDataset(incidents), nil
	case models.ReportKindPayroll:
		rows, err := s.repo.List(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return payrollDataset(rows), nil
	default:
		return export.Dataset{}, fmt.Errorf("unsupported report kind %q", kind)
	}
}

func incidentsDataset(incidents []models.Incident) export.Dataset {
	headers := []string{"Student", "Admission No", "Grade", "Date", "Type", "Severity", "Action", "Status"}
	rows := make([]map[string]string, 0, len(incidents))
	for _, inc := range incidents {
		rows = append(rows, map[string]string{
			"Student":      inc.StudentName,
			"Admission No": inc.AdmissionNumber,
			"Grade":        inc.Grade,
			"Date":         inc.Date.Format(DateLayout),
			"Type":         string(inc.Type),
			"Severity":     string(inc.Severity),
			"Action":       inc.Action,
			"Status":       string(inc.Status),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func payrollDataset(payroll []models.PayrollRow) export.Dataset {
	headers := []string{"Teacher", "Staff No", "Period", "Gross Pay", "Deductions", "Net Pay", "Status"}
	rows := make([]map[string]string, 0, len(payroll))
	for _, row := range payroll {
		rows = append(rows, map[string]string{
			"Teacher":    row.TeacherName,
			"Staff No":   row.StaffNumber,
			"Period":     row.Period,
			"Gross Pay":  strconv.FormatFloat(row.GrossPay, 'f', 2, 64),
			"Deductions": strconv.FormatFloat(row.Deductions, 'f', 2, 64),
			"Net Pay":    strconv.FormatFloat(row.NetPay, 'f', 2, 64),
			"Status":     row.Status,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func reportTitle(kind models.ReportKind) string {
	switch kind {
	case models.ReportKindIncidents:
		return "Disciplinary Incidents"
	case models.ReportKindPayroll:
		return "Teacher Payroll"
	default:
		return "Report"
	}
}
