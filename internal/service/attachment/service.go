package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pontohub/ponto-backend-go/internal/domain/attachment"
	"github.com/pontohub/ponto-backend-go/internal/pkg/storage"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

type service struct {
	repo    attachment.AttachmentRepository
	storage storage.FileStorage
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo attachment.AttachmentRepository, fileStorage storage.FileStorage, logger *slog.Logger) attachment.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:    repo,
		storage: fileStorage,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload implements attachment.Service. The image goes to the blob
// container first and the SQL row second; a SQL failure after a
// successful upload leaves the object orphaned, which is accepted.
func (s *service) Upload(ctx context.Context, req attachment.UploadRequest) (attachment.UploadResponse, error) {
	if err := req.Validate(); err != nil {
		return attachment.UploadResponse{}, err
	}

	date, _ := validator.NormalizeDate(req.Date)

	raw := dataURIPrefix.ReplaceAllString(req.ImageBase64, "")
	image, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return attachment.UploadResponse{}, attachment.ErrInvalidImage
	}

	filename := fmt.Sprintf("%s_%s_%d.png", req.Reg, date, s.now().UnixMilli())
	if _, err := s.storage.Upload(ctx, bytes.NewReader(image), filename, "image/png"); err != nil {
		return attachment.UploadResponse{}, fmt.Errorf("%w: %v", attachment.ErrStorageUnavailable, err)
	}

	blobURL, err := s.storage.GetURL(ctx, filename)
	if err != nil {
		return attachment.UploadResponse{}, err
	}
	// Strip any signed-access credentials before the URL is persisted.
	if idx := strings.Index(blobURL, "?"); idx > 0 {
		blobURL = blobURL[:idx]
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "Sistema"
	}

	err = s.repo.Upsert(ctx, attachment.Attachment{
		CPF:            req.CPF,
		Reg:            req.Reg,
		Date:           date,
		CompanyID:      req.CompanyID,
		CompanyName:    req.CompanyName,
		EmployeeName:   req.EmployeeName,
		BlobURL:        blobURL,
		BlobFilename:   filename,
		DetectedReason: req.Reason,
		DetectedTimes:  req.Times,
		OCRText:        req.OCRText,
		HRQuestions:    req.HRQuestions,
		CreatedBy:      createdBy,
		VendorNote:     req.VendorNote,
		PayrollNote:    req.PayrollNote,
	})
	if err != nil {
		s.logger.Error("attachment row not saved, blob orphaned",
			"filename", filename, "error", err)
		return attachment.UploadResponse{}, err
	}

	return attachment.UploadResponse{
		BlobURL:  blobURL,
		Filename: filename,
		Reason:   req.Reason,
	}, nil
}

// GetByDate implements attachment.Service.
func (s *service) GetByDate(ctx context.Context, date string, companyID int) ([]attachment.Attachment, error) {
	normalized, ok := validator.NormalizeDate(date)
	if !ok {
		return nil, validator.ValidationErrors{{Field: "data", Message: "data must be a valid date"}}
	}
	return s.repo.GetByDate(ctx, normalized, companyID)
}

// GetByReg implements attachment.Service.
func (s *service) GetByReg(ctx context.Context, reg, date string) (attachment.Attachment, error) {
	normalized, ok := validator.NormalizeDate(date)
	if !ok {
		return attachment.Attachment{}, validator.ValidationErrors{{Field: "data", Message: "data must be a valid YYYY-MM-DD date"}}
	}
	return s.repo.GetByReg(ctx, reg, normalized)
}

// UpdateQuestions implements attachment.Service. Updates the question
// set when a row for cpf+date exists; otherwise creates a placeholder
// carrying only the questions.
func (s *service) UpdateQuestions(ctx context.Context, cpf, date string, req attachment.UpdateQuestionsRequest) (attachment.UpdateQuestionsResponse, error) {
	normalized, ok := validator.NormalizeDate(date)
	if !ok {
		return attachment.UpdateQuestionsResponse{}, validator.ValidationErrors{{Field: "data", Message: "data must be a valid date"}}
	}

	questions := req.HRQuestions
	if questions == "" {
		questions = "{}"
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "Sistema"
	}

	affected, err := s.repo.UpdateQuestions(ctx, cpf, normalized, questions, createdBy)
	if err != nil {
		return attachment.UpdateQuestionsResponse{}, err
	}
	if affected > 0 {
		return attachment.UpdateQuestionsResponse{Action: "updated", RowsAffected: affected}, nil
	}

	companyName := req.CompanyName
	if companyName == "" {
		companyName = "N/A"
	}
	employeeName := req.EmployeeName
	if employeeName == "" {
		employeeName = "N/A"
	}

	_, err = s.repo.InsertPlaceholder(ctx, attachment.Attachment{
		CPF:          cpf,
		Reg:          req.Reg,
		Date:         normalized,
		CompanyID:    req.CompanyID,
		CompanyName:  companyName,
		EmployeeName: employeeName,
		HRQuestions:  questions,
		CreatedBy:    createdBy,
	})
	if err != nil {
		return attachment.UpdateQuestionsResponse{}, err
	}
	return attachment.UpdateQuestionsResponse{Action: "inserted", RowsAffected: 1}, nil
}

// BatchPeriod implements attachment.Service. One query covers the whole
// period; rows are grouped by date and company, and question blobs that
// fail to parse are skipped.
func (s *service) BatchPeriod(ctx context.Context, req attachment.BatchPeriodRequest) (attachment.BatchPeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return attachment.BatchPeriodResponse{}, err
	}

	rows, err := s.repo.ListPeriod(ctx, req.DateStart, req.DateEnd, req.CompanyIDs)
	if err != nil {
		return attachment.BatchPeriodResponse{}, err
	}

	resp := attachment.BatchPeriodResponse{
		Attachments:  make(map[string]map[int][]attachment.Attachment),
		Questions:    make(map[string]json.RawMessage),
		TotalRecords: len(rows),
	}
	for _, row := range rows {
		byCompany, ok := resp.Attachments[row.Date]
		if !ok {
			byCompany = make(map[int][]attachment.Attachment)
			resp.Attachments[row.Date] = byCompany
		}
		byCompany[row.CompanyID] = append(byCompany[row.CompanyID], row)

		if row.HRQuestions != "" {
			if json.Valid([]byte(row.HRQuestions)) {
				resp.Questions[row.Reg+"_"+row.Date] = json.RawMessage(row.HRQuestions)
			}
		}
	}
	return resp, nil
}

// Delete implements attachment.Service. The blob goes first (a missing
// blob is ignored), then the SQL row.
func (s *service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.BlobFilename != "" {
		if err := s.storage.Delete(ctx, existing.BlobFilename); err != nil {
			s.logger.Warn("blob delete failed, removing row anyway",
				"filename", existing.BlobFilename, "error", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// SaveJustification implements attachment.Service. Idempotent on the
// (reg, data, empresa_id) key: an existing row is returned as-is.
func (s *service) SaveJustification(ctx context.Context, req attachment.JustificationRequest) (attachment.JustificationResult, error) {
	if err := req.Validate(); err != nil {
		return attachment.JustificationResult{}, err
	}

	date, _ := validator.NormalizeDate(req.Date)

	id, found, err := s.repo.FindID(ctx, attachment.RecordKey{
		Reg:       req.Reg,
		Date:      date,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return attachment.JustificationResult{}, err
	}
	if found {
		return attachment.JustificationResult{ID: id, New: false, Message: "Registro já existe"}, nil
	}

	newID, err := s.repo.InsertPlaceholder(ctx, attachment.Attachment{
		CPF:            validator.NormalizeCPF(req.CPF),
		Reg:            req.Reg,
		Date:           date,
		CompanyID:      req.CompanyID,
		EmployeeName:   req.Name,
		DetectedReason: req.Reason,
		CreatedBy:      "Sistema",
	})
	if err != nil {
		return attachment.JustificationResult{}, err
	}
	return attachment.JustificationResult{ID: newID, New: true, Message: "Registro criado com sucesso"}, nil
}

// SaveJustificationBatch implements attachment.Service. Invalid records
// are reported per-item; the valid remainder commits in one
// transaction.
func (s *service) SaveJustificationBatch(ctx context.Context, req attachment.BatchJustificationRequest) (attachment.BatchJustificationResponse, error) {
	resp := attachment.BatchJustificationResponse{Total: len(req.Records)}

	valid := make([]attachment.Attachment, 0, len(req.Records))
	for _, rec := range req.Records {
		if err := rec.Validate(); err != nil {
			resp.Results = append(resp.Results, attachment.BatchJustificationItem{
				Reg:   rec.Reg,
				Date:  rec.Date,
				Error: "CPF, REG e DATA são obrigatórios",
			})
			continue
		}
		date, _ := validator.NormalizeDate(rec.Date)
		valid = append(valid, attachment.Attachment{
			CPF:            validator.NormalizeCPF(rec.CPF),
			Reg:            rec.Reg,
			Date:           date,
			CompanyID:      rec.CompanyID,
			EmployeeName:   rec.Name,
			DetectedReason: rec.Reason,
			CreatedBy:      "Sistema",
		})
	}

	if len(valid) > 0 {
		items, err := s.repo.SaveJustificationBatch(ctx, valid)
		if err != nil {
			return attachment.BatchJustificationResponse{}, err
		}
		for _, item := range items {
			resp.Results = append(resp.Results, item)
			if item.New {
				resp.New++
			} else {
				resp.Existing++
				resp.ExistingNames = append(resp.ExistingNames, item.Name)
			}
		}
	}
	return resp, nil
}

// LookupIDs implements attachment.Service.
func (s *service) LookupIDs(ctx context.Context, req attachment.LookupIDsRequest) (attachment.LookupIDsResponse, error) {
	resp := attachment.LookupIDsResponse{IDs: make(map[string]int64)}
	if len(req.Records) == 0 {
		return resp, nil
	}

	keys := make([]attachment.RecordKey, 0, len(req.Records))
	for _, rec := range req.Records {
		date, ok := validator.NormalizeDate(rec.Date)
		if !ok {
			continue
		}
		keys = append(keys, attachment.RecordKey{
			Reg:       rec.Reg,
			Date:      date,
			CompanyID: rec.CompanyID,
		})
	}
	if len(keys) == 0 {
		return resp, nil
	}

	ids, err := s.repo.LookupIDs(ctx, keys)
	if err != nil {
		return attachment.LookupIDsResponse{}, err
	}
	resp.IDs = ids
	return resp, nil
}

// Stats implements attachment.Service.
func (s *service) Stats(ctx context.Context, dateStart, dateEnd string) (attachment.StatsReport, error) {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(dateStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "dataInicio", Message: "dataInicio must be a valid YYYY-MM-DD date"})
	}
	if _, ok := validator.IsValidDate(dateEnd); !ok {
		errs = append(errs, validator.ValidationError{Field: "dataFim", Message: "dataFim must be a valid YYYY-MM-DD date"})
	}
	if len(errs) > 0 {
		return attachment.StatsReport{}, errs
	}

	return s.repo.Stats(ctx, dateStart, dateEnd)
}
