package attachment

import (
	"encoding/json"

	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
)

type UploadRequest struct {
	Reg          string          `json:"reg"`
	CPF          string          `json:"cpf"`
	Date         string          `json:"data"`
	CompanyID    int             `json:"empresa_id"`
	CompanyName  string          `json:"empresa_nome"`
	EmployeeName string          `json:"funcionario_nome"`
	ImageBase64  string          `json:"imageBase64"`
	Reason       string          `json:"motivo"`
	OCRText      string          `json:"ocr_texto"`
	Times        json.RawMessage `json:"horarios"`
	HRQuestions  string          `json:"perguntas_rh"`
	CreatedBy    string          `json:"created_by"`
	VendorNote   string          `json:"justificativa_secullum"`
	PayrollNote  string          `json:"justificativa_folha"`
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CPF) {
		errs = append(errs, validator.ValidationError{
			Field:   "cpf",
			Message: "cpf is required",
		})
	}
	if _, ok := validator.NormalizeDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "data",
			Message: "data must be a valid date",
		})
	}
	if validator.IsEmpty(r.ImageBase64) {
		errs = append(errs, validator.ValidationError{
			Field:   "imageBase64",
			Message: "imageBase64 is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UploadResponse struct {
	BlobURL  string `json:"blobUrl"`
	Filename string `json:"filename"`
	Reason   string `json:"motivo,omitempty"`
}

type UpdateQuestionsRequest struct {
	HRQuestions  string `json:"perguntas_rh"`
	Reg          string `json:"reg"`
	CompanyID    int    `json:"empresa_id"`
	CompanyName  string `json:"empresa_nome"`
	EmployeeName string `json:"funcionario_nome"`
	CreatedBy    string `json:"created_by"`
}

type UpdateQuestionsResponse struct {
	Action       string `json:"action"` // "updated" or "inserted"
	RowsAffected int64  `json:"rowsAffected"`
}

type BatchPeriodRequest struct {
	DateStart  string `json:"dateStart"`
	DateEnd    string `json:"dateEnd"`
	CompanyIDs []int  `json:"empresaIds"`
}

func (r *BatchPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.DateStart); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "dateStart",
			Message: "dateStart must be a valid YYYY-MM-DD date",
		})
	}
	if _, ok := validator.IsValidDate(r.DateEnd); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "dateEnd",
			Message: "dateEnd must be a valid YYYY-MM-DD date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BatchPeriodResponse groups attachments by date then company id, with
// parsed question sets keyed by "<reg>_<date>".
type BatchPeriodResponse struct {
	Attachments  map[string]map[int][]Attachment `json:"anexos"`
	Questions    map[string]json.RawMessage      `json:"perguntas"`
	TotalRecords int                             `json:"totalRecords"`
}

type JustificationRequest struct {
	CPF       string `json:"cpf"`
	Reg       string `json:"reg"`
	Date      string `json:"data"`
	CompanyID int    `json:"empresa_id"`
	Name      string `json:"nome"`
	Reason    string `json:"motivo"`
}

func (r *JustificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CPF) {
		errs = append(errs, validator.ValidationError{
			Field:   "cpf",
			Message: "cpf is required",
		})
	}
	if validator.IsEmpty(r.Reg) {
		errs = append(errs, validator.ValidationError{
			Field:   "reg",
			Message: "reg is required",
		})
	}
	if _, ok := validator.NormalizeDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "data",
			Message: "data must be a valid date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type JustificationResult struct {
	ID      int64  `json:"id"`
	New     bool   `json:"novo"`
	Message string `json:"mensagem"`
}

type BatchJustificationRequest struct {
	Records []JustificationRequest `json:"registros"`
}

type BatchJustificationItem struct {
	Reg   string `json:"reg"`
	Date  string `json:"data"`
	ID    int64  `json:"id,omitempty"`
	New   bool   `json:"novo"`
	Name  string `json:"nome,omitempty"`
	Error string `json:"error,omitempty"`
}

type BatchJustificationResponse struct {
	Total         int                      `json:"total"`
	New           int                      `json:"novos"`
	Existing      int                      `json:"existentes"`
	Results       []BatchJustificationItem `json:"resultados"`
	ExistingNames []string                 `json:"nomesExistentes"`
}

type LookupIDsRequest struct {
	Records []RecordKey `json:"registros"`
}

// RecordKey is the composite key of one justification row.
type RecordKey struct {
	Reg       string `json:"reg"`
	Date      string `json:"data"`
	CompanyID int    `json:"empresa_id"`
}

// LookupIDsResponse maps "<reg>_<date>_<empresa_id>" to the row id.
type LookupIDsResponse struct {
	IDs map[string]int64 `json:"ids"`
}

type StatsTotals struct {
	Sent       int `json:"enviadas"`
	Returned   int `json:"retornadas"`
	Pending    int `json:"pendentes"`
	ReturnRate int `json:"taxaRetorno"`
}

type StatsByCompany struct {
	CompanyID  int `json:"empresaId"`
	Sent       int `json:"enviadas"`
	Returned   int `json:"retornadas"`
	Pending    int `json:"pendentes"`
	ReturnRate int `json:"taxaRetorno"`
}

type StatsTimePoint struct {
	Date     string `json:"data"`
	Sent     int    `json:"enviadas"`
	Returned int    `json:"retornadas"`
}

type StatsReport struct {
	Period    Period           `json:"periodo"`
	Totals    StatsTotals      `json:"totais"`
	ByCompany []StatsByCompany `json:"porEmpresa"`
	Timeline  []StatsTimePoint `json:"evolucaoTemporal"`
}

type Period struct {
	Start string `json:"dataInicio"`
	End   string `json:"dataFim"`
}
