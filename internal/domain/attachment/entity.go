package attachment

import (
	"encoding/json"
	"time"
)

// Attachment is one row of the anexos table: a justification record for
// an attendance anomaly, keyed by (reg, data, empresa_id). A row with an
// empty blob URL is a placeholder awaiting the scanned image.
type Attachment struct {
	ID             int64           `json:"id"`
	CPF            string          `json:"cpf"`
	Reg            string          `json:"reg"`
	Date           string          `json:"data"`
	CompanyID      int             `json:"empresa_id"`
	CompanyName    string          `json:"empresa_nome"`
	EmployeeName   string          `json:"funcionario_nome"`
	BlobURL        string          `json:"blob_url"`
	BlobFilename   string          `json:"blob_filename"`
	DetectedReason string          `json:"motivo_detectado,omitempty"`
	DetectedTimes  json.RawMessage `json:"horarios_detectados,omitempty"`
	OCRText        string          `json:"ocr_texto_completo,omitempty"`
	HRQuestions    string          `json:"perguntas_rh,omitempty"`
	PayrollNote    string          `json:"justificativa_folha,omitempty"`
	VendorNote     string          `json:"justificativa_secullum,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}

// Returned reports whether the scanned image came back for this record.
func (a Attachment) Returned() bool {
	return a.BlobURL != ""
}
