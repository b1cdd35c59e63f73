package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pontohub/ponto-backend-go/internal/domain/attachment"
	"github.com/pontohub/ponto-backend-go/internal/pkg/database"
)

const attachmentColumns = `id, cpf, reg, to_char(data, 'YYYY-MM-DD'), empresa_id,
	COALESCE(empresa_nome, ''), COALESCE(funcionario_nome, ''),
	COALESCE(blob_url, ''), COALESCE(blob_filename, ''),
	COALESCE(motivo_detectado, ''), horarios_detectados,
	COALESCE(ocr_texto_completo, ''), COALESCE(perguntas_rh, ''),
	COALESCE(justificativa_secullum, ''), COALESCE(justificativa_folha, ''),
	COALESCE(created_by, ''), created_at`

type attachmentRepositoryImpl struct {
	db *database.DB
}

func NewAttachmentRepository(db *database.DB) attachment.AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

func scanAttachment(row pgx.Row) (attachment.Attachment, error) {
	var a attachment.Attachment
	err := row.Scan(&a.ID, &a.CPF, &a.Reg, &a.Date, &a.CompanyID,
		&a.CompanyName, &a.EmployeeName, &a.BlobURL, &a.BlobFilename,
		&a.DetectedReason, &a.DetectedTimes, &a.OCRText, &a.HRQuestions,
		&a.VendorNote, &a.PayrollNote, &a.CreatedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return attachment.Attachment{}, attachment.ErrAttachmentNotFound
	}
	return a, err
}

func collectAttachments(rows pgx.Rows) ([]attachment.Attachment, error) {
	defer rows.Close()

	var result []attachment.Attachment
	for rows.Next() {
		var a attachment.Attachment
		if err := rows.Scan(&a.ID, &a.CPF, &a.Reg, &a.Date, &a.CompanyID,
			&a.CompanyName, &a.EmployeeName, &a.BlobURL, &a.BlobFilename,
			&a.DetectedReason, &a.DetectedTimes, &a.OCRText, &a.HRQuestions,
			&a.VendorNote, &a.PayrollNote, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Upsert implements attachment.AttachmentRepository. The conflict target
// is the (reg, data, empresa_id) composite key; an update keeps the
// existing perguntas_rh when the incoming payload carries none.
func (r *attachmentRepositoryImpl) Upsert(ctx context.Context, a attachment.Attachment) error {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO anexos (cpf, reg, data, empresa_id, empresa_nome, funcionario_nome,
			blob_url, blob_filename, motivo_detectado, horarios_detectados,
			ocr_texto_completo, perguntas_rh, created_by,
			justificativa_secullum, justificativa_folha)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (reg, data, empresa_id) DO UPDATE SET
			cpf = EXCLUDED.cpf,
			empresa_nome = EXCLUDED.empresa_nome,
			funcionario_nome = EXCLUDED.funcionario_nome,
			blob_url = EXCLUDED.blob_url,
			blob_filename = EXCLUDED.blob_filename,
			motivo_detectado = EXCLUDED.motivo_detectado,
			horarios_detectados = EXCLUDED.horarios_detectados,
			ocr_texto_completo = EXCLUDED.ocr_texto_completo,
			created_by = EXCLUDED.created_by,
			justificativa_secullum = EXCLUDED.justificativa_secullum,
			justificativa_folha = EXCLUDED.justificativa_folha,
			perguntas_rh = CASE
				WHEN EXCLUDED.perguntas_rh != '{}' THEN EXCLUDED.perguntas_rh
				ELSE COALESCE(anexos.perguntas_rh, '{}')
			END
	`

	questions := a.HRQuestions
	if questions == "" {
		questions = "{}"
	}

	_, err = q.Exec(ctx, query, a.CPF, a.Reg, a.Date, a.CompanyID,
		a.CompanyName, a.EmployeeName, a.BlobURL, a.BlobFilename,
		a.DetectedReason, a.DetectedTimes, a.OCRText, questions,
		a.CreatedBy, a.VendorNote, a.PayrollNote)
	return err
}

// GetByDate implements attachment.AttachmentRepository. Rows written
// without a company (empresa_id = 0) are always included.
func (r *attachmentRepositoryImpl) GetByDate(ctx context.Context, date string, companyID int) ([]attachment.Attachment, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx,
		"SELECT "+attachmentColumns+" FROM anexos WHERE data = $1::date AND (empresa_id = $2 OR empresa_id = 0)",
		date, companyID)
	if err != nil {
		return nil, err
	}
	return collectAttachments(rows)
}

// GetByReg implements attachment.AttachmentRepository.
func (r *attachmentRepositoryImpl) GetByReg(ctx context.Context, reg, date string) (attachment.Attachment, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return attachment.Attachment{}, err
	}

	return scanAttachment(q.QueryRow(ctx,
		"SELECT "+attachmentColumns+" FROM anexos WHERE reg = $1 AND data = $2::date", reg, date))
}

// GetByID implements attachment.AttachmentRepository.
func (r *attachmentRepositoryImpl) GetByID(ctx context.Context, id int64) (attachment.Attachment, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return attachment.Attachment{}, err
	}

	return scanAttachment(q.QueryRow(ctx,
		"SELECT "+attachmentColumns+" FROM anexos WHERE id = $1", id))
}

// FindID implements attachment.AttachmentRepository.
func (r *attachmentRepositoryImpl) FindID(ctx context.Context, key attachment.RecordKey) (int64, bool, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return 0, false, err
	}

	var id int64
	err = q.QueryRow(ctx,
		"SELECT id FROM anexos WHERE reg = $1 AND data = $2::date AND empresa_id = $3",
		key.Reg, key.Date, key.CompanyID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// UpdateQuestions implements attachment.AttachmentRepository. Returns the
// number of rows touched; zero means no row matched the cpf+date pair.
func (r *attachmentRepositoryImpl) UpdateQuestions(ctx context.Context, cpf, date, questions, createdBy string) (int64, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return 0, err
	}

	tag, err := q.Exec(ctx,
		"UPDATE anexos SET perguntas_rh = $1, created_by = $2 WHERE cpf = $3 AND data = $4::date",
		questions, createdBy, cpf, date)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertPlaceholder implements attachment.AttachmentRepository. The row
// is created with empty blob fields, waiting for a later upload.
func (r *attachmentRepositoryImpl) InsertPlaceholder(ctx context.Context, a attachment.Attachment) (int64, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return 0, err
	}

	questions := a.HRQuestions
	if questions == "" {
		questions = "{}"
	}
	createdBy := a.CreatedBy
	if createdBy == "" {
		createdBy = "Sistema"
	}

	var id int64
	err = q.QueryRow(ctx, `
		INSERT INTO anexos (cpf, reg, data, empresa_id, empresa_nome, funcionario_nome,
			blob_url, blob_filename, motivo_detectado, perguntas_rh, created_by)
		VALUES ($1, $2, $3::date, $4, $5, $6, '', '', $7, $8, $9)
		RETURNING id
	`, a.CPF, a.Reg, a.Date, a.CompanyID, a.CompanyName, a.EmployeeName,
		a.DetectedReason, questions, createdBy).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListPeriod implements attachment.AttachmentRepository.
func (r *attachmentRepositoryImpl) ListPeriod(ctx context.Context, dateStart, dateEnd string, companyIDs []int) ([]attachment.Attachment, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + attachmentColumns + " FROM anexos WHERE data BETWEEN $1::date AND $2::date"
	args := []interface{}{dateStart, dateEnd}
	if len(companyIDs) > 0 {
		query += fmt.Sprintf(" AND empresa_id = ANY($%d)", len(args)+1)
		args = append(args, companyIDs)
	}
	query += " ORDER BY data DESC, empresa_id, reg"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAttachments(rows)
}

// LookupIDs implements attachment.AttachmentRepository. One query
// resolves every composite key via unnested parallel arrays.
func (r *attachmentRepositoryImpl) LookupIDs(ctx context.Context, keys []attachment.RecordKey) (map[string]int64, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return nil, err
	}

	regs := make([]string, len(keys))
	dates := make([]string, len(keys))
	companies := make([]int, len(keys))
	for i, key := range keys {
		regs[i] = key.Reg
		dates[i] = key.Date
		companies[i] = key.CompanyID
	}

	rows, err := q.Query(ctx, `
		SELECT a.id, a.reg, to_char(a.data, 'YYYY-MM-DD'), a.empresa_id
		FROM anexos a
		JOIN (
			SELECT unnest($1::text[]) AS reg,
			       unnest($2::date[]) AS data,
			       unnest($3::int[]) AS empresa_id
		) k ON a.reg = k.reg AND a.data = k.data AND a.empresa_id = k.empresa_id
	`, regs, dates, companies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var reg, date string
		var companyID int
		if err := rows.Scan(&id, &reg, &date, &companyID); err != nil {
			return nil, err
		}
		ids[fmt.Sprintf("%s_%s_%d", reg, date, companyID)] = id
	}
	return ids, rows.Err()
}

// Delete implements attachment.AttachmentRepository.
func (r *attachmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, "DELETE FROM anexos WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attachment.ErrAttachmentNotFound
	}
	return nil
}

// Stats implements attachment.AttachmentRepository. A record counts as
// returned once its blob URL is filled in.
func (r *attachmentRepositoryImpl) Stats(ctx context.Context, dateStart, dateEnd string) (attachment.StatsReport, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return attachment.StatsReport{}, err
	}

	report := attachment.StatsReport{
		Period: attachment.Period{Start: dateStart, End: dateEnd},
	}

	err = q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE blob_url IS NOT NULL AND blob_url != ''),
		       COUNT(*) FILTER (WHERE blob_url IS NULL OR blob_url = '')
		FROM anexos
		WHERE data BETWEEN $1::date AND $2::date
	`, dateStart, dateEnd).Scan(&report.Totals.Sent, &report.Totals.Returned, &report.Totals.Pending)
	if err != nil {
		return attachment.StatsReport{}, err
	}
	report.Totals.ReturnRate = returnRate(report.Totals.Returned, report.Totals.Sent)

	rows, err := q.Query(ctx, `
		SELECT empresa_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE blob_url IS NOT NULL AND blob_url != ''),
		       COUNT(*) FILTER (WHERE blob_url IS NULL OR blob_url = '')
		FROM anexos
		WHERE data BETWEEN $1::date AND $2::date
		GROUP BY empresa_id
		ORDER BY COUNT(*) DESC
	`, dateStart, dateEnd)
	if err != nil {
		return attachment.StatsReport{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var row attachment.StatsByCompany
		if err := rows.Scan(&row.CompanyID, &row.Sent, &row.Returned, &row.Pending); err != nil {
			return attachment.StatsReport{}, err
		}
		row.ReturnRate = returnRate(row.Returned, row.Sent)
		report.ByCompany = append(report.ByCompany, row)
	}
	if err := rows.Err(); err != nil {
		return attachment.StatsReport{}, err
	}

	timeline, err := q.Query(ctx, `
		SELECT to_char(data, 'YYYY-MM-DD'),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE blob_url IS NOT NULL AND blob_url != '')
		FROM anexos
		WHERE data BETWEEN $1::date AND $2::date
		GROUP BY data
		ORDER BY data ASC
	`, dateStart, dateEnd)
	if err != nil {
		return attachment.StatsReport{}, err
	}
	defer timeline.Close()
	for timeline.Next() {
		var point attachment.StatsTimePoint
		if err := timeline.Scan(&point.Date, &point.Sent, &point.Returned); err != nil {
			return attachment.StatsReport{}, err
		}
		report.Timeline = append(report.Timeline, point)
	}
	return report, timeline.Err()
}

// SaveJustificationBatch implements attachment.AttachmentRepository. The
// whole batch commits or rolls back as one transaction.
func (r *attachmentRepositoryImpl) SaveJustificationBatch(ctx context.Context, records []attachment.Attachment) ([]attachment.BatchJustificationItem, error) {
	items := make([]attachment.BatchJustificationItem, 0, len(records))

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for _, rec := range records {
			item := attachment.BatchJustificationItem{
				Reg:  rec.Reg,
				Date: rec.Date,
				Name: rec.EmployeeName,
			}

			id, found, err := r.FindID(ctx, attachment.RecordKey{
				Reg:       rec.Reg,
				Date:      rec.Date,
				CompanyID: rec.CompanyID,
			})
			if err != nil {
				return err
			}
			if found {
				item.ID = id
			} else {
				newID, err := r.InsertPlaceholder(ctx, rec)
				if err != nil {
					return err
				}
				item.ID = newID
				item.New = true
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func returnRate(returned, sent int) int {
	if sent == 0 {
		return 0
	}
	return int(float64(returned)/float64(sent)*100 + 0.5)
}
