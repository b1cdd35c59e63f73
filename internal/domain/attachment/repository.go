package attachment

import "context"

type AttachmentRepository interface {
	Upsert(ctx context.Context, a Attachment) error
	GetByDate(ctx context.Context, date string, companyID int) ([]Attachment, error)
	GetByReg(ctx context.Context, reg, date string) (Attachment, error)
	GetByID(ctx context.Context, id int64) (Attachment, error)
	FindID(ctx context.Context, key RecordKey) (int64, bool, error)
	UpdateQuestions(ctx context.Context, cpf, date, questions, createdBy string) (int64, error)
	InsertPlaceholder(ctx context.Context, a Attachment) (int64, error)
	ListPeriod(ctx context.Context, dateStart, dateEnd string, companyIDs []int) ([]Attachment, error)
	LookupIDs(ctx context.Context, keys []RecordKey) (map[string]int64, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, dateStart, dateEnd string) (StatsReport, error)

	// SaveJustificationBatch runs the whole batch in one transaction.
	SaveJustificationBatch(ctx context.Context, records []Attachment) ([]BatchJustificationItem, error)
}
