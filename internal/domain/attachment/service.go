package attachment

import "context"

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
	GetByDate(ctx context.Context, date string, companyID int) ([]Attachment, error)
	GetByReg(ctx context.Context, reg, date string) (Attachment, error)
	UpdateQuestions(ctx context.Context, cpf, date string, req UpdateQuestionsRequest) (UpdateQuestionsResponse, error)
	BatchPeriod(ctx context.Context, req BatchPeriodRequest) (BatchPeriodResponse, error)
	Delete(ctx context.Context, id int64) error
	SaveJustification(ctx context.Context, req JustificationRequest) (JustificationResult, error)
	SaveJustificationBatch(ctx context.Context, req BatchJustificationRequest) (BatchJustificationResponse, error)
	LookupIDs(ctx context.Context, req LookupIDsRequest) (LookupIDsResponse, error)
	Stats(ctx context.Context, dateStart, dateEnd string) (StatsReport, error)
}
