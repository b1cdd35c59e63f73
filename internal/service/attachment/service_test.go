package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pontohub/ponto-backend-go/internal/domain/attachment"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	upserted     []attachment.Attachment
	placeholders []attachment.Attachment
	existingIDs  map[attachment.RecordKey]int64
	byID         map[int64]attachment.Attachment
	deleted      []int64
	periodRows   []attachment.Attachment
	questionHits int64
	nextID       int64
}

func (f *fakeRepo) Upsert(ctx context.Context, a attachment.Attachment) error {
	f.upserted = append(f.upserted, a)
	return nil
}

func (f *fakeRepo) GetByDate(ctx context.Context, date string, companyID int) ([]attachment.Attachment, error) {
	return f.periodRows, nil
}

func (f *fakeRepo) GetByReg(ctx context.Context, reg, date string) (attachment.Attachment, error) {
	return attachment.Attachment{}, attachment.ErrAttachmentNotFound
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (attachment.Attachment, error) {
	a, ok := f.byID[id]
	if !ok {
		return attachment.Attachment{}, attachment.ErrAttachmentNotFound
	}
	return a, nil
}

func (f *fakeRepo) FindID(ctx context.Context, key attachment.RecordKey) (int64, bool, error) {
	id, ok := f.existingIDs[key]
	return id, ok, nil
}

func (f *fakeRepo) UpdateQuestions(ctx context.Context, cpf, date, questions, createdBy string) (int64, error) {
	return f.questionHits, nil
}

func (f *fakeRepo) InsertPlaceholder(ctx context.Context, a attachment.Attachment) (int64, error) {
	f.placeholders = append(f.placeholders, a)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeRepo) ListPeriod(ctx context.Context, dateStart, dateEnd string, companyIDs []int) ([]attachment.Attachment, error) {
	return f.periodRows, nil
}

func (f *fakeRepo) LookupIDs(ctx context.Context, keys []attachment.RecordKey) (map[string]int64, error) {
	ids := make(map[string]int64)
	for _, key := range keys {
		if id, ok := f.existingIDs[key]; ok {
			ids[key.Reg+"_"+key.Date+"_0"] = id
		}
	}
	return ids, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) Stats(ctx context.Context, dateStart, dateEnd string) (attachment.StatsReport, error) {
	return attachment.StatsReport{}, nil
}

func (f *fakeRepo) SaveJustificationBatch(ctx context.Context, records []attachment.Attachment) ([]attachment.BatchJustificationItem, error) {
	items := make([]attachment.BatchJustificationItem, 0, len(records))
	for _, rec := range records {
		key := attachment.RecordKey{Reg: rec.Reg, Date: rec.Date, CompanyID: rec.CompanyID}
		if id, ok := f.existingIDs[key]; ok {
			items = append(items, attachment.BatchJustificationItem{Reg: rec.Reg, Date: rec.Date, ID: id, Name: rec.EmployeeName})
			continue
		}
		f.nextID++
		items = append(items, attachment.BatchJustificationItem{Reg: rec.Reg, Date: rec.Date, ID: f.nextID, New: true, Name: rec.EmployeeName})
	}
	return items, nil
}

type fakeStorage struct {
	uploads   map[string][]byte
	deletes   []string
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, name string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.uploads[name] = data
	return name, nil
}

func (f *fakeStorage) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorage) Delete(ctx context.Context, name string) error {
	f.deletes = append(f.deletes, name)
	return f.deleteErr
}

func (f *fakeStorage) GetURL(ctx context.Context, name string) (string, error) {
	return "http://localhost:3000/files/justificativas/" + name + "?sig=secret", nil
}

func (f *fakeStorage) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := f.uploads[name]
	return ok, nil
}

func newTestService(repo *fakeRepo, store *fakeStorage) *service {
	svc := NewService(repo, store, nil).(*service)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestUpload_StoresBlobAndUpsertsRow(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStorage()
	svc := newTestService(repo, store)

	image := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	got, err := svc.Upload(context.Background(), attachment.UploadRequest{
		Reg:         "4711",
		CPF:         "111.222.333-44",
		Date:        "2025-10-03T00:00:00",
		CompanyID:   7,
		ImageBase64: "data:image/png;base64," + image,
	})
	require.NoError(t, err)

	assert.Equal(t, "4711_2025-10-03_1700000000000.png", got.Filename)
	assert.Equal(t, []byte("png-bytes"), store.uploads[got.Filename])

	require.Len(t, repo.upserted, 1)
	row := repo.upserted[0]
	assert.Equal(t, "2025-10-03", row.Date, "time suffix must be stripped")
	assert.NotContains(t, row.BlobURL, "?", "signed credentials must not be persisted")
	assert.NotContains(t, got.BlobURL, "sig=")
	assert.Equal(t, "Sistema", row.CreatedBy)
}

func TestUpload_RejectsInvalidBase64(t *testing.T) {
	svc := newTestService(&fakeRepo{}, newFakeStorage())

	_, err := svc.Upload(context.Background(), attachment.UploadRequest{
		Reg:         "4711",
		CPF:         "11122233344",
		Date:        "2025-10-03",
		ImageBase64: "%%%not-base64%%%",
	})
	assert.ErrorIs(t, err, attachment.ErrInvalidImage)
}

func TestUpload_MissingFields(t *testing.T) {
	svc := newTestService(&fakeRepo{}, newFakeStorage())

	_, err := svc.Upload(context.Background(), attachment.UploadRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestUpdateQuestions_UpdatesExistingRow(t *testing.T) {
	repo := &fakeRepo{questionHits: 1}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.UpdateQuestions(context.Background(), "11122233344", "2025-10-03", attachment.UpdateQuestionsRequest{
		HRQuestions: `{"q1":"sim"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Action)
	assert.Empty(t, repo.placeholders)
}

func TestUpdateQuestions_InsertsPlaceholderWhenMissing(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.UpdateQuestions(context.Background(), "11122233344", "2025-10-03", attachment.UpdateQuestionsRequest{
		Reg:         "4711",
		HRQuestions: `{"q1":"sim"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "inserted", got.Action)
	require.Len(t, repo.placeholders, 1)
	assert.Equal(t, "N/A", repo.placeholders[0].CompanyName)
	assert.Empty(t, repo.placeholders[0].BlobURL)
}

func TestBatchPeriod_GroupsAndSkipsInvalidQuestions(t *testing.T) {
	repo := &fakeRepo{periodRows: []attachment.Attachment{
		{ID: 1, Reg: "100", Date: "2025-10-03", CompanyID: 7, HRQuestions: `{"q1":"sim"}`},
		{ID: 2, Reg: "200", Date: "2025-10-03", CompanyID: 8, HRQuestions: "{invalid"},
		{ID: 3, Reg: "300", Date: "2025-10-04", CompanyID: 7},
	}}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.BatchPeriod(context.Background(), attachment.BatchPeriodRequest{
		DateStart: "2025-10-01",
		DateEnd:   "2025-10-05",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalRecords)
	assert.Len(t, got.Attachments["2025-10-03"][7], 1)
	assert.Len(t, got.Attachments["2025-10-03"][8], 1)
	assert.Contains(t, got.Questions, "100_2025-10-03")
	assert.NotContains(t, got.Questions, "200_2025-10-03", "invalid question JSON is skipped")
}

func TestDelete_RemovesBlobThenRow(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]attachment.Attachment{
		5: {ID: 5, BlobFilename: "4711_2025-10-03_1.png"},
	}}
	store := newFakeStorage()
	svc := newTestService(repo, store)

	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Equal(t, []string{"4711_2025-10-03_1.png"}, store.deletes)
	assert.Equal(t, []int64{5}, repo.deleted)
}

func TestDelete_MissingBlobStillDeletesRow(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]attachment.Attachment{
		5: {ID: 5, BlobFilename: "gone.png"},
	}}
	store := newFakeStorage()
	store.deleteErr = errors.New("blob not found")
	svc := newTestService(repo, store)

	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Equal(t, []int64{5}, repo.deleted)
}

func TestSaveJustification_IdempotentOnCompositeKey(t *testing.T) {
	repo := &fakeRepo{existingIDs: map[attachment.RecordKey]int64{
		{Reg: "4711", Date: "2025-10-03", CompanyID: 7}: 42,
	}}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.SaveJustification(context.Background(), attachment.JustificationRequest{
		CPF:       "111.222.333-44",
		Reg:       "4711",
		Date:      "03/10/2025",
		CompanyID: 7,
	})
	require.NoError(t, err)
	assert.False(t, got.New)
	assert.Equal(t, int64(42), got.ID)
	assert.Empty(t, repo.placeholders)
}

func TestSaveJustification_CreatesPlaceholder(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.SaveJustification(context.Background(), attachment.JustificationRequest{
		CPF:  "111.222.333-44",
		Reg:  "4711",
		Date: "2025-10-03",
		Name: "Ana",
	})
	require.NoError(t, err)
	assert.True(t, got.New)
	require.Len(t, repo.placeholders, 1)
	assert.Equal(t, "11122233344", repo.placeholders[0].CPF, "cpf stored without punctuation")
}

func TestSaveJustificationBatch_MixedValidity(t *testing.T) {
	repo := &fakeRepo{existingIDs: map[attachment.RecordKey]int64{
		{Reg: "100", Date: "2025-10-03"}: 9,
	}}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.SaveJustificationBatch(context.Background(), attachment.BatchJustificationRequest{
		Records: []attachment.JustificationRequest{
			{CPF: "111", Reg: "100", Date: "2025-10-03", Name: "Ana"},
			{CPF: "222", Reg: "200", Date: "2025-10-03", Name: "Bia"},
			{Reg: "300", Date: "2025-10-03"}, // missing cpf
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.New)
	assert.Equal(t, 1, got.Existing)
	assert.Equal(t, []string{"Ana"}, got.ExistingNames)

	var errored int
	for _, item := range got.Results {
		if item.Error != "" {
			errored++
		}
	}
	assert.Equal(t, 1, errored)
}

func TestLookupIDs_NormalizesDates(t *testing.T) {
	repo := &fakeRepo{existingIDs: map[attachment.RecordKey]int64{
		{Reg: "100", Date: "2025-10-03"}: 7,
	}}
	svc := newTestService(repo, newFakeStorage())

	got, err := svc.LookupIDs(context.Background(), attachment.LookupIDsRequest{
		Records: []attachment.RecordKey{
			{Reg: "100", Date: "03/10/2025"},
			{Reg: "999", Date: "not-a-date"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.IDs["100_2025-10-03_0"])
	assert.Len(t, got.IDs, 1)
}

func TestStats_ValidatesDates(t *testing.T) {
	svc := newTestService(&fakeRepo{}, newFakeStorage())

	_, err := svc.Stats(context.Background(), "bad", "2025-10-05")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
