package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	propertydomain "propcrm-backend/internal/property/domain"
	synclogdomain "propcrm-backend/internal/synclog/domain"
	"propcrm-backend/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePropertyRepo struct {
	properties []*propertydomain.Property
	insertErr  error
}

func (r *fakePropertyRepo) CreateBatch(properties []*propertydomain.Property) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, property := range properties {
		if property.ID == "" {
			property.ID = uuid.New().String()
		}
	}
	r.properties = append(r.properties, properties...)
	return nil
}

func (r *fakePropertyRepo) ExistsByNaturalKey(address, city, state, zipCode string) (bool, error) {
	property, err := r.FindByNaturalKey(address, city, state, zipCode)
	return property != nil, err
}

func (r *fakePropertyRepo) FindByNaturalKey(address, city, state, zipCode string) (*propertydomain.Property, error) {
	for _, property := range r.properties {
		if property.Address == address && property.City == city && property.State == state && property.ZipCode == zipCode {
			return property, nil
		}
	}
	return nil, nil
}

func (r *fakePropertyRepo) List(limit, offset int, city, state string) ([]*propertydomain.Property, int64, error) {
	return r.properties, int64(len(r.properties)), nil
}

func (r *fakePropertyRepo) Count() (int64, error) {
	return int64(len(r.properties)), nil
}

func (r *fakePropertyRepo) SumEstimatedValue() (float64, error) {
	var total float64
	for _, property := range r.properties {
		if property.EstimatedValue != nil {
			total += *property.EstimatedValue
		}
	}
	return total, nil
}

type fakeRawImportRepo struct {
	records []*propertydomain.RawImportRecord
}

func (r *fakeRawImportRepo) CreateBatch(records []*propertydomain.RawImportRecord) error {
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeRawImportRepo) ListByFilename(filename string, limit, offset int) ([]*propertydomain.RawImportRecord, int64, error) {
	return r.records, int64(len(r.records)), nil
}

type fakeImportLogRepo struct {
	entries []*synclogdomain.SyncLog
}

func (r *fakeImportLogRepo) Create(entry *synclogdomain.SyncLog) error {
	entry.ID = fmt.Sprintf("log-%d", len(r.entries)+1)
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeImportLogRepo) Update(entry *synclogdomain.SyncLog) error { return nil }

func (r *fakeImportLogRepo) LatestCompleted(userID, provider, syncType string) (*synclogdomain.SyncLog, error) {
	return nil, nil
}

func (r *fakeImportLogRepo) HasActive(userID, provider, syncType string) (bool, error) {
	return false, nil
}

func (r *fakeImportLogRepo) Recent(userID, provider string, limit int) ([]*synclogdomain.SyncLog, error) {
	return r.entries, nil
}

func importTestConfig() *config.Config {
	return &config.Config{MaxUploadSizeMB: 50, ImportBatchSize: 2}
}

const csvHeader = "Property Address,City,State,Zip,Estimated Value,Year Built,Last Sale Date\n"

func importFixture(rows ...string) *strings.Reader {
	return strings.NewReader(csvHeader + strings.Join(rows, "\n"))
}

func TestImportCSVValidRow(t *testing.T) {
	propertyRepo := &fakePropertyRepo{}
	rawRepo := &fakeRawImportRepo{}
	logRepo := &fakeImportLogRepo{}
	uc := NewPropertyUsecase(propertyRepo, rawRepo, logRepo, importTestConfig())

	reader := importFixture(`"123 Main St",Austin,TX,78701,"$1,250,000",1998,2020-06-15`)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	require.Len(t, propertyRepo.properties, 1)
	property := propertyRepo.properties[0]
	assert.Equal(t, "123 Main St", property.Address)
	assert.Equal(t, "Austin", property.City)
	assert.Equal(t, "TX", property.State)
	assert.Equal(t, "78701", property.ZipCode)
	require.NotNil(t, property.EstimatedValue)
	assert.Equal(t, 1250000.0, *property.EstimatedValue)
	require.NotNil(t, property.YearBuilt)
	assert.Equal(t, 1998, *property.YearBuilt)
	require.NotNil(t, property.LastSaleDate)
	assert.Equal(t, "2020-06-15", property.LastSaleDate.Format("2006-01-02"))

	require.Len(t, rawRepo.records, 1)
	record := rawRepo.records[0]
	assert.Equal(t, propertydomain.RawStatusSynced, record.ProcessingStatus)
	assert.Equal(t, property.ID, record.PropertyID)
	assert.Equal(t, 2, record.RowNumber)
	assert.Equal(t, "123 Main St", record.RawData["Property Address"])
}

func TestImportCSVPreservesFieldWhitespace(t *testing.T) {
	propertyRepo := &fakePropertyRepo{}
	rawRepo := &fakeRawImportRepo{}
	uc := NewPropertyUsecase(propertyRepo, rawRepo, &fakeImportLogRepo{}, importTestConfig())

	reader := importFixture(`" 123 Main St "," Austin ",TX,78701," $1,250,000 ",,`)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)
	require.NoError(t, err)
	require.Equal(t, 1, result.Successful)

	// Text fields come back exactly as submitted; only numeric coercion cleans
	// its input.
	property := propertyRepo.properties[0]
	assert.Equal(t, " 123 Main St ", property.Address)
	assert.Equal(t, " Austin ", property.City)
	require.NotNil(t, property.EstimatedValue)
	assert.Equal(t, 1250000.0, *property.EstimatedValue)

	require.Len(t, rawRepo.records, 1)
	assert.Equal(t, " 123 Main St ", rawRepo.records[0].RawData["Property Address"])
}

func TestImportCSVMissingRequiredField(t *testing.T) {
	propertyRepo := &fakePropertyRepo{}
	rawRepo := &fakeRawImportRepo{}
	uc := NewPropertyUsecase(propertyRepo, rawRepo, &fakeImportLogRepo{}, importTestConfig())

	reader := importFixture(`"456 Oak Ave",,TX,78702,,,`)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Successful)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 2")
	assert.Contains(t, result.Errors[0], "city")

	assert.Empty(t, propertyRepo.properties)
	require.Len(t, rawRepo.records, 1)
	assert.Equal(t, propertydomain.RawStatusError, rawRepo.records[0].ProcessingStatus)
}

func TestImportCSVInvalidNumber(t *testing.T) {
	uc := NewPropertyUsecase(&fakePropertyRepo{}, &fakeRawImportRepo{}, &fakeImportLogRepo{}, importTestConfig())

	reader := importFixture(`"123 Main St",Austin,TX,78701,not-a-price,,`)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "estimated_value")
}

func TestImportCSVMissingHeaders(t *testing.T) {
	uc := NewPropertyUsecase(&fakePropertyRepo{}, &fakeRawImportRepo{}, &fakeImportLogRepo{}, importTestConfig())

	reader := strings.NewReader("Property Address,City,State\n\"123 Main St\",Austin,TX")
	_, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)

	var missingErr *MissingHeadersError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"Zip"}, missingErr.Missing)
}

func TestImportCSVDuplicateSkipped(t *testing.T) {
	propertyRepo := &fakePropertyRepo{properties: []*propertydomain.Property{{
		ID: "existing", Address: "123 Main St", City: "Austin", State: "TX", ZipCode: "78701",
	}}}
	rawRepo := &fakeRawImportRepo{}
	uc := NewPropertyUsecase(propertyRepo, rawRepo, &fakeImportLogRepo{}, importTestConfig())

	reader := importFixture(`"123 Main St",Austin,TX,78701,,,`)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Successful)
	assert.Len(t, propertyRepo.properties, 1)

	require.Len(t, rawRepo.records, 1)
	assert.Equal(t, propertydomain.RawStatusSkipped, rawRepo.records[0].ProcessingStatus)
}

func TestImportCSVBatchInsertFailure(t *testing.T) {
	propertyRepo := &fakePropertyRepo{insertErr: errors.New("connection reset")}
	rawRepo := &fakeRawImportRepo{}
	logRepo := &fakeImportLogRepo{}
	uc := NewPropertyUsecase(propertyRepo, rawRepo, logRepo, importTestConfig())

	reader := importFixture(
		`"123 Main St",Austin,TX,78701,,,`,
		`"456 Oak Ave",Austin,TX,78702,,,`,
	)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 1024, reader)
	require.NoError(t, err)

	// One batch failure fails every row in it but produces a single error.
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 0, result.Successful)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Batch insert failed")

	require.Len(t, rawRepo.records, 2)
	for _, record := range rawRepo.records {
		assert.Equal(t, propertydomain.RawStatusError, record.ProcessingStatus)
	}

	// All rows failed, so the run itself is recorded as failed.
	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, synclogdomain.StatusFailed, logRepo.entries[0].Status)
}

func TestImportCSVWritesSummaryLog(t *testing.T) {
	logRepo := &fakeImportLogRepo{}
	uc := NewPropertyUsecase(&fakePropertyRepo{}, &fakeRawImportRepo{}, logRepo, importTestConfig())

	reader := importFixture(
		`"123 Main St",Austin,TX,78701,,,`,
		`"456 Oak Ave",,TX,78702,,,`,
	)
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 2048, reader)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)

	require.Len(t, logRepo.entries, 1)
	entry := logRepo.entries[0]
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "propstream", entry.Provider)
	assert.Equal(t, synclogdomain.SyncTypeProperties, entry.SyncType)
	assert.Equal(t, synclogdomain.StatusCompleted, entry.Status)
	assert.Equal(t, 2, entry.RecordsProcessed)
	assert.Equal(t, 1, entry.RecordsCreated)
	assert.Equal(t, 1, entry.RecordsFailed)
	require.NotNil(t, entry.CompletedAt)
	assert.Equal(t, "export.csv", entry.Metadata["filename"])
}

func TestImportCSVRejectsBadUploads(t *testing.T) {
	uc := NewPropertyUsecase(&fakePropertyRepo{}, &fakeRawImportRepo{}, &fakeImportLogRepo{}, importTestConfig())

	_, err := uc.ImportCSV(context.Background(), "user-1", "export.xlsx", 1024, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = uc.ImportCSV(context.Background(), "user-1", "export.csv", 51*1024*1024, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = uc.ImportCSV(context.Background(), "user-1", "export.csv", 16, strings.NewReader(csvHeader))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = uc.ImportCSV(context.Background(), "user-1", "export.csv", 32, strings.NewReader("a,b\n\"unterminated"))
	assert.ErrorIs(t, err, ErrCSVParse)
}

func TestImportCSVBatchesLargeFiles(t *testing.T) {
	propertyRepo := &fakePropertyRepo{}
	rawRepo := &fakeRawImportRepo{}
	uc := NewPropertyUsecase(propertyRepo, rawRepo, &fakeImportLogRepo{}, importTestConfig())

	rows := make([]string, 5)
	for i := range rows {
		rows[i] = fmt.Sprintf(`"%d Elm St",Austin,TX,78701,,,`, i+1)
	}
	result, err := uc.ImportCSV(context.Background(), "user-1", "export.csv", 4096, importFixture(rows...))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 5, result.Successful)
	assert.Len(t, propertyRepo.properties, 5)

	// Row numbers stay absolute across batches.
	require.Len(t, rawRepo.records, 5)
	assert.Equal(t, 2, rawRepo.records[0].RowNumber)
	assert.Equal(t, 6, rawRepo.records[4].RowNumber)
}
