package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	integrationdomain "propcrm-backend/internal/integration/domain"
	propertydomain "propcrm-backend/internal/property/domain"
	propertyrepo "propcrm-backend/internal/property/repository"
	synclogdomain "propcrm-backend/internal/synclog/domain"
	synclogrepo "propcrm-backend/internal/synclog/repository"
	"propcrm-backend/pkg/config"

	"gorm.io/datatypes"
)

// maxResponseErrors caps the error list returned to the caller; the persisted
// sync log keeps up to synclogdomain.MaxStoredErrors.
const maxResponseErrors = 10

// propertyUsecase implements PropertyUsecase interface
type propertyUsecase struct {
	propertyRepo  propertyrepo.PropertyRepository
	rawImportRepo propertyrepo.RawImportRepository
	syncLogRepo   synclogrepo.SyncLogRepository
	maxUploadMB   int
	batchSize     int
}

// NewPropertyUsecase creates a new instance of propertyUsecase
func NewPropertyUsecase(propertyRepo propertyrepo.PropertyRepository, rawImportRepo propertyrepo.RawImportRepository, syncLogRepo synclogrepo.SyncLogRepository, cfg *config.Config) PropertyUsecase {
	maxUploadMB := 50
	batchSize := 1000
	if cfg != nil {
		if cfg.MaxUploadSizeMB > 0 {
			maxUploadMB = cfg.MaxUploadSizeMB
		}
		if cfg.ImportBatchSize > 0 {
			batchSize = cfg.ImportBatchSize
		}
	}
	return &propertyUsecase{
		propertyRepo:  propertyRepo,
		rawImportRepo: rawImportRepo,
		syncLogRepo:   syncLogRepo,
		maxUploadMB:   maxUploadMB,
		batchSize:     batchSize,
	}
}

func (u *propertyUsecase) ImportCSV(ctx context.Context, userID, filename string, size int64, reader io.Reader) (*ImportResult, error) {
	if size > int64(u.maxUploadMB)*1024*1024 {
		return nil, fmt.Errorf("%w: %dMB", ErrFileTooLarge, u.maxUploadMB)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return nil, ErrInvalidFileType
	}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCSVParse, err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyFile
	}

	headers := records[0]
	if missing := missingHeaders(headers); len(missing) > 0 {
		return nil, &MissingHeadersError{Missing: missing}
	}

	rows := records[1:]
	result := &ImportResult{Total: len(rows), Errors: []string{}}
	var allErrors []string

	for start := 0; start < len(rows); start += u.batchSize {
		end := start + u.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		rawRecords := make([]*propertydomain.RawImportRecord, 0, len(batch))
		var validProperties []*propertydomain.Property
		var validRecords []*propertydomain.RawImportRecord

		for idx, row := range batch {
			// 1-based data row plus the header line
			rowNumber := start + idx + 2

			record := &propertydomain.RawImportRecord{
				Filename:         filename,
				RowNumber:        rowNumber,
				RawData:          rawRowData(headers, row),
				ProcessingStatus: propertydomain.RawStatusPending,
			}
			rawRecords = append(rawRecords, record)

			property, err := buildProperty(mapRow(headers, row))
			if err != nil {
				result.Failed++
				message := fmt.Sprintf("Row %d: %v", rowNumber, err)
				allErrors = append(allErrors, message)
				record.ProcessingStatus = propertydomain.RawStatusError
				record.ProcessingError = message
				continue
			}

			// Best-effort duplicate suppression on the natural key; a lookup
			// failure falls through to the insert.
			exists, err := u.propertyRepo.ExistsByNaturalKey(property.Address, property.City, property.State, property.ZipCode)
			if err == nil && exists {
				result.Skipped++
				record.ProcessingStatus = propertydomain.RawStatusSkipped
				record.ProcessingError = "duplicate property"
				continue
			}

			validProperties = append(validProperties, property)
			validRecords = append(validRecords, record)
		}

		if len(validProperties) > 0 {
			if err := u.propertyRepo.CreateBatch(validProperties); err != nil {
				// A batch-level failure fails every row in the batch, once.
				result.Failed += len(validProperties)
				message := fmt.Sprintf("Batch insert failed: %v", err)
				allErrors = append(allErrors, message)
				for _, record := range validRecords {
					record.ProcessingStatus = propertydomain.RawStatusError
					record.ProcessingError = message
				}
			} else {
				result.Successful += len(validProperties)
				for i, record := range validRecords {
					record.PropertyID = validProperties[i].ID
					record.ProcessingStatus = propertydomain.RawStatusSynced
				}
			}
		}

		// The audit trail is written regardless of row outcomes.
		if err := u.rawImportRepo.CreateBatch(rawRecords); err != nil {
			log.Printf("[ERROR] Failed to store raw import records for %s: %v", filename, err)
		}

		result.Processed += len(batch)
	}

	u.logImport(userID, filename, size, result, allErrors)

	result.Errors = allErrors
	if len(result.Errors) > maxResponseErrors {
		result.Errors = result.Errors[:maxResponseErrors]
	}
	return result, nil
}

func (u *propertyUsecase) logImport(userID, filename string, size int64, result *ImportResult, allErrors []string) {
	status := synclogdomain.StatusCompleted
	if result.Total > 0 && result.Failed == result.Total {
		status = synclogdomain.StatusFailed
	}

	now := time.Now()
	entry := &synclogdomain.SyncLog{
		UserID:           userID,
		Provider:         integrationdomain.ProviderPropStream,
		SyncType:         synclogdomain.SyncTypeProperties,
		Status:           status,
		RecordsProcessed: result.Processed,
		RecordsCreated:   result.Successful,
		RecordsFailed:    result.Failed,
		ErrorMessages:    datatypes.NewJSONSlice(synclogdomain.CapErrors(allErrors)),
		Metadata: datatypes.JSONMap{
			"filename":   filename,
			"file_size":  size,
			"total_rows": result.Total,
		},
		CompletedAt: &now,
	}
	if err := u.syncLogRepo.Create(entry); err != nil {
		log.Printf("[ERROR] Failed to log import of %s: %v", filename, err)
	}
}

func (u *propertyUsecase) ListProperties(limit, offset int, city, state string) ([]*propertydomain.Property, int64, error) {
	return u.propertyRepo.List(limit, offset, city, state)
}

func rawRowData(headers, row []string) datatypes.JSONMap {
	data := datatypes.JSONMap{}
	for i, header := range headers {
		if i >= len(row) {
			break
		}
		data[strings.TrimSpace(header)] = row[i]
	}
	return data
}
