package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartenergy/metering/internal/cloud"
	"github.com/smartenergy/metering/internal/repository"
)

// ReportService exports facility readings as CSV reports to S3. It is only
// wired up when cloud services are enabled.
type ReportService struct {
	repos *repository.Repos
	s3    *cloud.S3Client
	sns   *cloud.SNSClient
}

func NewReportService(repos *repository.Repos, s3 *cloud.S3Client, sns *cloud.SNSClient) *ReportService {
	return &ReportService{repos: repos, s3: s3, sns: sns}
}

// PublishFacilityReport renders every reading for the facility to CSV,
// uploads it and returns a presigned download URL. A failed SNS notification
// is logged but does not fail the report.
func (s *ReportService) PublishFacilityReport(ctx context.Context, facilityName string) (string, error) {
	readings, err := s.repos.ListReadingsByFacility(ctx, facilityName, "")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"reading_id", "value", "reading_date", "meter_serial_number", "email"})
	for _, r := range readings {
		_ = w.Write([]string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			r.Date,
			r.Serial,
			r.Email,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("render report for %q: %w", facilityName, err)
	}

	key := fmt.Sprintf("reports/%s/%s.csv", facilityName, time.Now().UTC().Format("20060102T150405Z"))
	url, err := s.s3.UploadReport(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		return "", err
	}

	if s.sns != nil {
		if err := s.sns.PublishReportNotification(ctx, facilityName, url); err != nil {
			log.Error().Err(err).Str("facility", facilityName).Msg("report notification failed")
		}
	}
	return url, nil
}

// ListFacilityReports lists the S3 keys of reports already published for the
// facility.
func (s *ReportService) ListFacilityReports(ctx context.Context, facilityName string) ([]string, error) {
	// resolve first so an unknown facility is a 404, not an empty listing
	if _, err := s.repos.ResolveFacilityID(ctx, facilityName); err != nil {
		return nil, err
	}
	return s.s3.ListReports(ctx, "reports/"+facilityName+"/")
}
