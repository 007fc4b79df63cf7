package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

// SnapshotProvider yields the current per-location snapshot list. Satisfied
// by the analytics service.
type SnapshotProvider interface {
	Dashboard(ctx context.Context) ([]*stock.LocationSnapshot, error)
}

// ReportService renders the daily stock report as CSV and ships it to the
// object store.
type ReportService interface {
	ExportDailyReport(ctx context.Context, day time.Time) (string, error)
}

type reportService struct {
	snapshots SnapshotProvider
	store     ObjectStore
	bucket    string
	log       *logger.Logger
}

func NewReportService(snapshots SnapshotProvider, store ObjectStore, bucket string, log *logger.Logger) ReportService {
	return &reportService{
		snapshots: snapshots,
		store:     store,
		bucket:    bucket,
		log:       log,
	}
}

// ExportDailyReport writes one CSV row per location and returns a presigned
// download URL valid for 24 hours.
func (s *reportService) ExportDailyReport(ctx context.Context, day time.Time) (string, error) {
	snapshots, err := s.snapshots.Dashboard(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"location", "type", "on_hand_kg", "on_hand_bags", "status", "capacity_percent", "needed_to_target_kg"}); err != nil {
		return "", err
	}
	for _, snap := range snapshots {
		record := []string{
			snap.Location.Name,
			snap.Location.Type,
			strconv.FormatFloat(snap.OnHandKg, 'f', 2, 64),
			strconv.Itoa(snap.OnHandBags),
			string(snap.Status),
			strconv.Itoa(snap.CapacityPercent),
			strconv.FormatFloat(snap.NeededToTargetKg, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	if err := s.store.EnsureBucketExists(ctx, s.bucket); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("stock-report-%s.csv", day.UTC().Format("2006-01-02"))
	if err := s.store.Upload(ctx, s.bucket, objectName, "text/csv", &buf, int64(buf.Len())); err != nil {
		return "", err
	}

	url, err := s.store.GetPresignedURL(s.bucket, objectName, 24*time.Hour)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("object", objectName).Int("locations", len(snapshots)).Msg("daily report exported")
	return url, nil
}
