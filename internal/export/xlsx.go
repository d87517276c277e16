package export

import (
	"context"
	"fmt"
	"time"

	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/xuri/excelize/v2"
)

// Exporter renders booking reports as xlsx workbooks.
type Exporter struct {
	repo domain.Repository
}

func NewExporter(repo domain.Repository) *Exporter {
	return &Exporter{repo: repo}
}

// BookingsWorkbook builds a workbook with one sheet of bookings in the range
// and one sheet of per-room occupancy.
func (e *Exporter) BookingsWorkbook(ctx context.Context, start, end time.Time) (*excelize.File, error) {
	bookings, err := e.repo.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	occupancy, err := e.repo.OccupancyRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load occupancy: %w", err)
	}

	f := excelize.NewFile()

	const bookingsSheet = "Bookings"
	f.SetSheetName("Sheet1", bookingsSheet)
	if err := e.writeBookings(f, bookingsSheet, bookings); err != nil {
		return nil, err
	}

	const occupancySheet = "Occupancy"
	if _, err := f.NewSheet(occupancySheet); err != nil {
		return nil, err
	}
	if err := e.writeOccupancy(f, occupancySheet, occupancy); err != nil {
		return nil, err
	}

	return f, nil
}

func (e *Exporter) writeBookings(f *excelize.File, sheet string, bookings []*models.Booking) error {
	headers := []string{"ID", "Room", "User", "Start", "End", "Title", "Cancelled"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.RoomName,
			b.UserName,
			b.Start.Format("2006-01-02 15:04"),
			b.End.Format("2006-01-02 15:04"),
			b.Title,
			b.IsCancelled,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Exporter) writeOccupancy(f *excelize.File, sheet string, rates []*models.RoomOccupancy) error {
	headers := []string{"Room", "Total", "Active", "Rate"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(sheet, "A1", "D1", headerStyle)

	for i, r := range rates {
		row := i + 2
		values := []interface{}{r.RoomName, r.Total, r.Active, r.Rate}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}
