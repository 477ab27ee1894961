package requests

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ridefleet-sim/ridefleet/roadnet"
	"github.com/ridefleet-sim/ridefleet/simerr"
)

// Row is a single record off the resource dataset, already map-matched
// to LocationOnRoad positions — map-matching itself is out of scope
// here.
type Row struct {
	AnnounceTime int64
	PickupLoc    roadnet.LocationOnRoad
	DropoffLoc   roadnet.LocationOnRoad
	TripDuration int64
	Fare         float64
}

// Feed is the consumed resource feed interface: an iterator of rows in
// non-decreasing announce_time. Next returns io.EOF when exhausted.
type Feed interface {
	Next() (Row, error)
}

// SliceFeed is an in-memory Feed backed by a pre-built slice of rows,
// used by tests.
type SliceFeed struct {
	rows []Row
	pos  int
}

// NewSliceFeed creates a SliceFeed. Rows must already be sorted by
// AnnounceTime non-decreasing; NewSliceFeed does not sort them, it
// validates the ordering eagerly so a malformed generator fails fast at
// configure time rather than silently misbehaving mid-run.
func NewSliceFeed(rows []Row) (*SliceFeed, error) {
	for i := 1; i < len(rows); i++ {
		if rows[i].AnnounceTime < rows[i-1].AnnounceTime {
			return nil, simerr.Data(fmt.Sprintf("row %d announce_time %d precedes row %d's %d", i, rows[i].AnnounceTime, i-1, rows[i-1].AnnounceTime), nil)
		}
	}
	return &SliceFeed{rows: rows}, nil
}

// Next implements Feed.
func (f *SliceFeed) Next() (Row, error) {
	if f.pos >= len(f.rows) {
		return Row{}, io.EOF
	}
	row := f.rows[f.pos]
	f.pos++
	return row, nil
}

// CSVFeed is a Feed backed by a CSV dataset file. Expected columns:
//
//	announce_time,pickup_road_from,pickup_road_to,pickup_road_duration,pickup_offset,
//	dropoff_road_from,dropoff_road_to,dropoff_road_duration,dropoff_offset,
//	trip_duration,fare
type CSVFeed struct {
	reader *csv.Reader
	file   *os.File
	lineNo int
	prevAt int64
	seen   bool
}

// OpenCSVFeed opens path and validates its header before returning.
func OpenCSVFeed(path string) (*CSVFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, simerr.Data("open resource dataset", err)
	}
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 11
	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, simerr.Data("read resource dataset header", err)
	}
	if len(header) != 11 {
		file.Close()
		return nil, simerr.Data(fmt.Sprintf("resource dataset header has %d columns, want 11", len(header)), nil)
	}
	return &CSVFeed{reader: reader, file: file, lineNo: 1}, nil
}

// Close releases the underlying file handle.
func (f *CSVFeed) Close() error { return f.file.Close() }

// Next implements Feed.
func (f *CSVFeed) Next() (Row, error) {
	record, err := f.reader.Read()
	if err == io.EOF {
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("resource dataset row %d", f.lineNo+1), err)
	}
	f.lineNo++

	announceTime, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid announce_time", f.lineNo), err)
	}
	if f.seen && announceTime < f.prevAt {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: announce_time %d precedes previous row's %d", f.lineNo, announceTime, f.prevAt), nil)
	}
	f.prevAt = announceTime
	f.seen = true

	pickupFrom, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid pickup_road_from", f.lineNo), err)
	}
	pickupTo, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid pickup_road_to", f.lineNo), err)
	}
	pickupDur, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid pickup_road_duration", f.lineNo), err)
	}
	pickupOffset, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid pickup_offset", f.lineNo), err)
	}
	dropoffFrom, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid dropoff_road_from", f.lineNo), err)
	}
	dropoffTo, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid dropoff_road_to", f.lineNo), err)
	}
	dropoffDur, err := strconv.ParseInt(record[7], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid dropoff_road_duration", f.lineNo), err)
	}
	dropoffOffset, err := strconv.ParseInt(record[8], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid dropoff_offset", f.lineNo), err)
	}
	tripDuration, err := strconv.ParseInt(record[9], 10, 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid trip_duration", f.lineNo), err)
	}
	fare, err := strconv.ParseFloat(record[10], 64)
	if err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: invalid fare", f.lineNo), err)
	}
	if fare <= 0 {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: fare must be positive, got %v", f.lineNo, fare), nil)
	}

	pickup := roadnet.LocationOnRoad{
		Road:                roadnet.Road{From: roadnet.IntersectionID(pickupFrom), To: roadnet.IntersectionID(pickupTo), Duration: pickupDur},
		TravelTimeFromStart: pickupOffset,
	}
	dropoff := roadnet.LocationOnRoad{
		Road:                roadnet.Road{From: roadnet.IntersectionID(dropoffFrom), To: roadnet.IntersectionID(dropoffTo), Duration: dropoffDur},
		TravelTimeFromStart: dropoffOffset,
	}
	if err := pickup.Validate(); err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: pickup location", f.lineNo), err)
	}
	if err := dropoff.Validate(); err != nil {
		return Row{}, simerr.Data(fmt.Sprintf("row %d: dropoff location", f.lineNo), err)
	}

	return Row{
		AnnounceTime: announceTime,
		PickupLoc:    pickup,
		DropoffLoc:   dropoff,
		TripDuration: tripDuration,
		Fare:         fare,
	}, nil
}
