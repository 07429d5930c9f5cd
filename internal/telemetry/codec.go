package telemetry

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// BinaryRecordSize is the fixed wire size of one binary record:
// uint32 millis, float32 heading, int32 left, int32 right, int16 z,
// little-endian, no padding.
const BinaryRecordSize = 18

func writeBinary(w io.Writer, rec Record) error {
	var buf [BinaryRecordSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], rec.Millis)
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(rec.Heading)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(rec.LeftPos))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(rec.RightPos))
	binary.LittleEndian.PutUint16(buf[16:18], uint16(rec.Z))
	_, err := w.Write(buf[:])
	return err
}

// writeCSV emits `<left_delta>,<right_delta>,<heading_delta>\n`.
// The heading delta uses the shortest representation that parses
// back to the same float64.
func writeCSV(w io.Writer, rec Record) error {
	line := strconv.FormatInt(int64(rec.LeftDelta), 10) + "," +
		strconv.FormatInt(int64(rec.RightDelta), 10) + "," +
		strconv.FormatFloat(rec.HeadingDelta, 'g', -1, 64) + "\n"
	_, err := io.WriteString(w, line)
	return err
}

// ParseBinary decodes a stream of binary records. A truncated final
// record (the usual artifact of pulling power mid-flush) is reported
// alongside the records decoded before it.
func ParseBinary(r io.Reader) ([]Record, error) {
	var records []Record
	var buf [BinaryRecordSize]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			return records, nil
		}
		if err == io.ErrUnexpectedEOF {
			return records, fmt.Errorf("truncated record after %d complete records", len(records))
		}
		if err != nil {
			return records, err
		}

		records = append(records, Record{
			Millis:   binary.LittleEndian.Uint32(buf[0:4]),
			Heading:  float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))),
			LeftPos:  int32(binary.LittleEndian.Uint32(buf[8:12])),
			RightPos: int32(binary.LittleEndian.Uint32(buf[12:16])),
			Z:        int16(binary.LittleEndian.Uint16(buf[16:18])),
		})
	}
}

// ParseCSV decodes CSV-mode telemetry back into records. Only the
// delta fields are populated; CSV mode never had the absolute values.
func ParseCSV(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return records, fmt.Errorf("line %d: want 3 fields, got %d", lineNum, len(parts))
		}
		left, err := strconv.ParseInt(parts[0], 10, 32)
		if err != nil {
			return records, fmt.Errorf("line %d: left delta: %w", lineNum, err)
		}
		right, err := strconv.ParseInt(parts[1], 10, 32)
		if err != nil {
			return records, fmt.Errorf("line %d: right delta: %w", lineNum, err)
		}
		hd, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return records, fmt.Errorf("line %d: heading delta: %w", lineNum, err)
		}
		records = append(records, Record{
			LeftDelta:    int32(left),
			RightDelta:   int32(right),
			HeadingDelta: hd,
		})
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}
