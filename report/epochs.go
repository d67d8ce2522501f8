package report

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	actinotes "acti-analyzer"
	"acti-analyzer/series"
)

// EpochRow is one labelled epoch in the exported stream.
type EpochRow struct {
	Timestamp   time.Time
	Index       int
	MagnitudeMG float64
	Imputed     bool
	Worn        bool
	Intensity   string
}

func buildEpochRows(a *actinotes.Analysis, s *series.Series) []EpochRow {
	rows := make([]EpochRow, s.Len())
	for i := 0; i < s.Len(); i++ {
		rows[i] = EpochRow{
			Timestamp:   s.Timestamp(i),
			Index:       i,
			MagnitudeMG: s.Samples[i].Magnitude,
			Imputed:     s.Samples[i].Imputed,
			Worn:        a.Wear.Mask[i],
			Intensity:   a.Activity.Labels[i].String(),
		}
	}
	return rows
}

func writeEpochsCSV(path string, rows []EpochRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"timestamp", "epoch_index", "magnitude_mg", "imputed", "worn", "intensity"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			strconv.Itoa(r.Index),
			strconv.FormatFloat(r.MagnitudeMG, 'f', 3, 64),
			strconv.FormatBool(r.Imputed),
			strconv.FormatBool(r.Worn),
			r.Intensity,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type epochParquetRow struct {
	Timestamp   string  `parquet:"name=timestamp, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Index       int64   `parquet:"name=epoch_index, type=INT64"`
	MagnitudeMG float64 `parquet:"name=magnitude_mg, type=DOUBLE"`
	Imputed     bool    `parquet:"name=imputed, type=BOOLEAN"`
	Worn        bool    `parquet:"name=worn, type=BOOLEAN"`
	Intensity   string  `parquet:"name=intensity, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func writeEpochsParquet(path string, rows []EpochRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(epochParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := epochParquetRow{
			Timestamp:   r.Timestamp.Format(time.RFC3339),
			Index:       int64(r.Index),
			MagnitudeMG: r.MagnitudeMG,
			Imputed:     r.Imputed,
			Worn:        r.Worn,
			Intensity:   r.Intensity,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
