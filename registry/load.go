package registry

import (
	"bufio"
	"encoding/csv"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
	"github.com/gocarina/gocsv"
)

const BufferSize = 4096 * 8

// ExpandHome expands a leading ~ to the user's home directory, where
// appropriate.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path
}

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file. Registry extracts come
// both comma- and tab-delimited depending on the export tool.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// ReadRecords loads every transplant row from a delimited registry extract.
// The file is consumed once and the result is treated as immutable by all
// downstream stages.
func ReadRecords(path string) ([]DonorRecord, error) {
	path = ExpandHome(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	delim := DetermineDelimiter(f)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, pfx.Err(err)
	}
	log.Printf("Determined registry delimiter to be %q\n", string(delim))

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(bufio.NewReaderSize(in, BufferSize))
		r.Comma = delim
		r.LazyQuotes = true
		return r
	})

	records := []DonorRecord{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, pfx.Err(err)
	}

	return records, nil
}
