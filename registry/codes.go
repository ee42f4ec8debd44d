package registry

import "gopkg.in/guregu/null.v3"

// Registry code values for the categorical donor fields. These are data
// about the export format, not tunable parameters.
const (
	RaceWhite int64 = 8
	RaceBlack int64 = 16

	// DON_HIST_HYPERTEN and DON_HIST_DIAB share a coding scheme: 1 means no
	// history, 2-5 grade an affirmative history by duration, 998 means the
	// history was not obtainable.
	HistoryNo      int64 = 1
	HistoryYesMin  int64 = 2
	HistoryYesMax  int64 = 5
	HistoryUnknown int64 = 998

	CauseAnoxia          int64 = 1
	CauseCerebrovascular int64 = 2
	CauseHeadTrauma      int64 = 3
	CauseCNSTumor        int64 = 4
	CauseOther           int64 = 999
)

const (
	HCVPositive = "P"
	HCVNegative = "N"

	NonHeartBeatingYes = "Y"

	LastStatusAlive = "A"
	LastStatusDead  = "D"
	LastStatusLost  = "L"
	LastStatusRetx  = "R"
)

// HistoryState is the three-way reading of a donor history field.
type HistoryState int

const (
	HistoryStateNo HistoryState = iota
	HistoryStateYes
	HistoryStateUnknown
)

// ReadHistory collapses a coded history column to no/yes/unknown. A blank
// column reads as unknown, the same as the explicit not-obtainable code.
func ReadHistory(code null.Int) HistoryState {
	if !code.Valid || code.Int64 == HistoryUnknown {
		return HistoryStateUnknown
	}

	if code.Int64 >= HistoryYesMin && code.Int64 <= HistoryYesMax {
		return HistoryStateYes
	}

	return HistoryStateNo
}

// Deceased reports whether the follow-up status column indicates the
// recipient died.
func (r DonorRecord) Deceased() bool {
	return r.LastStatus.Valid && r.LastStatus.String == LastStatusDead
}
