// Package registry models transplant registry extracts: one row per
// transplant event, with donor covariates and recipient follow-up fields.
package registry

import (
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/guregu/null.v3"
)

// DonorRecord is one transplant event as exported by the registry. Column
// names follow the registry's standard analysis file. Fields that may be
// blank in the export are nullable; dates are kept as raw strings because
// export formats vary by file vintage, and are parsed on demand.
type DonorRecord struct {
	TransplantDate   null.String `csv:"REC_TX_DT"`
	RecipientAge     null.Float  `csv:"REC_AGE_AT_TX"`
	DonorAge         null.Float  `csv:"DON_AGE"`
	DonorHeightCM    null.Float  `csv:"DON_HGT_CM"`
	DonorWeightKG    null.Float  `csv:"DON_WGT_KG"`
	DonorRace        null.Int    `csv:"DON_RACE"`
	Hypertension     null.Int    `csv:"DON_HIST_HYPERTEN"`
	Diabetes         null.Int    `csv:"DON_HIST_DIAB"`
	CauseOfDeath     null.Int    `csv:"DON_COD"`
	Creatinine       null.Float  `csv:"DON_CREAT"`
	HCVAntibody      null.String `csv:"DON_ANTI_HCV"`
	NonHeartBeating  null.String `csv:"DON_NON_HR_BEAT"`
	GraftFailureDate null.String `csv:"REC_FAIL_DT"`
	DeathDate        null.String `csv:"TFL_DEATH_DT"`
	LastContactDate  null.String `csv:"TFL_LAFUDATE"`
	LastStatus       null.String `csv:"TFL_LASTATUS"`
}

// ParseDate interprets a nullable raw date column. The second return is
// false when the column is blank or unparseable.
func ParseDate(raw null.String) (time.Time, bool) {
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseAny(raw.String)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Transplant returns the transplant date, if present.
func (r DonorRecord) Transplant() (time.Time, bool) {
	return ParseDate(r.TransplantDate)
}

// GraftFailure returns the graft-failure date, if present.
func (r DonorRecord) GraftFailure() (time.Time, bool) {
	return ParseDate(r.GraftFailureDate)
}

// Death returns the recipient death date, if present.
func (r DonorRecord) Death() (time.Time, bool) {
	return ParseDate(r.DeathDate)
}

// LastContact returns the last-known-alive date, if present.
func (r DonorRecord) LastContact() (time.Time, bool) {
	return ParseDate(r.LastContactDate)
}
