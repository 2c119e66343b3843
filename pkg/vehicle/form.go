// Package vehicle is the supplier's vehicle-info confirmation flow:
// form validation, registry lookups with last-keystroke-wins semantics,
// the under-capacity reconfirmation, and submission with field-level
// conflict mapping.
package vehicle

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field names a form input for error attribution and refocus.
type Field string

const (
	FieldManifestNumber Field = "manifest_number"
	FieldDispatchNumber Field = "dispatch_number"
	FieldLicensePlate   Field = "license_plate"
	FieldCarriageNumber Field = "carriage_number"
	FieldNote           Field = "note"
)

func (f Field) Label() string {
	switch f {
	case FieldManifestNumber:
		return "Manifest number"
	case FieldDispatchNumber:
		return "Dispatch number"
	case FieldLicensePlate:
		return "License plate"
	case FieldCarriageNumber:
		return "Carriage number"
	case FieldNote:
		return "Note"
	default:
		return string(f)
	}
}

// FieldErrors maps fields to display messages. A nil/empty map means
// the form is valid.
type FieldErrors map[Field]string

func (fe FieldErrors) Any() bool { return len(fe) > 0 }

// A plate is one Han character (the province), an uppercase letter, and
// five or six alphanumerics, e.g. 京A12345.
var platePattern = regexp.MustCompile(`^\p{Han}[A-Z][0-9A-Z]{5,6}$`)

const maxNoteRunes = 500

// ConfirmForm is the supplier's input. Whitespace is trimmed before
// validation; carriage number and note are optional.
type ConfirmForm struct {
	ManifestNumber string
	DispatchNumber string
	LicensePlate   string
	CarriageNumber string
	Note           string
}

func (f *ConfirmForm) trim() {
	f.ManifestNumber = strings.TrimSpace(f.ManifestNumber)
	f.DispatchNumber = strings.TrimSpace(f.DispatchNumber)
	f.LicensePlate = strings.TrimSpace(f.LicensePlate)
	f.CarriageNumber = strings.TrimSpace(f.CarriageNumber)
	f.Note = strings.TrimSpace(f.Note)
}

// Validate trims and checks the form, returning an error per offending
// field. It checks everything rather than stopping at the first
// problem, so the whole form lights up at once.
func (f *ConfirmForm) Validate() FieldErrors {
	f.trim()
	errs := FieldErrors{}
	if f.ManifestNumber == "" {
		errs[FieldManifestNumber] = "Manifest number is required"
	}
	if f.DispatchNumber == "" {
		errs[FieldDispatchNumber] = "Dispatch number is required"
	}
	switch {
	case f.LicensePlate == "":
		errs[FieldLicensePlate] = "License plate is required"
	case !platePattern.MatchString(f.LicensePlate):
		errs[FieldLicensePlate] = "License plate must look like 京A12345"
	}
	if utf8.RuneCountInString(f.Note) > maxNoteRunes {
		errs[FieldNote] = "Note must be 500 characters or fewer"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
