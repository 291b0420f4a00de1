package ledger

import "fmt"

// Status represents the attendance marking for a single day. A date
// with no entry in the ledger is unmarked, which is distinct from both
// statuses.
type Status int

const (
	StatusInOffice Status = iota + 1
	StatusOutOfOffice
)

// Persisted status strings. These are the only values that may appear
// in the data file.
const (
	statusInOfficeText    = "in_office"
	statusOutOfOfficeText = "ooo"
)

func (s Status) String() string {
	switch s {
	case StatusInOffice:
		return statusInOfficeText
	case StatusOutOfOffice:
		return statusOutOfOfficeText
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler for the persisted form
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusInOffice, StatusOutOfOffice:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus parses a persisted status string
func ParseStatus(text string) (Status, error) {
	switch text {
	case statusInOfficeText:
		return StatusInOffice, nil
	case statusOutOfOfficeText:
		return StatusOutOfOffice, nil
	default:
		return 0, fmt.Errorf("unknown status %q", text)
	}
}
