package reconciliation

import (
	"bytes"
	"errors"
	"fmt"

	"ota-reconciliation-backend/internal/services/matching"
	"ota-reconciliation-backend/internal/spreadsheet"
)

var ErrInvalidUpload = errors.New("invalid upload")

// Upload is one file received from a client.
type Upload struct {
	Filename string
	Content  []byte
}

type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrInvalidUpload }

func readTable(u Upload) (*matching.Table, error) {
	table, err := spreadsheet.Read(bytes.NewReader(u.Content), u.Filename)
	if err != nil {
		return nil, &UploadError{Filename: u.Filename, Err: err}
	}
	return table, nil
}
