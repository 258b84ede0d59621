package dasherr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrCodeNone       ErrCode = ""
	ErrCodeUnknown    ErrCode = "UNKNOWN"
	ErrCodeNoUi       ErrCode = "NOUI"
	ErrCodeNoSurface  ErrCode = "NOSURFACE"
	ErrCodeModal      ErrCode = "MODAL"
	ErrCodeBadCsrf    ErrCode = "BADCSRF"
	ErrCodePanic      ErrCode = "PANIC"
	ErrCodeJson       ErrCode = "JSON"
	ErrCodeValidation ErrCode = "NOTVALID"
)

type DashErr struct {
	apiName   string
	err       error
	code      ErrCode
	permanent bool
}

func (e *DashErr) Error() string {
	codeStr := ""
	if e.code != "" {
		codeStr = fmt.Sprintf("[%s] ", e.code)
	}
	if e.apiName == "" {
		return fmt.Sprintf("%s%v", codeStr, e.err)
	}
	return fmt.Sprintf("Error calling %s: %s%v", e.apiName, codeStr, e.err)
}

func (e *DashErr) Unwrap() error {
	return e.err
}

func (e *DashErr) ErrCode() ErrCode {
	return e.code
}

func (e *DashErr) CanRetry() bool {
	return !e.permanent
}

func CanRetry(err error) bool {
	var dashErr *DashErr
	if errors.As(err, &dashErr) {
		return dashErr.CanRetry()
	}
	return true
}

func GetErrCode(err error) ErrCode {
	var dashErr *DashErr
	if errors.As(err, &dashErr) {
		return dashErr.ErrCode()
	}
	return ErrCodeNone
}

func ErrWithCode(code ErrCode, err error) error {
	return &DashErr{err: err, code: code}
}

func ErrWithCodeStr(code ErrCode, errStr string) error {
	return &DashErr{err: errors.New(errStr), code: code}
}

func ApiErr(apiName string, err error) error {
	if err == nil {
		return nil
	}
	if dashErr, ok := err.(*DashErr); ok {
		return &DashErr{apiName: apiName, err: dashErr.err, code: dashErr.code, permanent: dashErr.permanent}
	}
	return &DashErr{apiName: apiName, err: err, code: ErrCodeUnknown}
}

func JsonMarshalErr(thing string, err error) error {
	return &DashErr{
		err:       fmt.Errorf("Error Marshaling %s to JSON: %w", thing, err),
		code:      ErrCodeJson,
		permanent: true,
	}
}

func JsonUnmarshalErr(thing string, err error) error {
	return &DashErr{
		err:       fmt.Errorf("Error Unmarshaling %s from JSON: %w", thing, err),
		code:      ErrCodeJson,
		permanent: true,
	}
}

func ValidateErr(err error) error {
	if GetErrCode(err) == ErrCodeValidation {
		return err
	}
	return &DashErr{
		err:       err,
		code:      ErrCodeValidation,
		permanent: true,
	}
}

func NoSurfaceErr(surfaceId string) error {
	return &DashErr{
		err:       fmt.Errorf("No surface found id:%s", surfaceId),
		code:      ErrCodeNoSurface,
		permanent: true,
	}
}

func NoUiErr(uiId string) error {
	return &DashErr{
		err:       fmt.Errorf("No UI found id:%s (expired or never loaded)", uiId),
		code:      ErrCodeNoUi,
		permanent: true,
	}
}

// ModalErr is returned when a signal targets a surface outside of the active server-side modal.
func ModalErr(surfaceId string, modalId string) error {
	return &DashErr{
		err:       fmt.Errorf("Signal to surface:%s blocked by modal surface:%s", surfaceId, modalId),
		code:      ErrCodeModal,
		permanent: true,
	}
}
