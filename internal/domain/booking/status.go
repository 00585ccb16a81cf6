package booking

import (
	"fmt"
	"strings"
)

// Status は予約の状態を表す
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusReserved  Status = "RESERVED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// 許可される状態遷移
var validTransitions = map[Status][]Status{
	StatusAvailable: {StatusReserved},
	StatusReserved:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

var displayNames = map[Status]string{
	StatusAvailable: "Verfügbar",
	StatusReserved:  "Reserviert",
	StatusConfirmed: "Bestätigt",
	StatusCancelled: "Storniert",
}

// AllStatuses は状態を遷移順で返す
func AllStatuses() []Status {
	return []Status{StatusAvailable, StatusReserved, StatusConfirmed, StatusCancelled}
}

// ParseStatus は文字列から状態を解析する（大文字小文字を区別しない）
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := validTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// CanTransitionTo は next への遷移が許可されているかを返す
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal は終端状態かを返す
func (s Status) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	return ok && len(allowed) == 0
}

// IsActive はキャンセル以外の状態かを返す
func (s Status) IsActive() bool {
	return s != StatusCancelled
}

// IsValid は定義済みの状態かを返す
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// DisplayName は表示用の名称を返す
func (s Status) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

func (s Status) String() string {
	return string(s)
}
